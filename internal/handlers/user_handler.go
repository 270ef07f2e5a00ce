package handlers

import (
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves user profiles.
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes registers the user routes. Guards are attached per route
// because a guarded group on /users/:userId would also match /users/signup.
func (h *UserHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	router.Get("/users", guards.Auth, guards.Admin, h.HandleListUsers)
	router.Get("/users/:userId", guards.Auth, guards.Owner, h.HandleGetUser)
	router.Patch("/users/:userId", guards.Auth, guards.Owner, h.HandleUpdateUser)
	router.Delete("/users/:userId", guards.Auth, guards.Owner, h.HandleDeleteUser)
}

func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.users.GetUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// HandleUpdateUser applies a partial update. Absent fields are left alone;
// explicit nulls are rejected.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var p models.UserPatch
	if err := parseBody(c, &p); err != nil {
		return err
	}

	user, err := h.users.UpdateUser(c.UserContext(), c.Params("userId"), p)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if _, err := h.users.DeleteUser(c.UserContext(), c.Params("userId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
