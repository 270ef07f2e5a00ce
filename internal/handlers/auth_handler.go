package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SignupRequest is the body of POST /users/signup. The admin flag is not
// accepted from clients.
type SignupRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=100"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Address     string `json:"address" validate:"max=255"`
	PhoneNumber string `json:"phone_number" validate:"max=50"`
	BillingInfo string `json:"billing_info" validate:"max=1000"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	users    *services.UserService
	auth     *services.AuthService
	validate *validation.Validator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *services.UserService, auth *services.AuthService) *AuthHandler {
	return &AuthHandler{
		users:    users,
		auth:     auth,
		validate: validation.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	router.Post("/users/signup", h.HandleSignup)
	router.Post("/auth/login", h.HandleLogin)
	router.Get("/auth/me", guards.Auth, h.HandleMe)
}

// HandleSignup handles new user registration.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.validate.Struct(req); err != nil {
		return err
	}

	user := models.User{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		BillingInfo: req.BillingInfo,
	}
	if err := h.users.Signup(c.UserContext(), &user); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

// HandleLogin exchanges credentials for a token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.validate.Struct(req); err != nil {
		return err
	}

	token, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

// HandleMe returns the caller's identity.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(middleware.IdentityFrom(c))
}
