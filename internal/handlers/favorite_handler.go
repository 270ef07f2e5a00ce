package handlers

import (
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

type addFavoriteRequest struct {
	ProductID string `json:"product_id"`
}

// FavoriteHandler serves a user's favorites.
type FavoriteHandler struct {
	favorites *services.FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(favorites *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

func (h *FavoriteHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	router.Get("/users/:userId/favorites", guards.Auth, guards.Owner, h.HandleListFavorites)
	router.Post("/users/:userId/favorites", guards.Auth, guards.Owner, h.HandleAddFavorite)
	router.Delete("/users/:userId/favorites/:favoriteId", guards.Auth, guards.Owner, h.HandleRemoveFavorite)
}

func (h *FavoriteHandler) HandleListFavorites(c *fiber.Ctx) error {
	favorites, err := h.favorites.ListFavorites(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(favorites)
}

func (h *FavoriteHandler) HandleAddFavorite(c *fiber.Ctx) error {
	var req addFavoriteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	favorite, err := h.favorites.AddFavorite(c.UserContext(), c.Params("userId"), req.ProductID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(favorite)
}

func (h *FavoriteHandler) HandleRemoveFavorite(c *fiber.Ctx) error {
	if _, err := h.favorites.RemoveFavorite(c.UserContext(), c.Params("userId"), c.Params("favoriteId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
