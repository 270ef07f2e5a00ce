package handlers

import (
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler exposes a read-only view of a user's cart.
type CartHandler struct {
	carts *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	router.Get("/users/:userId/cart", guards.Auth, guards.Owner, h.HandleGetCart)
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	view, err := h.carts.GetCart(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}
