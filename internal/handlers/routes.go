package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Guards are the access-control steps a route can be wrapped in.
type Guards struct {
	// Auth resolves the caller from the Authorization header.
	Auth fiber.Handler
	// Owner requires the caller to be the user in the :userId parameter.
	Owner fiber.Handler
	// Admin requires the caller to currently hold the admin role.
	Admin fiber.Handler
}

// RouteRegistrar is implemented by every handler.
type RouteRegistrar interface {
	RegisterRoutes(router fiber.Router, guards Guards)
}
