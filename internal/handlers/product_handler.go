package handlers

import (
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the body of POST /products/create.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,min=3,max=100"`
	Description string           `json:"description" validate:"required,max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	PhotoURL    string           `json:"photo_url" validate:"required,max=1024"`
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	catalog  services.ProductCatalog
	validate *validation.Validator
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog services.ProductCatalog) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		validate: validation.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	router.Get("/products", h.HandleGetProducts)
	router.Post("/products/create", guards.Auth, guards.Admin, h.HandleCreateProduct)
	router.Get("/products/:id", h.HandleGetProductByID)
	router.Patch("/products/:id", guards.Auth, guards.Admin, h.HandleUpdateProduct)
	router.Delete("/products/:id", guards.Auth, guards.Admin, h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.catalog.GetAllProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.catalog.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.validate.Struct(req); err != nil {
		return err
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		PhotoURL:    req.PhotoURL,
	}
	if err := h.catalog.CreateProduct(c.UserContext(), &product); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var p models.ProductPatch
	if err := parseBody(c, &p); err != nil {
		return err
	}

	product, err := h.catalog.UpdateProduct(c.UserContext(), c.Params("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if _, err := h.catalog.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
