package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"
)

// ProductHandler handles HTTP requests for the product catalog views.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
// The /new route must be registered before /:id so Fiber does not try to
// parse "new" as an ID.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/new", h.HandleNewProductForm)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/:id", h.HandleProductDetails)
	productRoutes.Get("/:id/edit", h.HandleEditProductForm)
	productRoutes.Post("/:id/edit", h.HandleUpdateProduct)
	productRoutes.Get("/:id/delete", h.HandleDeleteProductForm)
	productRoutes.Post("/:id/delete", h.HandleDeleteProduct)
}

// HandleListProducts renders the catalog listing.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return h.renderServerError(c, "Could not retrieve products")
	}
	return c.Render("products/index", fiber.Map{
		"Title":    "Products",
		"Products": products,
	})
}

// HandleProductDetails renders a single product.
func (h *ProductHandler) HandleProductDetails(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return h.renderNotFound(c)
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return h.renderNotFound(c)
		}
		log.Printf("Error getting product by ID %d: %v", id, err)
		return h.renderServerError(c, "Could not retrieve product")
	}
	return c.Render("products/details", fiber.Map{
		"Title":   product.Name,
		"Product": product,
	})
}

// HandleNewProductForm renders an empty create form.
func (h *ProductHandler) HandleNewProductForm(c *fiber.Ctx) error {
	return c.Render("products/new", fiber.Map{
		"Title":   "New Product",
		"Product": models.Product{},
	})
}

// HandleCreateProduct creates a new product from the submitted form.
// Invalid input re-renders the form with the submitted values.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing create product form: %v", err)
		return c.Status(fiber.StatusUnprocessableEntity).Render("products/new", fiber.Map{
			"Title":   "New Product",
			"Product": product,
			"Errors":  map[string]string{"Form": "Invalid form input"},
		})
	}
	product.ID = 0 // the store assigns the ID

	if err := h.validate.Struct(product); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).Render("products/new", fiber.Map{
			"Title":   "New Product",
			"Product": product,
			"Errors":  validationMessages(err),
		})
	}

	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return h.renderServerError(c, "Could not create product")
	}
	return c.Redirect("/products", fiber.StatusSeeOther)
}

// HandleEditProductForm renders the edit form pre-filled with stored values.
func (h *ProductHandler) HandleEditProductForm(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return h.renderNotFound(c)
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return h.renderNotFound(c)
		}
		log.Printf("Error getting product %d for edit: %v", id, err)
		return h.renderServerError(c, "Could not retrieve product")
	}
	return c.Render("products/edit", fiber.Map{
		"Title":   fmt.Sprintf("Edit %s", product.Name),
		"Product": product,
	})
}

// HandleUpdateProduct replaces the name and price of an existing product.
// A form ID that does not match the path ID yields not found.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return h.renderNotFound(c)
	}

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing edit product form: %v", err)
		return c.Status(fiber.StatusUnprocessableEntity).Render("products/edit", fiber.Map{
			"Title":   "Edit Product",
			"Product": models.Product{ID: id},
			"Errors":  map[string]string{"Form": "Invalid form input"},
		})
	}
	if product.ID != id {
		return h.renderNotFound(c)
	}

	if err := h.validate.Struct(product); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).Render("products/edit", fiber.Map{
			"Title":   "Edit Product",
			"Product": product,
			"Errors":  validationMessages(err),
		})
	}

	if err := h.service.UpdateProduct(&product); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return h.renderNotFound(c)
		}
		log.Printf("Error updating product %d: %v", id, err)
		return h.renderServerError(c, "Could not update product")
	}
	return c.Redirect("/products", fiber.StatusSeeOther)
}

// HandleDeleteProductForm renders the delete confirmation view.
func (h *ProductHandler) HandleDeleteProductForm(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return h.renderNotFound(c)
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return h.renderNotFound(c)
		}
		log.Printf("Error getting product %d for delete confirmation: %v", id, err)
		return h.renderServerError(c, "Could not retrieve product")
	}
	return c.Render("products/delete", fiber.Map{
		"Title":   fmt.Sprintf("Delete %s", product.Name),
		"Product": product,
	})
}

// HandleDeleteProduct deletes a product. Deleting an unknown ID yields not
// found rather than a silent no-op.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return h.renderNotFound(c)
	}

	if err := h.service.DeleteProduct(id); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return h.renderNotFound(c)
		}
		log.Printf("Error deleting product %d: %v", id, err)
		return h.renderServerError(c, "Could not delete product")
	}
	return c.Redirect("/products", fiber.StatusSeeOther)
}

// parseProductID extracts the numeric product ID from the request path.
func parseProductID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid product ID %q: %w", c.Params("id"), err)
	}
	return uint(id), nil
}

// validationMessages maps validator errors to per-field messages for the
// form views.
func validationMessages(err error) map[string]string {
	messages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		messages["Form"] = err.Error()
		return messages
	}
	for _, e := range validationErrors {
		messages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return messages
}

func (h *ProductHandler) renderNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{
		"Title": "Not Found",
	})
}

func (h *ProductHandler) renderServerError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{
		"Title":   "Something went wrong",
		"Message": message,
	})
}
