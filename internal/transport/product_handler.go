package transport

import (
	"net/http"

	"rsm-commerce/internal/domain"
	"rsm-commerce/internal/middleware"
	"rsm-commerce/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateProductRequest represents a new catalog product
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Category    string   `json:"category" validate:"required,max=100"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	OldPrice    *float64 `json:"oldPrice" validate:"omitempty,gt=0"`
	Image       string   `json:"image" validate:"max=2048"`
	Gamme       string   `json:"gamme" validate:"max=100"`
}

// UpdateProductRequest is a partial product edit
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Category    *string  `json:"category" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	OldPrice    *float64 `json:"oldPrice" validate:"omitempty,gt=0"`
	Image       *string  `json:"image" validate:"omitempty,max=2048"`
	Gamme       *string  `json:"gamme" validate:"omitempty,max=100"`
}

// ProductHandler serves the catalog
type ProductHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{catalogService: catalogService, logger: logger}
}

// RegisterRoutes registers the catalog routes; writes are staff only
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
		r.Get("/relate/{id}", h.RelatedProducts)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, middleware.RequireStaff(h.logger))
			r.Post("/create-product", h.CreateProduct)
			r.Patch("/update-product/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})
	})
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minPrice, maxPrice := priceRange(r)
	filter := domain.ProductFilter{
		Category: q.Get("category"),
		Gamme:    q.Get("gamme"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}
	page := domain.NewPage(queryInt(r, "page"), queryInt(r, "limit"), service.DefaultProductPageSize, 0)

	result, err := h.catalogService.ListProducts(r.Context(), filter, page)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// GetProduct returns a product with its reviews
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, detail)
}

func (h *ProductHandler) RelatedProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	related, err := h.catalogService.RelatedProducts(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to find related products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, related)
}

// CreateProduct adds a product authored by the caller
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req CreateProductRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), actor.UserID, &domain.Product{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		OldPrice:    req.OldPrice,
		Image:       req.Image,
		Gamme:       req.Gamme,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	product, err := h.catalogService.UpdateProduct(r.Context(), id, domain.ProductUpdate{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		OldPrice:    req.OldPrice,
		Image:       req.Image,
		Gamme:       req.Gamme,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product and its reviews
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "product deleted"})
}
