package transport

import (
	"net/http"

	"rsm-commerce/internal/domain"
	"rsm-commerce/internal/middleware"
	"rsm-commerce/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OccasionRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category" validate:"required,max=100"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ImageURL    string  `json:"imageUrl" validate:"max=2048"`
	Condition   string  `json:"condition" validate:"required,oneof=new very-good good fair"`
}

type UpdateOccasionRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" validate:"omitempty,min=1,max=100"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,max=2048"`
	Condition   *string  `json:"condition" validate:"omitempty,oneof=new very-good good fair"`
}

// OccasionHandler serves the secondhand listings
type OccasionHandler struct {
	occasionService service.OccasionService
	logger          *zap.Logger
}

func NewOccasionHandler(occasionService service.OccasionService, logger *zap.Logger) *OccasionHandler {
	return &OccasionHandler{occasionService: occasionService, logger: logger}
}

func (h *OccasionHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/occasions", func(r chi.Router) {
		r.Get("/occasion/all", h.ListOccasions)
		r.Get("/{id}", h.GetOccasion)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, middleware.RequireStaff(h.logger))
			r.Post("/create-occasion", h.CreateOccasion)
			r.Patch("/update-occasion/{id}", h.UpdateOccasion)
			r.Delete("/{id}", h.DeleteOccasion)
		})
	})
}

func (h *OccasionHandler) ListOccasions(w http.ResponseWriter, r *http.Request) {
	minPrice, maxPrice := priceRange(r)
	filter := domain.OccasionFilter{
		Category: r.URL.Query().Get("category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}
	page := domain.NewPage(queryInt(r, "page"), queryInt(r, "limit"), service.DefaultOccasionPageSize, 0)

	result, err := h.occasionService.ListOccasions(r.Context(), filter, page)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list occasions")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

func (h *OccasionHandler) GetOccasion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	occasion, err := h.occasionService.GetOccasion(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get occasion")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, occasion)
}

func (h *OccasionHandler) CreateOccasion(w http.ResponseWriter, r *http.Request) {
	var req OccasionRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	occasion, err := h.occasionService.CreateOccasion(r.Context(), &domain.Occasion{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Condition:   domain.Condition(req.Condition),
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create occasion")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, occasion)
}

func (h *OccasionHandler) UpdateOccasion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateOccasionRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	update := domain.OccasionUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	}
	if req.Condition != nil {
		condition := domain.Condition(*req.Condition)
		update.Condition = &condition
	}

	occasion, err := h.occasionService.UpdateOccasion(r.Context(), id, update)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update occasion")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, occasion)
}

func (h *OccasionHandler) DeleteOccasion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.occasionService.DeleteOccasion(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete occasion")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "occasion deleted"})
}

type BlogPostRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Subtitle string `json:"subtitle" validate:"max=300"`
	Date     string `json:"date" validate:"max=50"`
	ImageURL string `json:"imageUrl" validate:"max=2048"`
	Article  string `json:"article" validate:"required"`
}

type UpdateBlogPostRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=200"`
	Subtitle *string `json:"subtitle" validate:"omitempty,max=300"`
	Date     *string `json:"date" validate:"omitempty,max=50"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,max=2048"`
	Article  *string `json:"article"`
}

// BlogHandler serves the editorial posts
type BlogHandler struct {
	blogService service.BlogService
	logger      *zap.Logger
}

func NewBlogHandler(blogService service.BlogService, logger *zap.Logger) *BlogHandler {
	return &BlogHandler{blogService: blogService, logger: logger}
}

func (h *BlogHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/blogs", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Get("/blog/all", h.ListArchive)
		r.Get("/{id}", h.GetPost)
		r.Put("/like/{id}", h.Like)
		r.Put("/unlike/{id}", h.Unlike)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, middleware.RequireStaff(h.logger))
			r.Post("/create-post", h.CreatePost)
			r.Patch("/update-post/{id}", h.UpdatePost)
			r.Delete("/{id}", h.DeletePost)
		})
	})
}

// ListPosts is the front page listing; limits above the cap are clamped
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page := domain.NewPage(queryInt(r, "page"), queryInt(r, "limit"), service.DefaultBlogPageSize, service.MaxBlogPageSize)
	h.respondWithPage(w, r, page)
}

func (h *BlogHandler) ListArchive(w http.ResponseWriter, r *http.Request) {
	page := domain.NewPage(queryInt(r, "page"), queryInt(r, "limit"), service.DefaultBlogArchiveSize, 0)
	h.respondWithPage(w, r, page)
}

func (h *BlogHandler) respondWithPage(w http.ResponseWriter, r *http.Request, page domain.Page) {
	result, err := h.blogService.ListPosts(r.Context(), page)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list blog posts")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

func (h *BlogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	post, err := h.blogService.GetPost(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get blog post")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, post)
}

func (h *BlogHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req BlogPostRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	post, err := h.blogService.CreatePost(r.Context(), &domain.BlogPost{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Date:     req.Date,
		ImageURL: req.ImageURL,
		Article:  req.Article,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create blog post")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, post)
}

func (h *BlogHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateBlogPostRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	post, err := h.blogService.UpdatePost(r.Context(), id, domain.BlogPostUpdate{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Date:     req.Date,
		ImageURL: req.ImageURL,
		Article:  req.Article,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update blog post")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, post)
}

func (h *BlogHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.blogService.DeletePost(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete blog post")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "blog post deleted"})
}

func (h *BlogHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	post, err := h.blogService.Like(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to like blog post")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, post)
}

func (h *BlogHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	post, err := h.blogService.Unlike(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to unlike blog post")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, post)
}
