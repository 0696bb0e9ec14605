package transport

import (
	"net/http"
	"strconv"

	"rsm-commerce/internal/apperr"
	"rsm-commerce/internal/middleware"
	"rsm-commerce/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageResponse is the body of operations that only confirm success
type MessageResponse struct {
	Message string `json:"message"`
}

// decodeBody decodes and validates the request body, writing the 400 itself
// when that fails
func decodeBody(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return false
	}
	return true
}

// pathUUID parses the named URL parameter as a UUID
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// actorFrom returns the authenticated caller set by AuthMiddleware
func actorFrom(w http.ResponseWriter, r *http.Request) (service.Actor, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return service.Actor{}, false
	}
	role, _ := middleware.GetUserRole(r.Context())
	return service.Actor{UserID: userID, Role: role}, true
}

// respondServiceError logs server-side failures and maps err to its response
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	status := apperr.HTTPStatus(apperr.KindOf(err))
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, zap.Error(err))
	} else {
		logger.Debug(fallback, zap.Error(err))
	}
	middleware.RespondWithAppError(w, err, fallback)
}

// queryInt reads a positive integer query parameter; anything else yields 0
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// priceRange returns the minPrice/maxPrice bounds, only when both parse
func priceRange(r *http.Request) (*float64, *float64) {
	q := r.URL.Query()
	minPrice, errMin := strconv.ParseFloat(q.Get("minPrice"), 64)
	maxPrice, errMax := strconv.ParseFloat(q.Get("maxPrice"), 64)
	if errMin != nil || errMax != nil {
		return nil, nil
	}
	return &minPrice, &maxPrice
}
