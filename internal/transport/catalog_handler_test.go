package transport

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"rsm-commerce/internal/domain"
	"rsm-commerce/internal/service"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCatalogService struct {
	service.CatalogService
	lastFilter domain.ProductFilter
	lastPage   domain.Page
	created    *domain.Product
	createdBy  uuid.UUID
}

func (s *stubCatalogService) ListProducts(ctx context.Context, filter domain.ProductFilter, page domain.Page) (*service.ProductPage, error) {
	s.lastFilter, s.lastPage = filter, page
	return &service.ProductPage{Products: []*domain.Product{}, TotalPages: 0, TotalProducts: 0}, nil
}

func (s *stubCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.ProductDetail, error) {
	return nil, service.ErrProductNotFound
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, authorID uuid.UUID, product *domain.Product) (*domain.Product, error) {
	product.ID = uuid.New()
	product.AuthorID = authorID
	s.created, s.createdBy = product, authorID
	return product, nil
}

type stubReviewService struct {
	service.ReviewService
	posted service.ReviewInput
}

func (s *stubReviewService) PostReview(ctx context.Context, input service.ReviewInput) ([]*domain.Review, error) {
	s.posted = input
	return []*domain.Review{{ID: uuid.New(), Comment: input.Comment, Rating: input.Rating, ProductID: input.ProductID, UserID: input.UserID}}, nil
}

func (s *stubReviewService) CountReviews(ctx context.Context) (int, error) {
	return 7, nil
}

func TestProperty_PriceRangeAppliesOnlyWithBothBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)
	catalog := &stubCatalogService{}
	router := newTestRouter(NewProductHandler(catalog, zap.NewNop()))

	properties.Property("a lone bound is ignored", prop.ForAll(
		func(withMin, withMax bool, bound int) bool {
			path := "/api/products?category=boards"
			if withMin {
				path += "&minPrice=" + strconv.Itoa(bound)
			}
			if withMax {
				path += "&maxPrice=" + strconv.Itoa(bound+100)
			}

			w := do(t, router, http.MethodGet, path, "", nil)
			if w.Code != http.StatusOK {
				return false
			}

			f := catalog.lastFilter
			if withMin && withMax {
				return f.MinPrice != nil && f.MaxPrice != nil &&
					*f.MinPrice == float64(bound) && *f.MaxPrice == float64(bound+100)
			}
			return f.MinPrice == nil && f.MaxPrice == nil
		},
		gen.Bool(),
		gen.Bool(),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductHandler_ListPaging(t *testing.T) {
	catalog := &stubCatalogService{}
	router := newTestRouter(NewProductHandler(catalog, zap.NewNop()))

	w := do(t, router, http.MethodGet, "/api/products?page=3&limit=5&gamme=all", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Page{Number: 3, Limit: 5}, catalog.lastPage)
	assert.Equal(t, "all", catalog.lastFilter.Gamme)
	assert.JSONEq(t, `{"products":[],"totalPages":0,"totalProducts":0}`, w.Body.String())

	do(t, router, http.MethodGet, "/api/products?page=-1&limit=abc", "", nil)
	assert.Equal(t, domain.Page{Number: 1, Limit: service.DefaultProductPageSize}, catalog.lastPage)
}

func TestProductHandler_CreateRequiresStaffAndSetsAuthor(t *testing.T) {
	catalog := &stubCatalogService{}
	router := newTestRouter(NewProductHandler(catalog, zap.NewNop()))
	body := CreateProductRequest{Name: "Cruiser", Category: "boards", Price: 89.5}

	w := do(t, router, http.MethodPost, "/api/products/create-product", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodPost, "/api/products/create-product", bearer(t, uuid.New(), domain.RoleUser), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminID := uuid.New()
	w = do(t, router, http.MethodPost, "/api/products/create-product", bearer(t, adminID, domain.RoleAdmin), body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, adminID, catalog.createdBy)
	assert.Equal(t, "Cruiser", catalog.created.Name)

	w = do(t, router, http.MethodPost, "/api/products/create-product", bearer(t, adminID, domain.RoleManager), CreateProductRequest{Name: "Cruiser"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_NotFoundAndBadID(t *testing.T) {
	router := newTestRouter(NewProductHandler(&stubCatalogService{}, zap.NewNop()))

	w := do(t, router, http.MethodGet, "/api/products/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "product not found")

	w = do(t, router, http.MethodGet, "/api/products/42", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewHandler_PostUsesCaller(t *testing.T) {
	reviews := &stubReviewService{}
	router := newTestRouter(NewReviewHandler(reviews, zap.NewNop()))
	userID, productID := uuid.New(), uuid.New()

	w := do(t, router, http.MethodPost, "/api/reviews/post-review", bearer(t, userID, domain.RoleUser), PostReviewRequest{
		Comment:   "ok",
		Rating:    4,
		ProductID: productID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, userID, reviews.posted.UserID)
	assert.Equal(t, productID, reviews.posted.ProductID)

	var resp PostReviewResponse
	decodeJSON(t, w, &resp)
	require.Len(t, resp.Reviews, 1)
	assert.Equal(t, 4.0, resp.Reviews[0].Rating)

	w = do(t, router, http.MethodPost, "/api/reviews/post-review", bearer(t, userID, domain.RoleUser), PostReviewRequest{
		Comment:   "too good",
		Rating:    6,
		ProductID: productID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/api/reviews/total-review", "", nil)
	assert.JSONEq(t, `{"totalReviews":7}`, w.Body.String())
}
