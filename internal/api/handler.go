package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nhalm/canonlog"

	"github.com/productos/catalog-api/internal/apperrors"
	"github.com/productos/catalog-api/internal/models"
	"github.com/productos/catalog-api/internal/query"
)

// ProductService defines only the methods the API layer needs from the product service.
type ProductService interface {
	ListProducts(ctx context.Context, params models.ListProductsParams) (*models.ListProductsResult, error)
	GetProduct(ctx context.Context, params models.GetProductParams) (*models.Product, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
	PriceDistribution(ctx context.Context) ([]models.PriceRangeCount, error)
}

type HandlerConfig struct {
	// Environment is reported by /status; "development" enables error stacks.
	Environment string
	Query       query.Options
}

type Handler struct {
	productSvc  ProductService
	environment string
	queryOpts   query.Options
	now         func() time.Time
}

func NewHandler(productSvc ProductService, config HandlerConfig) *Handler {
	return &Handler{
		productSvc:  productSvc,
		environment: config.Environment,
		queryOpts:   config.Query,
		now:         time.Now,
	}
}

func (h *Handler) isDevelopment() bool {
	return h.environment == "development"
}

// ListProducts godoc
// @Summary List products
// @Description Paginated, filtered and sorted product listing
// @Tags productos
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 50, max 1000)"
// @Param orderBy query string false "Sort field" Enums(id, nombre, categoria, precio, fecha_creacion)
// @Param orderDir query string false "Sort direction" Enums(asc, desc)
// @Param categoria query string false "Exact category"
// @Param precioMin query number false "Minimum price (inclusive)"
// @Param precioMax query number false "Maximum price (inclusive)"
// @Param busqueda query string false "Substring of the product name"
// @Success 200 {object} PaginatedResponse{data=[]ProductResponse}
// @Failure 500 {object} ErrorResponse
// @Router /productos [get]
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := query.ParseListProductsParams(r.URL.Query(), h.queryOpts)

	canonlog.AddRequestFields(r.Context(), map[string]any{
		"page":      params.Pagination.Page,
		"limit":     params.Pagination.Limit,
		"order_by":  params.Sort.Field,
		"order_dir": string(params.Sort.Direction),
		"filtered":  params.Filter != (models.ProductFilter{}),
	})

	result, err := h.productSvc.ListProducts(r.Context(), params)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	responses := make([]ProductResponse, len(result.Products))
	for i, p := range result.Products {
		responses[i] = convertToProductResponse(p)
	}

	Paginated(w, responses, params.Pagination.Page, params.Pagination.Limit, result.Total)
}

// GetProduct godoc
// @Summary Get a product
// @Tags productos
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /productos/{id} [get]
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.productSvc.GetProduct(r.Context(), models.GetProductParams{
		ProductID: id,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	Success(w, convertToProductResponse(product))
}

// Statistics godoc
// @Summary Catalog statistics
// @Description Global summary, per-category statistics and the five most expensive products
// @Tags productos
// @Produce json
// @Success 200 {object} StatisticsResponse
// @Failure 500 {object} ErrorResponse
// @Router /productos/estadisticas [get]
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.productSvc.Statistics(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	Success(w, convertToStatisticsResponse(stats, h.now()))
}

// PriceDistribution godoc
// @Summary Price distribution
// @Description Product counts per price range
// @Tags productos
// @Produce json
// @Success 200 {object} PriceDistributionResponse
// @Failure 500 {object} ErrorResponse
// @Router /productos/analisis/precios [get]
func (h *Handler) PriceDistribution(w http.ResponseWriter, r *http.Request) {
	counts, err := h.productSvc.PriceDistribution(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	Success(w, convertToPriceDistributionResponse(counts, h.now()))
}

// Status godoc
// @Summary Service status
// @Tags status
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /status [get]
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	Success(w, StatusResponse{
		Status:      "online",
		Environment: h.environment,
		Timestamp:   formatTimestamp(h.now()),
	})
}

func (h *Handler) RouteNotFound(w http.ResponseWriter, r *http.Request) {
	h.handleServiceError(w, r, apperrors.NewRouteNotFoundError(r.Method, r.URL.Path))
}
