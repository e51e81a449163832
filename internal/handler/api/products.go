package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/adisood/mandi/internal/domain"
)

// ProductHandler handles the public catalog routes.
type ProductHandler struct {
	catalogService domain.CatalogService
	logger         *slog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalogService domain.CatalogService, logger *slog.Logger) *ProductHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// List handles GET /api/products
// Query parameters: category, search, limit, offset.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter domain.ProductFilter
	if category := q.Get("category"); category != "" {
		filter.CategoryID = &category
	}
	if search := q.Get("search"); search != "" {
		filter.Search = &search
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	products, err := h.catalogService.ListProducts(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	writeData(w, http.StatusOK, products)
}

// Get handles GET /api/products/{id}
// The id segment also accepts a slug, so storefront URLs stay pretty.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		if domain.IsCode(err, domain.EINVALID) {
			product, err = h.catalogService.GetProductBySlug(r.Context(), id)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
	}

	writeData(w, http.StatusOK, product)
}
