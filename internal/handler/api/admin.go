package api

import (
	"log/slog"
	"net/http"

	"github.com/adisood/mandi/internal/domain"
)

// AdminHandler handles the admin catalog management routes. All routes are
// mounted behind RequireAdmin.
type AdminHandler struct {
	catalogService  domain.CatalogService
	categoryService domain.CategoryService
	logger          *slog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(catalogService domain.CatalogService, categoryService domain.CategoryService, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{
		catalogService:  catalogService,
		categoryService: categoryService,
		logger:          logger,
	}
}

type createProductRequest struct {
	CategoryID     string   `json:"categoryId"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description,omitempty"`
	Brand          string   `json:"brand,omitempty"`
	SKU            string   `json:"sku,omitempty"`
	Unit           string   `json:"unit,omitempty"`
	Images         []string `json:"images,omitempty"`
	Price          int64    `json:"price"`
	CompareAtPrice int64    `json:"compareAtPrice,omitempty"`
	Quantity       int      `json:"quantity"`
}

// CreateProduct handles POST /api/admin/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), domain.CreateProductParams{
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		Brand:          req.Brand,
		SKU:            req.SKU,
		Unit:           req.Unit,
		Images:         req.Images,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		Quantity:       req.Quantity,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, product)
}

type updateProductRequest struct {
	CategoryID     *string  `json:"categoryId,omitempty"`
	Name           *string  `json:"name,omitempty"`
	Slug           *string  `json:"slug,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Brand          *string  `json:"brand,omitempty"`
	Unit           *string  `json:"unit,omitempty"`
	Images         []string `json:"images,omitempty"`
	Price          *int64   `json:"price,omitempty"`
	CompareAtPrice *int64   `json:"compareAtPrice,omitempty"`
	Quantity       *int     `json:"quantity,omitempty"`
	IsActive       *bool    `json:"isActive,omitempty"`
}

// UpdateProduct handles PUT /api/admin/products/{id}
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	product, err := h.catalogService.UpdateProduct(r.Context(), r.PathValue("id"), domain.UpdateProductParams{
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		Brand:          req.Brand,
		Unit:           req.Unit,
		Images:         req.Images,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		Quantity:       req.Quantity,
		IsActive:       req.IsActive,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, product)
}

// ArchiveProduct handles DELETE /api/admin/products/{id}
func (h *AdminHandler) ArchiveProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogService.ArchiveProduct(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "Product archived"})
}

type adjustStockRequest struct {
	Delta int `json:"delta"`
}

// AdjustStock handles POST /api/admin/products/{id}/stock
func (h *AdminHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustStockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	product, err := h.catalogService.AdjustStock(r.Context(), r.PathValue("id"), req.Delta)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, product)
}

type createCategoryRequest struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Image     string `json:"image,omitempty"`
	SortOrder int    `json:"sortOrder,omitempty"`
}

// CreateCategory handles POST /api/admin/categories
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	category, err := h.categoryService.CreateCategory(r.Context(), req.Name, req.Slug, req.Image, req.SortOrder)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, category)
}
