package api

import (
	"log/slog"
	"net/http"

	"github.com/adisood/mandi/internal/domain"
)

// CategoryHandler handles the public category routes.
type CategoryHandler struct {
	categoryService domain.CategoryService
	logger          *slog.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categoryService domain.CategoryService, logger *slog.Logger) *CategoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// List handles GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}

	writeData(w, http.StatusOK, categories)
}
