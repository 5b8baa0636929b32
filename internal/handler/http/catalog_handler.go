package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/belanjaaja/backend/internal/catalog"
)

// CatalogHandler serves the public storefront endpoints.
type CatalogHandler struct {
	service catalog.Service
}

func NewCatalogHandler(service catalog.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) RegisterRoutes(router chi.Router) {
	router.Get("/products", h.handleListProducts)
	router.Get("/products/{id}", h.handleGetProduct)
	router.Get("/categories", h.handleListCategories)
	router.Get("/categories/{id}/path", h.handleCategoryPath)
}

func (h *CatalogHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.ListActive(r.Context())
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list products")
		return
	}

	respondWithJSON(w, http.StatusOK, listings)
}

func (h *CatalogHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	listing, err := h.service.GetListing(r.Context(), id)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Product not found")
		return
	}

	respondWithJSON(w, http.StatusOK, listing)
}

func (h *CatalogHandler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list categories")
		return
	}

	respondWithJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) handleCategoryPath(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	path, err := h.service.CategoryPath(r.Context(), id)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Category not found")
		return
	}

	respondWithJSON(w, http.StatusOK, path)
}
