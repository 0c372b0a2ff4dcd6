package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"shop-api/cache"
	"shop-api/services"
)

// CategoryController handles category catalog requests.
type CategoryController struct {
	Catalog *services.CatalogService
	Cache   *cache.RedisClient
	Logger  *zap.Logger
}

func NewCategoryController(catalog *services.CatalogService, redis *cache.RedisClient, logger *zap.Logger) *CategoryController {
	return &CategoryController{Catalog: catalog, Cache: redis, Logger: logger}
}

// List returns all categories newest-first.
func (cc *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	items, err := cc.Catalog.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, cc.Logger, err, "categories not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// Get resolves a category by id or slug.
func (cc *CategoryController) Get(w http.ResponseWriter, r *http.Request) {
	idOrSlug := mux.Vars(r)["idOrSlug"]

	category, err := cc.Catalog.GetCategory(r.Context(), idOrSlug)
	if err != nil {
		respondServiceError(w, cc.Logger, err, "category not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"category": category})
}

// Create adds a new category (admin only).
func (cc *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	category, err := cc.Catalog.CreateCategory(r.Context(), in)
	if err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			respondError(w, http.StatusConflict, "category name or slug already exists")
			return
		}
		respondServiceError(w, cc.Logger, err, "category not found")
		return
	}

	cc.invalidateProductCache(r)
	respondJSON(w, http.StatusCreated, map[string]interface{}{"category": category})
}

// Update renames or re-slugs a category (admin only).
func (cc *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var in services.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	category, err := cc.Catalog.UpdateCategory(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			respondError(w, http.StatusConflict, "category name or slug already exists")
			return
		}
		respondServiceError(w, cc.Logger, err, "category not found")
		return
	}

	cc.invalidateProductCache(r)
	respondJSON(w, http.StatusOK, map[string]interface{}{"category": category})
}

// Delete removes a category (admin only).
func (cc *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := cc.Catalog.DeleteCategory(r.Context(), id); err != nil {
		respondServiceError(w, cc.Logger, err, "category not found")
		return
	}

	cc.invalidateProductCache(r)
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// invalidateProductCache drops the cached product listing, which embeds
// category summaries.
func (cc *CategoryController) invalidateProductCache(r *http.Request) {
	if err := cc.Cache.Del(r.Context(), cache.ProductListKey); err != nil {
		cc.Logger.Warn("product_cache_invalidate_failed", zap.Error(err))
	}
}
