package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"shop-api/cache"
	"shop-api/services"
)

// ProductController handles product catalog requests.
type ProductController struct {
	Catalog *services.CatalogService
	Cache   *cache.RedisClient
	Logger  *zap.Logger
}

func NewProductController(catalog *services.CatalogService, redis *cache.RedisClient, logger *zap.Logger) *ProductController {
	return &ProductController{Catalog: catalog, Cache: redis, Logger: logger}
}

// List returns a page of products. The default listing (first page, no
// filters) is served from Redis when possible and repopulated in the
// background after a store read.
func (pc *ProductController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	search := q.Get("q")

	cacheable := pc.Cache != nil && page <= 1 && limit == 0 && search == ""
	if cacheable {
		var cached services.ProductPage
		if err := pc.Cache.GetJSON(r.Context(), cache.ProductListKey, &cached); err == nil {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	result, err := pc.Catalog.ListProducts(r.Context(), services.ListProductsInput{
		Page:  page,
		Limit: limit,
		Query: search,
	})
	if err != nil {
		respondServiceError(w, pc.Logger, err, "products not found")
		return
	}

	if cacheable {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := pc.Cache.SetJSON(ctx, cache.ProductListKey, result, cache.DefaultTTL); err != nil {
				pc.Logger.Warn("product_cache_populate_failed", zap.Error(err))
			}
		}()
	}
	respondJSON(w, http.StatusOK, result)
}

// Get returns one product with its category summary.
func (pc *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := pc.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		respondServiceError(w, pc.Logger, err, "product not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// Create adds a new product (admin only).
func (pc *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	product, err := pc.Catalog.CreateProduct(r.Context(), in)
	if err != nil {
		respondServiceError(w, pc.Logger, err, "category not found")
		return
	}

	pc.invalidateCache(r.Context())
	respondJSON(w, http.StatusCreated, map[string]interface{}{"product": product})
}

// Update applies a partial product update (admin only).
func (pc *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var in services.UpdateProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	product, err := pc.Catalog.UpdateProduct(r.Context(), id, in)
	if err != nil {
		respondServiceError(w, pc.Logger, err, "product not found")
		return
	}

	pc.invalidateCache(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// Delete removes a product (admin only).
func (pc *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := pc.Catalog.DeleteProduct(r.Context(), id); err != nil {
		respondServiceError(w, pc.Logger, err, "product not found")
		return
	}

	pc.invalidateCache(r.Context())
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (pc *ProductController) invalidateCache(ctx context.Context) {
	if err := pc.Cache.Del(ctx, cache.ProductListKey); err != nil {
		pc.Logger.Warn("product_cache_invalidate_failed", zap.Error(err))
	}
}
