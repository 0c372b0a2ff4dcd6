package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"shop-api/middleware"
	"shop-api/services"
)

// CartController handles the authenticated user's cart.
type CartController struct {
	Cart   *services.CartService
	Logger *zap.Logger
}

func NewCartController(cart *services.CartService, logger *zap.Logger) *CartController {
	return &CartController{Cart: cart, Logger: logger}
}

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// Get returns the cart with product snapshots and the computed subtotal.
func (cc *CartController) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := cc.Cart.Get(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, cc.Logger, err, "cart not found")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// AddItem adds a product to the cart, aggregating onto an existing line.
func (cc *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "product_id is required")
		return
	}

	line, err := cc.Cart.AddItem(r.Context(), claims.UserID, req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(w, cc.Logger, err, "product not found")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"item": line})
}

// UpdateItem sets the quantity of one cart line.
func (cc *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	line, err := cc.Cart.UpdateItem(r.Context(), claims.UserID, mux.Vars(r)["id"], req.Quantity)
	if err != nil {
		respondServiceError(w, cc.Logger, err, "cart item not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"item": line})
}

// RemoveItem deletes one cart line.
func (cc *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := cc.Cart.RemoveItem(r.Context(), claims.UserID, mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, cc.Logger, err, "cart item not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Clear empties the cart. Clearing an empty cart succeeds.
func (cc *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := cc.Cart.Clear(r.Context(), claims.UserID); err != nil {
		respondServiceError(w, cc.Logger, err, "cart not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
