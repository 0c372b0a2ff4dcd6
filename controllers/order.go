package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"shop-api/cache"
	"shop-api/middleware"
	"shop-api/models"
	"shop-api/services"
	"shop-api/store"
	"shop-api/utils"
)

// OrderController handles checkout and order history.
type OrderController struct {
	Orders *services.OrderService
	Store  store.Store
	Email  *utils.EmailService
	Cache  *cache.RedisClient
	Logger *zap.Logger
}

func NewOrderController(orders *services.OrderService, s store.Store, email *utils.EmailService, redis *cache.RedisClient, logger *zap.Logger) *OrderController {
	return &OrderController{Orders: orders, Store: s, Email: email, Cache: redis, Logger: logger}
}

// Checkout converts the caller's cart into an order.
func (oc *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	order, err := oc.Orders.Checkout(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, oc.Logger, err, "cart not found")
		return
	}

	// Stock changed; the cached product listing is stale.
	if err := oc.Cache.Del(r.Context(), cache.ProductListKey); err != nil {
		oc.Logger.Warn("product_cache_invalidate_failed", zap.Error(err))
	}

	// Confirmation email must never affect the checkout result.
	go oc.sendConfirmation(claims.UserID, order)

	respondJSON(w, http.StatusCreated, map[string]interface{}{"order": order})
}

func (oc *OrderController) sendConfirmation(userID string, order *models.Order) {
	if oc.Email == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := oc.Store.Users().GetByID(ctx, userID)
	if err != nil {
		oc.Logger.Warn("order_confirmation_user_lookup_failed",
			zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	if err := oc.Email.SendOrderConfirmationEmail(user.Email, order); err != nil {
		oc.Logger.Warn("order_confirmation_email_failed",
			zap.String("order_id", order.ID), zap.Error(err))
	}
}

// List returns the caller's orders newest-first.
func (oc *OrderController) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	items, err := oc.Orders.ListMine(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, oc.Logger, err, "orders not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// Get returns one of the caller's orders.
func (oc *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	order, err := oc.Orders.GetMine(r.Context(), claims.UserID, mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, oc.Logger, err, "order not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"order": order})
}
