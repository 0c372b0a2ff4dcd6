package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"shop-api/controllers"
	"shop-api/middleware"
)

// RegisterRoutes sets up all the routes for the application.
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, productController *controllers.ProductController, categoryController *controllers.CategoryController, cartController *controllers.CartController, orderController *controllers.OrderController) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Auth
	api.HandleFunc("/auth/register", userController.Register).Methods("POST")
	api.HandleFunc("/auth/login", userController.Login).Methods("POST")
	me := api.PathPrefix("/auth").Subrouter()
	me.Use(middleware.AuthMiddleware)
	me.HandleFunc("/me", userController.Me).Methods("GET")

	// Products: public reads, admin writes
	api.HandleFunc("/products", productController.List).Methods("GET")
	api.HandleFunc("/products/{id}", productController.Get).Methods("GET")
	adminProducts := api.PathPrefix("/products").Subrouter()
	adminProducts.Use(middleware.AuthMiddleware, middleware.AdminMiddleware)
	adminProducts.HandleFunc("", productController.Create).Methods("POST")
	adminProducts.HandleFunc("/{id}", productController.Update).Methods("PATCH")
	adminProducts.HandleFunc("/{id}", productController.Delete).Methods("DELETE")

	// Categories: public reads, admin writes
	api.HandleFunc("/categories", categoryController.List).Methods("GET")
	api.HandleFunc("/categories/{idOrSlug}", categoryController.Get).Methods("GET")
	adminCategories := api.PathPrefix("/categories").Subrouter()
	adminCategories.Use(middleware.AuthMiddleware, middleware.AdminMiddleware)
	adminCategories.HandleFunc("", categoryController.Create).Methods("POST")
	adminCategories.HandleFunc("/{id}", categoryController.Update).Methods("PATCH")
	adminCategories.HandleFunc("/{id}", categoryController.Delete).Methods("DELETE")

	// Cart (authenticated)
	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(middleware.AuthMiddleware)
	cart.HandleFunc("", cartController.Get).Methods("GET")
	cart.HandleFunc("", cartController.Clear).Methods("DELETE")
	cart.HandleFunc("/items", cartController.AddItem).Methods("POST")
	cart.HandleFunc("/items/{id}", cartController.UpdateItem).Methods("PATCH")
	cart.HandleFunc("/items/{id}", cartController.RemoveItem).Methods("DELETE")

	// Orders (authenticated)
	orders := api.PathPrefix("/orders").Subrouter()
	orders.Use(middleware.AuthMiddleware)
	orders.HandleFunc("/checkout", orderController.Checkout).Methods("POST")
	orders.HandleFunc("", orderController.List).Methods("GET")
	orders.HandleFunc("/{id}", orderController.Get).Methods("GET")
}
