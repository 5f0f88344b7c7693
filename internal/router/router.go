package router

import (
	"net/http"

	"fg-storefront/internal/handler"
	"fg-storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Products  *handler.ProductHandler
	Orders    *handler.OrderHandler
	Cart      *handler.CartHandler
	Checkout  *handler.CheckoutHandler
	Customers *handler.CustomerHandler
}

// Options configures cross-cutting middleware.
type Options struct {
	APIKey        string
	AllowedOrigin string
	// Session attaches the visitor's session state to storefront requests.
	Session func(http.Handler) http.Handler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Apply middleware in order: Recovery -> Logging -> CORS
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(opts.AllowedOrigin))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.Products.GetAll)
		r.Get("/products/{id}", h.Products.GetByID)
		r.Get("/orders/track/{humanOrderId}", h.Orders.Track)

		// Storefront routes carry the visitor's session cookie.
		r.Group(func(r chi.Router) {
			if opts.Session != nil {
				r.Use(opts.Session)
			}

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.View)
				r.Delete("/", h.Cart.Clear)
				r.Post("/items", h.Cart.AddItem)
				r.Put("/items/{productId}", h.Cart.UpdateItem)
				r.Delete("/items/{productId}", h.Cart.RemoveItem)
			})

			r.Post("/checkout", h.Checkout.Submit)

			r.Route("/customers", func(r chi.Router) {
				r.Post("/register", h.Customers.Register)
				r.Post("/login", h.Customers.Login)
				r.Post("/logout", h.Customers.Logout)
				r.Get("/me", h.Customers.Me)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(opts.APIKey, logger))

			r.Post("/products", h.Products.Create)
			r.Put("/products/{id}", h.Products.Update)
			r.Delete("/products/{id}", h.Products.Delete)

			r.Get("/orders", h.Orders.List)
			r.Get("/orders/{id}", h.Orders.GetByID)
			r.Patch("/orders/{id}/status", h.Orders.UpdateStatus)
		})
	})

	return r
}
