package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/storefront"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func NewRouter(svc *storefront.Service, cfg RouterConfig, logger *zap.Logger) http.Handler {
	cartHandler := NewCartHandler(svc, cfg.RequestTimeout, logger)
	checkoutHandler := NewCheckoutHandler(svc, cfg.RequestTimeout, logger)
	productHandler := NewProductHandler(svc, cfg.RequestTimeout)
	ordersHandler := NewOrdersHandler(svc, cfg.RequestTimeout)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.RequestSize(cfg.MaxRequestBodySize))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/{product_id}", productHandler.Get)
		})

		r.Get("/orders/{code}", ordersHandler.GetOrder)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Patch("/items/{index}", cartHandler.UpdateQuantity)
				r.Put("/items/{index}", cartHandler.SetQuantity)
				r.Delete("/items/{index}", cartHandler.RemoveItem)
				r.Post("/open", cartHandler.Open)
				r.Post("/close", cartHandler.Close)
				r.Post("/toggle", cartHandler.Toggle)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", checkoutHandler.Get)
				r.Put("/customer", checkoutHandler.SetCustomer)
				r.Put("/shipping", checkoutHandler.SetShipping)
				r.Put("/payment", checkoutHandler.SetPayment)
				r.Post("/next", checkoutHandler.Next)
				r.Post("/back", checkoutHandler.Back)
				r.Post("/restart", checkoutHandler.Restart)
				r.Post("/submit", checkoutHandler.Submit)
			})
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
