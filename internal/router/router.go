package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/delmon-pos/api/internal/config"
	"github.com/delmon-pos/api/internal/database"
	"github.com/delmon-pos/api/internal/enum"
	"github.com/delmon-pos/api/internal/handler"
	mw "github.com/delmon-pos/api/internal/middleware"
	"github.com/delmon-pos/api/internal/service"
	"github.com/delmon-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // POS dev server
			"http://localhost:3000", // Kitchen display dev server
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/kitchen", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Services
	newCheckoutStore := func(db database.DBTX) service.CheckoutStore {
		return database.New(db)
	}
	checkoutService := service.NewCheckoutService(pool, newCheckoutStore)
	kitchenService := service.NewKitchenService(queries, pool)
	billingService := service.NewBillingService(queries)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Menu catalog: reads for everyone, writes for managers.
		menuHandler := handler.NewMenuHandler(queries)
		r.Route("/menu", func(r chi.Router) {
			menuHandler.RegisterRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.EmployeeRoleManager))
				menuHandler.RegisterManagerRoutes(r)
			})
		})

		// Checkout (cashier flow)
		checkoutHandler := handler.NewCheckoutHandler(checkoutService, queries, hub)
		checkoutHandler.RegisterRoutes(r)

		// Kitchen board
		kitchenHandler := handler.NewKitchenHandler(kitchenService, hub)
		r.Route("/kitchen", kitchenHandler.RegisterRoutes)

		// Settled bills (visible to all staff)
		billHandler := handler.NewBillHandler(billingService)
		r.Route("/bills", func(r chi.Router) {
			billHandler.RegisterRoutes(r)

			// Pending bills and cash confirmation (manager only)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.EmployeeRoleManager))
				billHandler.RegisterManagerRoutes(r)
			})
		})

		// Reservations
		reservationHandler := handler.NewReservationHandler(queries)
		r.Route("/reservations", reservationHandler.RegisterRoutes)

		// Dashboard (manager only)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.EmployeeRoleManager))

			dashboardHandler := handler.NewDashboardHandler(queries)
			r.Route("/dashboard", dashboardHandler.RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
