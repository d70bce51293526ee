package router

import (
	"log"
	"net/http"

	"github.com/dinedesk-lite/api/internal/config"
	"github.com/dinedesk-lite/api/internal/database"
	"github.com/dinedesk-lite/api/internal/enum"
	"github.com/dinedesk-lite/api/internal/handler"
	mw "github.com/dinedesk-lite/api/internal/middleware"
	"github.com/dinedesk-lite/api/internal/service"
	"github.com/dinedesk-lite/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// New creates a Chi router with all application routes wired up.
// Only the /admin maintenance surface requires a token.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Services
	counter := service.NewOrderCounter(queries, hub)
	orderLedger := service.NewOrderLedger(pool, queries, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}, counter)
	saleLedger := service.NewSaleLedger(pool, queries, func(db database.DBTX) service.SaleStore {
		return database.New(db)
	}, counter)
	tables := service.NewTableRegistry(queries)
	sessions := service.NewSessions(service.NewProductCatalog(queries), orderLedger, tables)

	// Order-count stream
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, w, r)
	})

	productHandler := handler.NewProductHandler(queries)
	r.Route("/products", productHandler.RegisterRoutes)

	tableHandler := handler.NewTableHandler(tables)
	r.Route("/tables", tableHandler.RegisterRoutes)

	builderHandler := handler.NewBuilderHandler(sessions)
	r.Route("/builders", builderHandler.RegisterRoutes)

	orderHandler := handler.NewOrderHandler(orderLedger, saleLedger, counter, sessions)
	r.Route("/orders", orderHandler.RegisterRoutes)

	saleHandler := handler.NewSaleHandler(saleLedger, cfg.ReportLocation)
	r.Route("/sales", saleHandler.RegisterRoutes)

	reportHandler := handler.NewReportHandler(queries, cfg.ReportLocation)
	r.Route("/reports", reportHandler.RegisterRoutes)

	// Admin: profile setup and unlock are public, everything else needs an
	// unlock token.
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret, cfg.AdminTokenTTL)
	adminHandler := handler.NewAdminHandler(
		orderLedger,
		saleLedger,
		handler.PurgeFunc(queries.DeleteAllProducts),
		tables,
		sessions,
	)
	r.Route("/admin", func(r chi.Router) {
		authHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))
			r.Use(mw.RequireScope(enum.ScopeAdmin))

			authHandler.RegisterProtectedRoutes(r)
			adminHandler.RegisterRoutes(r)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
