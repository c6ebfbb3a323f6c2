package main

import (
	"net/http"
	"time"

	"github.com/diewo77/slatko-ops/auth"
	"github.com/diewo77/slatko-ops/gate"
	"github.com/diewo77/slatko-ops/httpx"
	"github.com/diewo77/slatko-ops/internal/config"
	"github.com/diewo77/slatko-ops/internal/handlers"
	"github.com/diewo77/slatko-ops/internal/policy"
	"github.com/diewo77/slatko-ops/internal/resource"
	"github.com/diewo77/slatko-ops/internal/services"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RouterConfig holds the handlers and the authorization gate the routes use.
type RouterConfig struct {
	AuthGate *policy.AuthGate
	Sessions *auth.Manager

	Auth       *handlers.AuthHandler
	Resources  *handlers.ResourceHandler
	Clients    *handlers.ClientHandler
	Products   *handlers.ProductHandler
	Purchases  *handlers.PurchaseHandler
	Orders     *handlers.OrderHandler
	Delivery   *handlers.DeliveryHandler
	Dashboard  *handlers.DashboardHandler
	Company    *handlers.CompanyHandler
	AdminUsers *handlers.AdminUserProfileHandler
}

// NewRouterConfig wires services and handlers over one database.
func NewRouterConfig(conn *gorm.DB, cfg *config.Config) *RouterConfig {
	ag := policy.NewAppGate(conn, cfg.App.ProfileCacheTTL)
	sessions := services.NewSessionService(conn, cfg.App.SessionTTL)
	manager := auth.NewManager(cfg.App.SessionSecret, sessions, cfg.App.Production())

	orders := services.NewOrderService(conn)
	company := services.NewCompanyService(conn)

	return &RouterConfig{
		AuthGate:   ag,
		Sessions:   manager,
		Auth:       handlers.NewAuthHandler(sessions, manager),
		Resources:  handlers.NewResourceHandler(conn, ag),
		Clients:    handlers.NewClientHandler(services.NewClientService(conn), services.NewAuditService(conn)),
		Products:   handlers.NewProductHandler(services.NewProductService(conn)),
		Purchases:  handlers.NewPurchaseHandler(services.NewPurchaseService(conn)),
		Orders:     handlers.NewOrderHandler(orders, services.NewProductionService(conn)),
		Delivery:   handlers.NewDeliveryHandler(orders, services.NewVisitService(conn), company, ag),
		Dashboard:  handlers.NewDashboardHandler(services.NewDashboardService(conn)),
		Company:    handlers.NewCompanyHandler(company),
		AdminUsers: handlers.NewAdminUserProfileHandler(services.NewUserService(conn, bcrypt.DefaultCost), ag),
	}
}

// App is the application's HTTP handler.
type App struct {
	mux       *http.ServeMux
	db        *gorm.DB
	routerCfg *RouterConfig
	handler   http.Handler
}

func NewApp(conn *gorm.DB, cfg *config.Config) *App {
	app := &App{
		mux:       http.NewServeMux(),
		db:        conn,
		routerCfg: NewRouterConfig(conn, cfg),
	}
	app.setupRoutes()
	app.handler = withRecover(withLogging(app.routerCfg.Sessions.Middleware(app.mux)))
	return app
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	rc := a.routerCfg

	// Public
	a.mux.HandleFunc("GET /healthz", handlers.Healthz(a.db))
	a.mux.HandleFunc("POST /login", rc.Auth.Login)
	a.mux.HandleFunc("GET /login/users", rc.Auth.Accounts)
	a.mux.HandleFunc("POST /logout", rc.Auth.Logout)
	a.mux.Handle("GET /me", auth.RequireAuth(http.HandlerFunc(rc.Auth.Me)))

	// Admin
	admin := a.area("admin")
	a.mux.Handle("GET /admin", admin("dashboard", gate.ActionView, rc.Dashboard.Show))
	a.mux.Handle("GET /admin/dashboard", admin("dashboard", gate.ActionView, rc.Dashboard.Show))
	a.mux.Handle("GET /admin/resources/{kind}", admin("", "", rc.Resources.List))

	a.mux.Handle("POST /admin/clients", admin("client", gate.ActionCreate, rc.Clients.Create))
	a.mux.Handle("GET /admin/clients/{id}", admin("client", gate.ActionView, rc.Clients.View))
	a.mux.Handle("POST /admin/clients/{id}", admin("client", gate.ActionUpdate, rc.Clients.Update))
	a.mux.Handle("POST /admin/clients/{id}/delete", admin("client", gate.ActionDelete, rc.Clients.Delete))
	a.mux.Handle("POST /admin/clients/{id}/payments", admin("payment", gate.ActionCreate, rc.Clients.RecordPayment))

	a.mux.Handle("POST /admin/products", admin("product", gate.ActionCreate, rc.Products.Create))
	a.mux.Handle("GET /admin/products/{id}", admin("product", gate.ActionView, rc.Products.View))
	a.mux.Handle("POST /admin/products/{id}", admin("product", gate.ActionUpdate, rc.Products.Update))
	a.mux.Handle("POST /admin/products/{id}/delete", admin("product", gate.ActionDelete, rc.Products.Delete))

	a.mux.Handle("POST /admin/purchases", admin("purchase", gate.ActionCreate, rc.Purchases.Create))
	a.mux.Handle("POST /admin/purchases/{id}/receive", admin("purchase", gate.ActionUpdate, rc.Purchases.Receive))

	a.mux.Handle("POST /admin/orders", admin("order", gate.ActionCreate, rc.Orders.Create))
	a.mux.Handle("GET /admin/orders/{id}", admin("order", gate.ActionView, rc.Orders.View))
	a.mux.Handle("POST /admin/orders/{id}/cancel", admin("order", gate.ActionUpdate, rc.Orders.Cancel))

	a.mux.Handle("GET /admin/company", admin("company", gate.ActionView, rc.Company.Show))
	a.mux.Handle("POST /admin/company", admin("company", gate.ActionUpdate, rc.Company.Update))

	a.mux.Handle("GET /admin/profiles", admin("user", gate.ActionList, rc.AdminUsers.Profiles))
	a.mux.Handle("POST /admin/users", admin("user", gate.ActionCreate, rc.AdminUsers.Create))
	a.mux.Handle("POST /admin/users/{id}/role", admin("user", gate.ActionUpdate, rc.AdminUsers.AssignRole))

	// Warehouse
	worker := a.area("worker")
	a.mux.Handle("GET /worker/production", worker("batch", gate.ActionList, rc.Orders.Batches))
	a.mux.Handle("GET /worker/batches", worker("batch", gate.ActionList, rc.Orders.Batches))
	a.mux.Handle("POST /worker/batches", worker("batch", gate.ActionCreate, rc.Orders.RecordBatch))
	a.mux.Handle("GET /worker/orders", worker("order", gate.ActionList, rc.Orders.Queue))
	a.mux.Handle("POST /worker/orders/{id}/prepare", worker("order", gate.ActionPrepare, rc.Orders.Prepare))
	a.mux.Handle("GET /worker/inventory", worker("", "", rc.Resources.Fixed(resource.Inventory)))

	// Delivery
	delivery := a.area("delivery")
	a.mux.Handle("GET /delivery", delivery("route", gate.ActionView, rc.Delivery.Route))
	a.mux.Handle("GET /delivery/route", delivery("route", gate.ActionView, rc.Delivery.Route))
	a.mux.Handle("GET /delivery/visits/{clientID}", delivery("visit", gate.ActionView, rc.Delivery.Open))
	a.mux.Handle("POST /delivery/visits/{clientID}/preview", delivery("visit", gate.ActionView, rc.Delivery.Preview))
	a.mux.Handle("POST /delivery/visits/{clientID}/finalize", delivery("visit", gate.ActionFinalize, rc.Delivery.Finalize))
	a.mux.Handle("GET /delivery/receipts/{visitID}", delivery("visit", gate.ActionView, rc.Delivery.Receipt))
	a.mux.Handle("GET /delivery/history", delivery("", "", rc.Resources.Fixed(resource.Invoices)))

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { httpx.NotFound(w) })
}

// area returns a route guard for a role area: a signed-in user, the area
// permission and, unless resourceType is empty, the endpoint's permission.
// Endpoints with an empty resourceType check their permission themselves.
func (a *App) area(name string) func(resourceType string, action gate.Action, h http.HandlerFunc) http.Handler {
	ag := a.routerCfg.AuthGate
	return func(resourceType string, action gate.Action, h http.HandlerFunc) http.Handler {
		var next http.Handler = h
		if resourceType != "" {
			next = ag.RequirePermission(resourceType, action)(next)
		}
		return auth.RequireAuth(ag.RequireArea(name)(next))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging logs one line per request.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
			"remote":   r.RemoteAddr,
		}).Info("request")
	})
}

// withRecover turns panics into 500 responses.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logrus.WithField("panic", v).WithField("path", r.URL.Path).Error("handler panicked")
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
