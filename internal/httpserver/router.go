package httpserver

import (
	"context"
	"errors"
	"time"

	"sisera-crm/internal/domain"
	authsvc "sisera-crm/internal/service/auth"
	customersvc "sisera-crm/internal/service/customer"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// CustomerRegistry is the customer store the handlers work against.
type CustomerRegistry interface {
	LoadCustomers(ctx context.Context) error
	RefreshCustomers(ctx context.Context) error
	AddCustomer(ctx context.Context, fields domain.CustomerFields) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, fields domain.CustomerFields) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	GetCustomer(id string) (domain.Customer, bool)
	Snapshot() customersvc.State
}

// ShopSelector tracks the storefront in use.
type ShopSelector interface {
	Selected() domain.Shop
	SetSelectedShop(ctx context.Context, shop domain.Shop) error
	DisplayName() string
}

// AuthSession is the back-office login state.
type AuthSession interface {
	Login(ctx context.Context, email, password string) (bool, error)
	Logout(ctx context.Context) error
	State() authsvc.State
	IsAuthenticated() bool
}

// Pinger reports whether the data backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles the collaborators of the router.
type Deps struct {
	Customers      CustomerRegistry
	Shop           ShopSelector
	Auth           AuthSession
	Backend        Pinger
	Metrics        prometheus.Gatherer
	AllowedOrigins []string
	Now            func() time.Time
}

func (d Deps) validate() error {
	if d.Customers == nil || d.Shop == nil || d.Auth == nil {
		return errors.New("httpserver: customers, shop and auth are required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Backend))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	h := &handlers{deps: deps, logger: logger}

	router.POST("/auth/login", h.login)
	router.GET("/auth/session", h.session)

	router.GET("/shop", h.getShop)

	router.POST("/register", h.register)

	private := router.Group("/", requireSession(deps.Auth))
	private.POST("/auth/logout", h.logout)
	private.PUT("/shop", h.putShop)
	private.GET("/dashboard", h.dashboard)
	private.GET("/customers", h.listCustomers)
	private.POST("/customers", h.createCustomer)
	private.POST("/customers/refresh", h.refreshCustomers)
	private.POST("/customers/onboarding", h.onboardCustomer)
	private.GET("/customers/:id", h.getCustomer)
	private.PATCH("/customers/:id", h.updateCustomer)
	private.DELETE("/customers/:id", h.deleteCustomer)

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}
