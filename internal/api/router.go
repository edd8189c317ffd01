package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/eventhub/storefront/internal/api/handler"
	"github.com/eventhub/storefront/internal/api/middleware"
	"github.com/eventhub/storefront/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Provider ports.IdentityProvider
	Profiles ports.ProfileReader
	Catalog  ports.Catalog

	Auth     ports.AuthService
	Cart     ports.CartService
	Checkout ports.CheckoutService
	Orders   ports.OrderService
	Feedback ports.FeedbackService
	Contacts ports.ContactService
	Admin    ports.AdminService

	// Checks back the readiness probe, keyed by dependency name.
	Checks map[string]handler.DependencyCheck

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Session(deps.Provider, deps.Profiles, deps.Logger))

	requireAuth := middleware.RequireAuth()

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Logger)
	profileHandler := handler.NewProfileHandler(deps.Auth, deps.Orders)
	cartHandler := handler.NewCartHandler(deps.Cart, deps.Checkout, deps.Logger)
	orderHandler := handler.NewOrderHandler(deps.Orders)
	listingHandler := handler.NewListingHandler(deps.Catalog, deps.Feedback)
	contactHandler := handler.NewContactHandler(deps.Contacts)
	adminHandler := handler.NewAdminHandler(deps.Admin, deps.Orders, deps.Contacts, deps.Feedback, deps.Logger)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/sign-up", authHandler.SignUp)
	auth.POST("/sign-in", authHandler.SignIn)
	auth.POST("/sign-in/federated", authHandler.SignInFederated)
	auth.POST("/password-reset", authHandler.SendPasswordReset)
	auth.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)
	auth.POST("/sign-out", authHandler.SignOut, requireAuth)

	// --- Storefront routes ---
	e.GET("/listings", listingHandler.List)
	e.GET("/listings/:id", listingHandler.Get)
	e.GET("/listings/:id/feedback", listingHandler.ListFeedback)
	e.POST("/listings/:id/feedback", listingHandler.SubmitFeedback, requireAuth)
	e.POST("/contact", contactHandler.Submit)

	profile := e.Group("/profile", requireAuth)
	profile.GET("", profileHandler.Get)
	profile.PATCH("/display-name", profileHandler.UpdateDisplayName)

	cart := e.Group("/cart", requireAuth)
	cart.GET("", cartHandler.List)
	cart.POST("", cartHandler.Add)
	cart.POST("/checkout", cartHandler.Checkout)
	cart.DELETE("/:line_id", cartHandler.Remove)

	e.GET("/orders", orderHandler.List, requireAuth)

	// --- Admin routes ---
	// Sign-in and sign-up stay public; everything else redirects non-admins.
	requireAdmin := middleware.RequireAdmin()
	admin := e.Group("/admin")
	admin.POST("/sign-in", authHandler.AdminSignIn)
	admin.POST("/sign-up", authHandler.AdminSignUp)
	admin.POST("/sign-up/federated", authHandler.AdminFederatedSignUp)
	admin.GET("/dashboard", adminHandler.Dashboard, requireAdmin)
	admin.GET("/users", adminHandler.Users, requireAdmin)
	admin.DELETE("/users/:id", adminHandler.DeleteUser, requireAdmin)
	admin.GET("/orders", adminHandler.Orders, requireAdmin)
	admin.PATCH("/orders/:user_id/:order_id/status", adminHandler.UpdateOrderStatus, requireAdmin)
	admin.GET("/contacts", adminHandler.Contacts, requireAdmin)
	admin.DELETE("/contacts/:id", adminHandler.DeleteContact, requireAdmin)
	admin.GET("/feedbacks", adminHandler.Feedbacks, requireAdmin)
	admin.DELETE("/feedbacks/:id", adminHandler.DeleteFeedback, requireAdmin)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
