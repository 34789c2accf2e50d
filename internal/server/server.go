package server

import (
	"errors"
	"net/http"

	"github.com/4ourCEo/Kitly/internal/apperror"
	"github.com/4ourCEo/Kitly/internal/handler"
	appmiddleware "github.com/4ourCEo/Kitly/internal/middleware"
	"github.com/4ourCEo/Kitly/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo            *echo.Echo
	checkoutHandler *handler.CheckoutHandler
	catalogHandler  *handler.CatalogHandler
	authHandler     *handler.AuthHandler
	authService     service.AuthService
}

func NewServer(
	checkoutService service.CheckoutService,
	catalogService service.CatalogService,
	authService service.AuthService,
	baseURL string,
	logger *zap.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))

	e.HTTPErrorHandler = errorHandler(logger)

	s := &Server{
		echo:            e,
		checkoutHandler: handler.NewCheckoutHandler(checkoutService, baseURL, logger),
		catalogHandler:  handler.NewCatalogHandler(catalogService),
		authHandler:     handler.NewAuthHandler(authService),
		authService:     authService,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- catalog --------
	api.GET("/kits", s.catalogHandler.ListKits)
	api.GET("/kits/:id", s.catalogHandler.GetKit)

	// -------- purchase --------
	api.POST("/checkout", s.checkoutHandler.Checkout)

	// -------- stripe webhooks --------
	api.POST("/stripe/webhook", s.checkoutHandler.StripeWebhook)

	// -------- auth --------
	auth := api.Group("/auth")
	auth.POST("/signup", s.authHandler.SignUp)
	auth.POST("/signin", s.authHandler.SignIn)
	auth.POST("/signout", s.authHandler.SignOut)
	auth.GET("/oauth/google", s.authHandler.GoogleSignIn)
	auth.GET("/oauth/google/callback", s.authHandler.GoogleCallback)

	// -------- entitlements --------
	me := api.Group("/me", appmiddleware.AuthMiddleware(s.authService))
	me.GET("/kits", s.catalogHandler.ListMyKits)
}

// errorHandler maps service-level error kinds onto the initiation-side
// status contract. Provider internals never leak to the end user.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			_ = c.JSON(httpErr.Code, map[string]any{"error": httpErr.Message})
			return
		}

		kind := apperror.KindOf(err)
		status := apperror.HTTPStatus(kind)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", zap.Error(err))
			_ = c.JSON(status, map[string]string{"error": "internal server error"})
			return
		}

		var appErr *apperror.Error
		msg := "request failed"
		if errors.As(err, &appErr) {
			msg = appErr.Msg
		}
		_ = c.JSON(status, map[string]string{"error": msg})
	}
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
