package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/logger"
	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/ussd"
)

// Dispatcher is the engine surface the gateway exposes over HTTP.
type Dispatcher interface {
	Dispatch(ctx context.Context, cb ussd.Callback) string
}

// Service binds the telecom gateway's callback contract to the engine. One
// POST per subscriber input; the plain-text body carries the CON/END reply.
type Service struct {
	dispatcher Dispatcher
	readiness  []func(context.Context) error
	log        *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithReadinessChecks adds dependency probes to the health endpoint. With no
// checks the endpoint is a liveness probe only.
func WithReadinessChecks(checks ...func(context.Context) error) Option {
	return func(s *Service) {
		s.readiness = append(s.readiness, checks...)
	}
}

// WithLogger sets the request logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates the gateway service.
func New(dispatcher Dispatcher, opts ...Option) (*Service, error) {
	if dispatcher == nil {
		return nil, errors.New("gateway: dispatcher is required")
	}
	s := &Service{
		dispatcher: dispatcher,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register mounts the gateway routes and middleware on an echo instance.
// Recover is installed so a handler panic becomes a 500 to the gateway's
// retry machinery instead of a dropped connection.
func (s *Service) Register(e *echo.Echo) {
	e.Use(middleware.Recover())
	e.Use(s.requestLogger())

	e.POST("/ussd/callback", s.handleCallback)
	e.GET("/healthz", s.handleHealthz)
}

// handleCallback is the single gateway entry point. The gateway POSTs
// form-encoded callback fields and renders whatever plain text comes back,
// so the handler never returns an error body.
func (s *Service) handleCallback(c echo.Context) error {
	cb := ussd.Callback{
		SessionID:   c.FormValue("sessionId"),
		PhoneNumber: c.FormValue("phoneNumber"),
		ServiceCode: c.FormValue("serviceCode"),
		Text:        c.FormValue("text"),
	}
	if cb.SessionID == "" || cb.PhoneNumber == "" {
		return c.String(http.StatusBadRequest, "missing session or phone")
	}

	resp := s.dispatcher.Dispatch(c.Request().Context(), cb)
	return c.String(http.StatusOK, resp)
}

// handleHealthz is a liveness probe when no readiness checks are configured
// and a readiness probe otherwise.
func (s *Service) handleHealthz(c echo.Context) error {
	ctx := c.Request().Context()
	if len(s.readiness) == 0 {
		return c.String(http.StatusOK, "ALIVE")
	}
	for _, check := range s.readiness {
		if err := check(ctx); err != nil {
			s.log.ErrorContext(ctx, "readiness check failed",
				logger.Component("gateway"),
				logger.Error(err),
			)
			return c.String(http.StatusServiceUnavailable, "NOT READY")
		}
	}
	return c.String(http.StatusOK, "READY")
}

// requestLogger emits one structured line per request.
func (s *Service) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.log.InfoContext(c.Request().Context(), "request handled",
				logger.Component("gateway"),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				logger.Duration(v.Latency),
			)
			return nil
		},
	})
}
