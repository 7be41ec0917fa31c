package router

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lemx/swapd/internal/api"
	"github.com/lemx/swapd/internal/api/handlers"
	"github.com/lemx/swapd/internal/api/httperrors"
	"github.com/lemx/swapd/internal/config"
)

// Init creates the echo instance, installs middleware and attaches all
// routes to the server.
func Init(s *api.Server) {
	s.Echo = echo.New()
	s.Echo.Debug = false
	s.Echo.HideBanner = true

	s.Echo.HTTPErrorHandler = errorHandler(s.Config.Echo.HideInternalServerErrorDetails)

	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(middleware.Recover())
	}
	if s.Config.Echo.EnableRequestIDMiddleware {
		s.Echo.Use(middleware.RequestID())
	}
	if s.Config.Echo.EnableLoggerMiddleware {
		s.Echo.Use(requestLogger())
	}
	if s.Config.Echo.EnableMetricsMiddleware {
		s.Echo.Use(echoprometheus.NewMiddleware(config.ModuleName))
	}

	s.Router = &api.Router{
		Routes:              nil, // filled by handlers.AttachAllRoutes
		Root:                s.Echo.Group(""),
		Management:          s.Echo.Group("/-"),
		APIV1PoolWithdrawer: s.Echo.Group("/api/pool-withdrawer"),
	}

	handlers.AttachAllRoutes(s)
}

// requestLogger attaches a request-scoped zerolog logger to the request
// context and logs one line per finished request.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			l := log.With().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Logger()

			c.SetRequest(req.WithContext(l.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			l.Info().Int("status", c.Response().Status).Msg("Request handled")

			return nil
		}
	}
}

// errorHandler converts every error into the public HTTPError JSON
// shape. Internal details are logged, and hidden from the caller when
// configured.
func errorHandler(hideInternalServerErrorDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var payload *httperrors.HTTPError

		var httpError *httperrors.HTTPError
		var echoError *echo.HTTPError
		switch {
		case errors.As(err, &httpError):
			payload = httpError
		case errors.As(err, &echoError):
			payload = httperrors.NewFromEcho(echoError)
		default:
			if hideInternalServerErrorDetails {
				payload = httperrors.NewHTTPErrorWithInternal(http.StatusInternalServerError,
					httperrors.HTTPErrorTypeGeneric, http.StatusText(http.StatusInternalServerError), err)
			} else {
				payload = httperrors.NewHTTPError(http.StatusInternalServerError,
					httperrors.HTTPErrorTypeGeneric, err.Error())
			}
		}

		if payload.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Int("status", payload.Code).Str("path", c.Request().URL.Path).Msg("Request failed")
		}

		if jsonErr := c.JSON(payload.Code, payload); jsonErr != nil {
			log.Error().Err(jsonErr).Msg("Failed to write error response")
		}
	}
}
