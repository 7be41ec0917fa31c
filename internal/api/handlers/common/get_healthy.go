package common

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lemx/swapd/internal/api"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// Liveness only. Answers as long as the process serves HTTP, without
// touching the chain client or any other component.
func getHealthyHandler(_ *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, "OK.")
	}
}
