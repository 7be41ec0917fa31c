package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/lemx/swapd/internal/api"
	"github.com/lemx/swapd/internal/api/handlers/common"
	"github.com/lemx/swapd/internal/api/handlers/poolwithdrawer"
)

// AttachAllRoutes attaches all registered routes to the server.
func AttachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		// /-
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		common.GetVersionRoute(s),
		common.GetMetricsRoute(s),

		// /api/pool-withdrawer
		poolwithdrawer.PostWithdrawFromCurveRoute(s),
		poolwithdrawer.PostBridgeUniswapRoute(s),
		poolwithdrawer.GetCurveExchangeRateRoute(s),
		poolwithdrawer.GetAvailablePoolsRoute(s),
	}
}
