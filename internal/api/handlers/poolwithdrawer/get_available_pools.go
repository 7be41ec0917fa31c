package poolwithdrawer

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lemx/swapd/internal/api"
	"github.com/lemx/swapd/internal/types"
)

func GetAvailablePoolsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1PoolWithdrawer.GET("/available-pools", getAvailablePoolsHandler(s))
}

func getAvailablePoolsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		pools := s.Swap.Pools()

		items := make([]*types.PoolItem, 0, len(pools))
		for _, p := range pools {
			items = append(items, &types.PoolItem{
				Name:     p.Name,
				Kind:     p.Kind,
				Address:  p.Address,
				TokenIn:  p.TokenIn,
				TokenOut: p.TokenOut,
				Endpoint: p.Endpoint,
			})
		}

		return c.JSON(http.StatusOK, &types.AvailablePoolsResponse{
			Pools: items,
		})
	}
}
