package poolwithdrawer

import (
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"

	"github.com/lemx/swapd/internal/api"
	"github.com/lemx/swapd/internal/swap"
	"github.com/lemx/swapd/internal/types"
	"github.com/lemx/swapd/internal/util"
)

func PostBridgeUniswapRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1PoolWithdrawer.POST("/bridge-uniswap", postBridgeUniswapHandler(s))
}

// Same guarded sequence as the Curve withdrawal, routed through the
// Uniswap V3 SwapRouter; the recipient receives the output directly.
func postBridgeUniswapHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostSwapPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		outcome := s.Swap.BridgeUniswap(ctx, swap.Request{
			Amount:              swag.StringValue(body.Amount),
			RecipientAddress:    swag.StringValue(body.RecipientAddress),
			CounterpartyAddress: swag.StringValue(body.PoolWithdrawerAddress),
		})

		return writeOutcome(c, s, outcome)
	}
}
