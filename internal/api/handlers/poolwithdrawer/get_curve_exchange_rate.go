package poolwithdrawer

import (
	"net/http"

	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"

	"github.com/lemx/swapd/internal/api"
	"github.com/lemx/swapd/internal/types"
)

func GetCurveExchangeRateRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1PoolWithdrawer.GET("/curve-exchange-rate/:amount", getCurveExchangeRateHandler(s))
}

// Advisory only. The quote is not bound to any later execution; a
// failed read answers 500 rather than a stale or guessed rate.
func getCurveExchangeRateHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		quote := s.Swap.CurveExchangeRate(ctx, c.Param("amount"))
		if quote == nil {
			return c.JSON(http.StatusInternalServerError, &types.ExchangeRateResponse{
				Success:   false,
				Error:     "failed to fetch exchange rate",
				Timestamp: strfmt.DateTime(s.Clock.Now()),
			})
		}

		return c.JSON(http.StatusOK, &types.ExchangeRateResponse{
			Success:        true,
			AmountIn:       quote.AmountIn,
			AmountOut:      quote.AmountOut,
			ImpliedRate:    quote.ImpliedRate,
			SourceDecimals: quote.SourceDecimals,
			DestDecimals:   quote.DestDecimals,
			Timestamp:      strfmt.DateTime(s.Clock.Now()),
		})
	}
}
