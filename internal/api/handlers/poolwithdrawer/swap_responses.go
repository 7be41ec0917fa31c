package poolwithdrawer

import (
	"net/http"

	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"

	"github.com/lemx/swapd/internal/api"
	"github.com/lemx/swapd/internal/swap"
	"github.com/lemx/swapd/internal/types"
)

// writeOutcome maps a terminal swap outcome onto the HTTP response:
// 200 when confirmed, 400 for caller-input failures, 500 for
// precondition and execution failures (with a suggestion).
func writeOutcome(c echo.Context, s *api.Server, outcome *swap.Outcome) error {
	response := &types.SwapOutcomeResponse{
		Success:                 outcome.Success,
		State:                   string(outcome.State),
		TransactionHash:         outcome.TxHash,
		ApprovalTransactionHash: outcome.ApproveTxHash,
		BlockNumber:             outcome.BlockNumber,
		GasUsed:                 outcome.GasUsed,
		AmountOut:               outcome.AmountOut,
		ExpectedOut:             outcome.ExpectedOut,
		Code:                    string(outcome.Code),
		Error:                   outcome.ErrorMessage,
		Suggestion:              outcome.Code.Suggestion(),
		Timestamp:               strfmt.DateTime(s.Clock.Now()),
	}

	switch {
	case outcome.Success:
		return c.JSON(http.StatusOK, response)
	case outcome.Code.CallerFault():
		return c.JSON(http.StatusBadRequest, response)
	default:
		return c.JSON(http.StatusInternalServerError, response)
	}
}
