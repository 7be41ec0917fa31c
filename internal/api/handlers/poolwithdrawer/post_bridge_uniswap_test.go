package poolwithdrawer_test

import (
	"bytes"
	"math/big"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemx/swapd/internal/api"
	"github.com/lemx/swapd/internal/test"
	"github.com/lemx/swapd/internal/types"
)

func TestPostBridgeUniswap(t *testing.T) {
	cfg := test.DefaultTestServerConfig()
	mock := test.HealthyMockChain(cfg)
	mock.SetTokenBalance(test.HexAddress(cfg.Swap.OutputTokenAddress), test.HexAddress(testCounterparty), big.NewInt(996_000_000))

	test.WithTestServerFromMock(t, mock, func(s *api.Server) {
		payload := test.GenericPayload{
			"amount":                "1000",
			"recipientAddress":      testRecipient,
			"poolWithdrawerAddress": testCounterparty,
		}

		res := test.PerformRequest(t, s, "POST", "/api/pool-withdrawer/bridge-uniswap", payload, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.SwapOutcomeResponse
		test.ParseResponseBody(t, res, &response)

		assert.True(t, response.Success)
		assert.Equal(t, "996", response.AmountOut)

		// the second write hits the router with exactInputSingle
		require.Equal(t, 2, mock.WriteCalls())
		exchange := mock.SentTxs[1]
		assert.Equal(t, test.HexAddress(cfg.Swap.UniswapRouterAddress), *exchange.To())
		assert.True(t, bytes.Equal(test.SelExactInputSingle[:], exchange.Data()[:4]))
	})
}

func TestPostBridgeUniswapMissingBody(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/pool-withdrawer/bridge-uniswap", nil, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)

		var response types.SwapOutcomeResponse
		test.ParseResponseBody(t, res, &response)
		assert.Equal(t, "INVALID_REQUEST", response.Code)
	})
}
