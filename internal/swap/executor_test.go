package swap_test

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemx/swapd/internal/chain"
	"github.com/lemx/swapd/internal/config"
	"github.com/lemx/swapd/internal/swap"
	"github.com/lemx/swapd/internal/test"
)

const (
	testRecipient    = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	testCounterparty = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
)

type executorFixture struct {
	mock     *test.MockChainClient
	executor *swap.Executor
	curve    *swap.CurveAdapter
	cfg      config.Swap

	tokenIn  common.Address
	tokenOut common.Address
	pool     common.Address
}

func newExecutorFixture(t *testing.T) *executorFixture {
	t.Helper()

	cfg := test.DefaultTestServerConfig()

	mock := test.HealthyMockChain(cfg)
	mock.SetTokenBalance(test.HexAddress(cfg.Swap.OutputTokenAddress), test.HexAddress(testCounterparty), big.NewInt(997_400_000))

	signer, err := chain.NewSigner(test.TestServerPrivateKey, big.NewInt(cfg.Chain.ChainID))
	require.NoError(t, err)

	executor, err := swap.NewExecutor(mock, signer, &time2.MockClock{}, cfg.Swap)
	require.NoError(t, err)

	return &executorFixture{
		mock:     mock,
		executor: executor,
		curve: swap.NewCurveAdapter(mock,
			test.HexAddress(cfg.Swap.CurvePoolAddress),
			test.HexAddress(cfg.Swap.InputTokenAddress),
			test.HexAddress(cfg.Swap.OutputTokenAddress),
			cfg.Swap.CurveIndexIn, cfg.Swap.CurveIndexOut),
		cfg:      cfg.Swap,
		tokenIn:  test.HexAddress(cfg.Swap.InputTokenAddress),
		tokenOut: test.HexAddress(cfg.Swap.OutputTokenAddress),
		pool:     test.HexAddress(cfg.Swap.CurvePoolAddress),
	}
}

func validRequest() swap.Request {
	return swap.Request{
		Amount:              "1000",
		RecipientAddress:    testRecipient,
		CounterpartyAddress: testCounterparty,
	}
}

func TestExecuteRejectsMissingFieldsWithoutRemoteCalls(t *testing.T) {
	fix := newExecutorFixture(t)

	for _, req := range []swap.Request{
		{},
		{Amount: "1000"},
		{Amount: "1000", RecipientAddress: testRecipient},
		{RecipientAddress: testRecipient, CounterpartyAddress: testCounterparty},
	} {
		outcome := fix.executor.Execute(context.Background(), fix.curve, req)
		require.False(t, outcome.Success)
		assert.Equal(t, swap.StateFailed, outcome.State)
		assert.Equal(t, swap.FailInvalidRequest, outcome.Code)
	}

	assert.Equal(t, 0, fix.mock.ReadCalls)
	assert.Equal(t, 0, fix.mock.WriteCalls())
}

func TestExecuteRejectsInvalidAmount(t *testing.T) {
	fix := newExecutorFixture(t)

	for _, amount := range []string{"abc", "0", "-5", "1,5"} {
		req := validRequest()
		req.Amount = amount

		outcome := fix.executor.Execute(context.Background(), fix.curve, req)
		require.False(t, outcome.Success)
		assert.Equal(t, swap.FailInvalidAmount, outcome.Code)
	}

	assert.Equal(t, 0, fix.mock.ReadCalls)
	assert.Equal(t, 0, fix.mock.WriteCalls())
}

func TestExecuteRejectsMalformedAddresses(t *testing.T) {
	fix := newExecutorFixture(t)

	req := validRequest()
	req.RecipientAddress = "0x1234"

	outcome := fix.executor.Execute(context.Background(), fix.curve, req)
	require.False(t, outcome.Success)
	assert.Equal(t, swap.FailInvalidAddress, outcome.Code)

	req = validRequest()
	req.CounterpartyAddress = "bebc44782c7db0a1a60cb6fe97d0b483032ff1cZ"

	outcome = fix.executor.Execute(context.Background(), fix.curve, req)
	require.False(t, outcome.Success)
	assert.Equal(t, swap.FailInvalidAddress, outcome.Code)

	assert.Equal(t, 0, fix.mock.WriteCalls())
}

func TestExecuteInsufficientGas(t *testing.T) {
	fix := newExecutorFixture(t)

	// below the default reserve of 0.002 native units
	fix.mock.NativeBalances[test.HexAddress(test.TestServerAddress)] = big.NewInt(1_000_000_000_000_000)

	outcome := fix.executor.Execute(context.Background(), fix.curve, validRequest())
	require.False(t, outcome.Success)
	assert.Equal(t, swap.FailInsufficientGas, outcome.Code)
	assert.Contains(t, outcome.ErrorMessage, "reserve")
	assert.Equal(t, 0, fix.mock.WriteCalls())
}

func TestExecuteInsufficientTokenBalance(t *testing.T) {
	fix := newExecutorFixture(t)

	// 100 tokens held, 1000 requested
	fix.mock.SetTokenBalance(fix.tokenIn, test.HexAddress(test.TestServerAddress), big.NewInt(100_000_000))

	outcome := fix.executor.Execute(context.Background(), fix.curve, validRequest())
	require.False(t, outcome.Success)
	assert.Equal(t, swap.FailInsufficientBalance, outcome.Code)
	assert.Equal(t, 0, fix.mock.WriteCalls())
}

func TestExecuteQuoteFailureProceedsOneToOne(t *testing.T) {
	fix := newExecutorFixture(t)

	fix.mock.QuoteErr = context.DeadlineExceeded

	outcome := fix.executor.Execute(context.Background(), fix.curve, validRequest())
	require.True(t, outcome.Success)
	assert.Equal(t, swap.StateConfirmed, outcome.State)

	// fallback assumes parity: 1000 tokens at 6 decimals
	assert.Equal(t, "1000000000", outcome.ExpectedOut)
	assert.Equal(t, 2, fix.mock.WriteCalls())
}

func TestExecuteApproveRevertAborts(t *testing.T) {
	fix := newExecutorFixture(t)

	fix.mock.ReceiptStatuses = []uint64{0}

	outcome := fix.executor.Execute(context.Background(), fix.curve, validRequest())
	require.False(t, outcome.Success)
	assert.Equal(t, swap.FailContractRevert, outcome.Code)
	assert.Contains(t, outcome.ErrorMessage, "reverted")

	// the exchange must never be attempted after a failed approval
	assert.Equal(t, 1, fix.mock.WriteCalls())
	assert.Empty(t, outcome.TxHash)
}

func TestExecuteExchangeRevertKeepsApprovalHash(t *testing.T) {
	fix := newExecutorFixture(t)

	fix.mock.ReceiptStatuses = []uint64{1, 0}

	outcome := fix.executor.Execute(context.Background(), fix.curve, validRequest())
	require.False(t, outcome.Success)
	assert.Equal(t, swap.FailContractRevert, outcome.Code)
	assert.Contains(t, outcome.ErrorMessage, "reverted")
	assert.Contains(t, outcome.ErrorMessage, "allowance")

	// the confirmed approval is reported even though the swap failed
	assert.NotEmpty(t, outcome.ApproveTxHash)
	assert.Equal(t, 2, fix.mock.WriteCalls())
}

func TestExecuteRPCErrorClassification(t *testing.T) {
	fix := newExecutorFixture(t)

	fix.mock.BalanceErr = assert.AnError

	outcome := fix.executor.Execute(context.Background(), fix.curve, validRequest())
	require.False(t, outcome.Success)
	assert.Equal(t, swap.FailRPCError, outcome.Code)
}

func TestExecuteEndToEnd(t *testing.T) {
	fix := newExecutorFixture(t)

	outcome := fix.executor.Execute(context.Background(), fix.curve, validRequest())
	require.True(t, outcome.Success)
	assert.Equal(t, swap.StateConfirmed, outcome.State)

	require.Equal(t, 2, fix.mock.WriteCalls())

	approve := fix.mock.SentTxs[0]
	assert.Equal(t, fix.tokenIn, *approve.To())
	assert.True(t, bytes.Equal(test.SelApprove[:], approve.Data()[:4]))
	assert.Equal(t, fix.cfg.ApproveGasLimit, approve.Gas())

	exchange := fix.mock.SentTxs[1]
	assert.Equal(t, fix.pool, *exchange.To())
	assert.True(t, bytes.Equal(test.SelExchange[:], exchange.Data()[:4]))
	assert.Equal(t, fix.cfg.ExchangeGasLimit, exchange.Gas())

	// 1 gwei suggested, boosted by the default multiplier of 5
	assert.Equal(t, big.NewInt(5_000_000_000), exchange.GasPrice())

	// min_dy is the last word: 1000 tokens minus 100 bps at 6 decimals
	data := exchange.Data()
	minOut := new(big.Int).SetBytes(data[len(data)-32:])
	assert.Equal(t, big.NewInt(990_000_000), minOut)

	// the reported output is the counterparty's observed balance, not the quote
	assert.Equal(t, "997.4", outcome.AmountOut)
	assert.Equal(t, "998000000", outcome.ExpectedOut)
	assert.NotEmpty(t, outcome.ApproveTxHash)
	assert.NotEmpty(t, outcome.TxHash)
	assert.NotZero(t, outcome.BlockNumber)
}

// brokenPackAdapter quotes and approves like the Curve pool but fails
// to encode the exchange calldata.
type brokenPackAdapter struct {
	*swap.CurveAdapter
}

func (a brokenPackAdapter) PackExchange(_, _ *big.Int, _ common.Address, _ time.Time) (common.Address, []byte, error) {
	return common.Address{}, nil, errors.New("argument count mismatch")
}

func TestExecutePackFailureIsNotAnRPCError(t *testing.T) {
	fix := newExecutorFixture(t)

	outcome := fix.executor.Execute(context.Background(), brokenPackAdapter{fix.curve}, validRequest())
	require.False(t, outcome.Success)

	// a local encoding failure must not blame the RPC endpoint
	assert.Equal(t, swap.FailInternal, outcome.Code)
	assert.Contains(t, outcome.ErrorMessage, "encode")
	assert.NotContains(t, outcome.Code.Suggestion(), "RPC endpoint failed")

	// the approval already confirmed and is reported
	assert.NotEmpty(t, outcome.ApproveTxHash)
	assert.Equal(t, 1, fix.mock.WriteCalls())
}

func TestExecuteZeroGasPriceFallback(t *testing.T) {
	fix := newExecutorFixture(t)

	fix.mock.GasPriceValue = big.NewInt(0)

	outcome := fix.executor.Execute(context.Background(), fix.curve, validRequest())
	require.True(t, outcome.Success)

	// 20 gwei fallback, boosted by the default multiplier of 5
	assert.Equal(t, big.NewInt(100_000_000_000), fix.mock.SentTxs[0].GasPrice())
}
