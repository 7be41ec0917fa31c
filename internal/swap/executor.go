package swap

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/lemx/swapd/internal/chain"
	"github.com/lemx/swapd/internal/config"
	"github.com/lemx/swapd/internal/util"
)

// Fallback when the node suggests a zero gas price (20 gwei).
var fallbackGasPrice = big.NewInt(20_000_000_000)

// Executor runs the guarded on-chain swap sequence: validate, check
// balances, quote (best effort), approve, exchange, read the observed
// output. Each invocation is a strictly sequential chain of remote
// calls with no retries; any failure aborts the whole sequence.
//
// Concurrent invocations against the same signing account are not
// sequenced here. The signer nonce comes from the node's pending pool,
// so concurrent callers risk nonce collisions and allowance races.
type Executor struct {
	client  chain.Client
	signer  *chain.Signer
	clock   time2.Clock
	cfg     config.Swap
	reserve *big.Int
}

// NewExecutor wires the executor with its chain access and policy.
func NewExecutor(client chain.Client, signer *chain.Signer, clock time2.Clock, cfg config.Swap) (*Executor, error) {
	reserve, err := cfg.NativeReserve()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse native reserve")
	}

	return &Executor{
		client:  client,
		signer:  signer,
		clock:   clock,
		cfg:     cfg,
		reserve: reserve,
	}, nil
}

// Execute runs the full guarded sequence for one request against the
// given pool. The returned outcome is terminal: either CONFIRMED with
// the transaction details and observed amount out, or FAILED with a
// classified code.
//
// A request that fails after the approval confirmed leaves the
// allowance on-chain; no compensating transaction is issued.
func (e *Executor) Execute(ctx context.Context, adapter PoolAdapter, req Request) *Outcome {
	log := util.LogFromContext(ctx).With().Str("pool", adapter.Name()).Logger()

	// VALIDATING
	amount, verr := validateRequest(req)
	if verr != nil {
		return failed(verr)
	}

	recipient := common.HexToAddress(req.RecipientAddress)
	counterparty := common.HexToAddress(req.CounterpartyAddress)

	// CHECKING_BALANCE
	nativeBalance, err := e.client.BalanceAt(ctx, e.signer.Address())
	if err != nil {
		return failed(classifyChainError(err))
	}
	if nativeBalance.Cmp(e.reserve) < 0 {
		return failed(newError(FailInsufficientGas,
			"native balance %s wei is below the %s wei reserve required for gas",
			nativeBalance.String(), e.reserve.String()))
	}

	tokenIn := chain.NewToken(adapter.TokenIn(), e.client)
	tokenOut := chain.NewToken(adapter.TokenOut(), e.client)

	srcDecimals, err := tokenIn.Decimals(ctx)
	if err != nil {
		return failed(classifyChainError(err))
	}
	destDecimals, err := tokenOut.Decimals(ctx)
	if err != nil {
		return failed(classifyChainError(err))
	}

	amountIn := toBaseUnits(amount, srcDecimals)

	tokenBalance, err := tokenIn.BalanceOf(ctx, e.signer.Address())
	if err != nil {
		return failed(classifyChainError(err))
	}
	if tokenBalance.Cmp(amountIn) < 0 {
		return failed(newError(FailInsufficientBalance,
			"token balance %s is below the requested %s",
			fromBaseUnits(tokenBalance, srcDecimals), amount.String()))
	}

	// QUOTING is advisory; on failure assume 1:1 and proceed
	expectedOut, err := adapter.Quote(ctx, amountIn)
	if err != nil {
		expectedOut = toBaseUnits(amount, destDecimals)
		log.Warn().Err(err).Msg("Quote failed, assuming 1:1 and proceeding")
	}

	gasPrice, err := e.boostedGasPrice(ctx)
	if err != nil {
		return failed(classifyChainError(err))
	}

	// APPROVING
	// encoding failures are local, never the RPC endpoint's fault
	approveData, err := tokenIn.PackApprove(adapter.Spender(), amountIn)
	if err != nil {
		return failed(newError(FailInternal, "failed to encode approve calldata: %v", err))
	}

	approveReceipt, approveHash, err := e.sendAndWait(ctx, tokenIn.Address(), e.cfg.ApproveGasLimit, gasPrice, approveData)
	if err != nil {
		return failed(classifyChainError(err))
	}
	if approveReceipt.Status != types.ReceiptStatusSuccessful {
		return failed(newError(FailContractRevert, "approve transaction %s reverted", approveHash.Hex()))
	}

	log.Info().
		Str("tx_hash", approveHash.Hex()).
		Str("block", approveReceipt.BlockNumber.String()).
		Msg("Approval confirmed")

	// SWAPPING
	minOut := e.minAmountOut(amount, destDecimals)
	deadline := e.clock.Now().Add(time.Duration(e.cfg.DeadlineSeconds) * time.Second)

	exchangeTo, exchangeData, err := adapter.PackExchange(amountIn, minOut, recipient, deadline)
	if err != nil {
		return failedWithApproval(approveHash, newError(FailInternal, "failed to encode exchange calldata: %v", err))
	}

	swapReceipt, swapHash, err := e.sendAndWait(ctx, exchangeTo, e.cfg.ExchangeGasLimit, gasPrice, exchangeData)
	if err != nil {
		return failedWithApproval(approveHash, classifyChainError(err))
	}
	if swapReceipt.Status != types.ReceiptStatusSuccessful {
		return failedWithApproval(approveHash, newError(FailContractRevert,
			"exchange transaction %s reverted; the confirmed approval remains as a dangling allowance", swapHash.Hex()))
	}

	// Observed output: the counterparty's post-swap balance, not the quote.
	observed, err := tokenOut.BalanceOf(ctx, counterparty)
	if err != nil {
		return failedWithApproval(approveHash, classifyChainError(err))
	}

	log.Info().
		Str("tx_hash", swapHash.Hex()).
		Str("block", swapReceipt.BlockNumber.String()).
		Uint64("gas_used", swapReceipt.GasUsed).
		Str("amount_out", fromBaseUnits(observed, destDecimals)).
		Msg("Swap confirmed")

	return &Outcome{
		Success:       true,
		State:         StateConfirmed,
		ApproveTxHash: approveHash.Hex(),
		TxHash:        swapHash.Hex(),
		BlockNumber:   swapReceipt.BlockNumber.Uint64(),
		GasUsed:       swapReceipt.GasUsed,
		AmountOut:     fromBaseUnits(observed, destDecimals),
		ExpectedOut:   expectedOut.String(),
	}
}

// minAmountOut applies the slippage tolerance to the input amount,
// expressed in output-token smallest units.
func (e *Executor) minAmountOut(amount decimal.Decimal, destDecimals uint8) *big.Int {
	return toBaseUnits(amount.Mul(slippageFactor(e.cfg.SlippageBps)), destDecimals)
}

// boostedGasPrice multiplies the node's suggested price by the
// configured factor. Blunt anti-stuck-transaction policy, not a
// fee-market optimization.
func (e *Executor) boostedGasPrice(ctx context.Context) (*big.Int, error) {
	suggested, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}
	if suggested == nil || suggested.Sign() <= 0 {
		suggested = fallbackGasPrice
	}
	return new(big.Int).Mul(suggested, big.NewInt(e.cfg.GasPriceMultiplier)), nil
}

// sendAndWait signs a transaction with the next pending nonce,
// broadcasts it and blocks until one confirmation.
func (e *Executor) sendAndWait(ctx context.Context, to common.Address, gasLimit uint64, gasPrice *big.Int, data []byte) (*types.Receipt, common.Hash, error) {
	nonce, err := e.client.PendingNonceAt(ctx, e.signer.Address())
	if err != nil {
		return nil, common.Hash{}, errors.Wrap(err, "failed to get pending nonce")
	}

	tx, err := e.signer.SignTx(nonce, to, nil, gasLimit, gasPrice, data)
	if err != nil {
		return nil, common.Hash{}, errors.Wrap(err, "failed to sign transaction")
	}

	if err := e.client.SendTransaction(ctx, tx); err != nil {
		return nil, tx.Hash(), errors.Wrap(err, "failed to send transaction")
	}

	receipt, err := e.client.WaitMined(ctx, tx.Hash())
	if err != nil {
		return nil, tx.Hash(), errors.Wrap(err, "failed waiting for confirmation")
	}

	return receipt, tx.Hash(), nil
}

func failed(serr *Error) *Outcome {
	return &Outcome{
		Success:      false,
		State:        StateFailed,
		Code:         serr.Code,
		ErrorMessage: serr.Message,
	}
}

// failedWithApproval marks a failure after the approval confirmed, so
// the outcome still carries the approval hash. The allowance remains
// on-chain.
func failedWithApproval(approveHash common.Hash, serr *Error) *Outcome {
	outcome := failed(serr)
	outcome.ApproveTxHash = approveHash.Hex()
	return outcome
}

// classifyChainError separates contract reverts from transport-level
// RPC failures. The underlying message passes through unsanitized.
func classifyChainError(err error) *Error {
	msg := err.Error()
	if strings.Contains(strings.ToLower(msg), "revert") {
		return &Error{Code: FailContractRevert, Message: msg}
	}
	return &Error{Code: FailRPCError, Message: msg}
}
