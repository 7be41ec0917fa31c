package swap

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// PoolAdapter abstracts one AMM family. The guarded-swap orchestration
// lives in the Executor; an adapter only knows how to quote and how to
// build the exchange calldata for its pool.
type PoolAdapter interface {
	// Name identifies the AMM family ("curve", "uniswap-v3").
	Name() string

	// TokenIn returns the input token contract address.
	TokenIn() common.Address

	// TokenOut returns the output token contract address.
	TokenOut() common.Address

	// Spender is the contract that must be approved to move the input
	// token.
	Spender() common.Address

	// Quote returns the expected output in smallest units for the
	// given input. Advisory only; callers treat failures as non-fatal.
	Quote(ctx context.Context, amountIn *big.Int) (*big.Int, error)

	// PackExchange builds the exchange transaction target and calldata
	// with the given slippage bound.
	PackExchange(amountIn, minAmountOut *big.Int, recipient common.Address, deadline time.Time) (common.Address, []byte, error)
}
