package swap

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/lemx/swapd/internal/chain"
)

// Curve StableSwap pool ABI, only exchange and get_dy.
const curvePoolABIJSON = `[
	{
		"name": "exchange",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "i",      "type": "int128"},
			{"name": "j",      "type": "int128"},
			{"name": "dx",     "type": "uint256"},
			{"name": "min_dy", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"name": "get_dy",
		"type": "function",
		"stateMutability": "view",
		"inputs": [
			{"name": "i",  "type": "int128"},
			{"name": "j",  "type": "int128"},
			{"name": "dx", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "uint256"}]
	}
]`

var curvePoolABI = chain.MustParseABI(curvePoolABIJSON)

// CurveAdapter drives a Curve StableSwap pool. The pool itself is both
// the quote source (get_dy) and the approval spender. Curve pools have
// no recipient parameter; output lands at the transaction sender.
type CurveAdapter struct {
	client   chain.Client
	pool     common.Address
	tokenIn  common.Address
	tokenOut common.Address
	indexIn  *big.Int
	indexOut *big.Int
}

// NewCurveAdapter binds the adapter to a pool and its coin indexes.
func NewCurveAdapter(client chain.Client, pool, tokenIn, tokenOut common.Address, indexIn, indexOut int64) *CurveAdapter {
	return &CurveAdapter{
		client:   client,
		pool:     pool,
		tokenIn:  tokenIn,
		tokenOut: tokenOut,
		indexIn:  big.NewInt(indexIn),
		indexOut: big.NewInt(indexOut),
	}
}

func (a *CurveAdapter) Name() string {
	return "curve"
}

func (a *CurveAdapter) TokenIn() common.Address {
	return a.tokenIn
}

func (a *CurveAdapter) TokenOut() common.Address {
	return a.tokenOut
}

func (a *CurveAdapter) Spender() common.Address {
	return a.pool
}

// Quote reads get_dy from the pool.
func (a *CurveAdapter) Quote(ctx context.Context, amountIn *big.Int) (*big.Int, error) {
	data, err := curvePoolABI.Pack("get_dy", a.indexIn, a.indexOut, amountIn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack get_dy call")
	}

	resp, err := a.client.CallContract(ctx, ethereum.CallMsg{To: &a.pool, Data: data})
	if err != nil {
		return nil, errors.Wrap(err, "failed to call get_dy")
	}

	values, err := curvePoolABI.Unpack("get_dy", resp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unpack get_dy result")
	}

	amountOut, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.New("unexpected get_dy result type")
	}

	return amountOut, nil
}

// PackExchange builds exchange(i, j, dx, min_dy) calldata. The
// recipient and deadline are ignored; Curve's exchange has neither.
func (a *CurveAdapter) PackExchange(amountIn, minAmountOut *big.Int, _ common.Address, _ time.Time) (common.Address, []byte, error) {
	data, err := curvePoolABI.Pack("exchange", a.indexIn, a.indexOut, amountIn, minAmountOut)
	if err != nil {
		return common.Address{}, nil, errors.Wrap(err, "failed to pack exchange call")
	}
	return a.pool, data, nil
}
