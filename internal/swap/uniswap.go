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

// Uniswap V3 SwapRouter ABI, only exactInputSingle.
const uniswapRouterABIJSON = `[
	{
		"name": "exactInputSingle",
		"type": "function",
		"stateMutability": "payable",
		"inputs": [
			{
				"name": "params",
				"type": "tuple",
				"components": [
					{"name": "tokenIn",           "type": "address"},
					{"name": "tokenOut",          "type": "address"},
					{"name": "fee",               "type": "uint24"},
					{"name": "recipient",         "type": "address"},
					{"name": "deadline",          "type": "uint256"},
					{"name": "amountIn",          "type": "uint256"},
					{"name": "amountOutMinimum",  "type": "uint256"},
					{"name": "sqrtPriceLimitX96", "type": "uint160"}
				]
			}
		],
		"outputs": [{"name": "amountOut", "type": "uint256"}]
	}
]`

// Uniswap V3 Quoter ABI, only quoteExactInputSingle.
const uniswapQuoterABIJSON = `[
	{
		"name": "quoteExactInputSingle",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "tokenIn",           "type": "address"},
			{"name": "tokenOut",          "type": "address"},
			{"name": "fee",               "type": "uint24"},
			{"name": "amountIn",          "type": "uint256"},
			{"name": "sqrtPriceLimitX96", "type": "uint160"}
		],
		"outputs": [{"name": "amountOut", "type": "uint256"}]
	}
]`

var (
	uniswapRouterABI = chain.MustParseABI(uniswapRouterABIJSON)
	uniswapQuoterABI = chain.MustParseABI(uniswapQuoterABIJSON)
)

// exactInputSingleParams mirrors the router's params tuple.
type exactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	Deadline          *big.Int
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

// UniswapV3Adapter drives the Uniswap V3 SwapRouter for a fixed token
// pair and fee tier. Quotes go through the Quoter contract; the swap
// output is delivered directly to the recipient.
type UniswapV3Adapter struct {
	client   chain.Client
	router   common.Address
	quoter   common.Address
	tokenIn  common.Address
	tokenOut common.Address
	fee      *big.Int
}

// NewUniswapV3Adapter binds the adapter to router, quoter and pair.
func NewUniswapV3Adapter(client chain.Client, router, quoter, tokenIn, tokenOut common.Address, feeTier int64) *UniswapV3Adapter {
	return &UniswapV3Adapter{
		client:   client,
		router:   router,
		quoter:   quoter,
		tokenIn:  tokenIn,
		tokenOut: tokenOut,
		fee:      big.NewInt(feeTier),
	}
}

func (a *UniswapV3Adapter) Name() string {
	return "uniswap-v3"
}

func (a *UniswapV3Adapter) TokenIn() common.Address {
	return a.tokenIn
}

func (a *UniswapV3Adapter) TokenOut() common.Address {
	return a.tokenOut
}

func (a *UniswapV3Adapter) Spender() common.Address {
	return a.router
}

// Quote reads quoteExactInputSingle from the Quoter. The quoter method
// is non-view on-chain but safe to eth_call.
func (a *UniswapV3Adapter) Quote(ctx context.Context, amountIn *big.Int) (*big.Int, error) {
	data, err := uniswapQuoterABI.Pack("quoteExactInputSingle", a.tokenIn, a.tokenOut, a.fee, amountIn, new(big.Int))
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack quoteExactInputSingle call")
	}

	resp, err := a.client.CallContract(ctx, ethereum.CallMsg{To: &a.quoter, Data: data})
	if err != nil {
		return nil, errors.Wrap(err, "failed to call quoteExactInputSingle")
	}

	values, err := uniswapQuoterABI.Unpack("quoteExactInputSingle", resp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unpack quoteExactInputSingle result")
	}

	amountOut, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.New("unexpected quoteExactInputSingle result type")
	}

	return amountOut, nil
}

// PackExchange builds exactInputSingle calldata with the given
// recipient and deadline and sqrtPriceLimitX96 = 0 (no price limit).
func (a *UniswapV3Adapter) PackExchange(amountIn, minAmountOut *big.Int, recipient common.Address, deadline time.Time) (common.Address, []byte, error) {
	params := exactInputSingleParams{
		TokenIn:           a.tokenIn,
		TokenOut:          a.tokenOut,
		Fee:               a.fee,
		Recipient:         recipient,
		Deadline:          big.NewInt(deadline.Unix()),
		AmountIn:          amountIn,
		AmountOutMinimum:  minAmountOut,
		SqrtPriceLimitX96: new(big.Int),
	}

	data, err := uniswapRouterABI.Pack("exactInputSingle", params)
	if err != nil {
		return common.Address{}, nil, errors.Wrap(err, "failed to pack exactInputSingle call")
	}

	return a.router, data, nil
}
