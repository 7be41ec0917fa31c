package swap

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniswapPackExchange(t *testing.T) {
	router := common.HexToAddress("0xE592427A0AEce92De3Edee1F18E0157C05861564")
	quoter := common.HexToAddress("0x61fFE014bA17989E8f386d61003CcC7adaFc5c55")
	tokenIn := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	tokenOut := common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	recipient := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	adapter := NewUniswapV3Adapter(nil, router, quoter, tokenIn, tokenOut, 3000)

	deadline := time.Unix(1_700_001_200, 0)

	to, data, err := adapter.PackExchange(big.NewInt(1_000_000_000), big.NewInt(990_000_000), recipient, deadline)
	require.NoError(t, err)

	assert.Equal(t, router, to)

	// the params tuple is fully static, 8 inline words
	require.Len(t, data, 4+8*32)
	assert.Equal(t, uniswapRouterABI.Methods["exactInputSingle"].ID, data[:4])

	word := func(i int) []byte { return data[4+i*32 : 4+(i+1)*32] }

	assert.Equal(t, tokenIn, common.BytesToAddress(word(0)))
	assert.Equal(t, tokenOut, common.BytesToAddress(word(1)))
	assert.Equal(t, big.NewInt(3000), new(big.Int).SetBytes(word(2)))
	assert.Equal(t, recipient, common.BytesToAddress(word(3)))
	assert.Equal(t, big.NewInt(1_700_001_200), new(big.Int).SetBytes(word(4)))
	assert.Equal(t, big.NewInt(1_000_000_000), new(big.Int).SetBytes(word(5)))
	assert.Equal(t, big.NewInt(990_000_000), new(big.Int).SetBytes(word(6)))
	// no price limit
	assert.Equal(t, 0, new(big.Int).SetBytes(word(7)).Sign())
}

func TestUniswapAdapterIdentity(t *testing.T) {
	router := common.HexToAddress("0xE592427A0AEce92De3Edee1F18E0157C05861564")
	quoter := common.HexToAddress("0x61fFE014bA17989E8f386d61003CcC7adaFc5c55")
	tokenIn := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	tokenOut := common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")

	adapter := NewUniswapV3Adapter(nil, router, quoter, tokenIn, tokenOut, 3000)

	assert.Equal(t, "uniswap-v3", adapter.Name())
	// the router is approved as spender, not the quoter
	assert.Equal(t, router, adapter.Spender())
}
