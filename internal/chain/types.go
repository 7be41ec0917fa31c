package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Client is the subset of chain RPC primitives the swap flow needs.
// RPCClient implements it against real nodes; tests substitute a mock.
type Client interface {
	// ChainID returns the chain ID reported by the connected node.
	ChainID(ctx context.Context) (*big.Int, error)

	// BalanceAt returns the native-token balance at the latest block.
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)

	// PendingNonceAt returns the pending nonce for the given address.
	PendingNonceAt(ctx context.Context, address common.Address) (uint64, error)

	// SuggestGasPrice returns the node's suggested gas price.
	SuggestGasPrice(ctx context.Context) (*big.Int, error)

	// CallContract executes a read-only contract call.
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)

	// SendTransaction broadcasts a signed transaction.
	SendTransaction(ctx context.Context, tx *types.Transaction) error

	// WaitMined blocks until the transaction is included in a block
	// (one confirmation) or the wait deadline passes.
	WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error)

	// Close releases the underlying connections.
	Close()
}
