package test

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/lemx/swapd/internal/chain"
)

var _ chain.Client = (*MockChainClient)(nil)

// 4-byte function selectors the mock dispatches on.
var (
	selDecimals  = selector("decimals()")
	selBalanceOf = selector("balanceOf(address)")
	selGetDy     = selector("get_dy(int128,int128,uint256)")
	selQuoteV3   = selector("quoteExactInputSingle(address,address,uint24,uint256,uint160)")

	// Selectors on sent transactions, for assertions.
	SelApprove          = selector("approve(address,uint256)")
	SelExchange         = selector("exchange(int128,int128,uint256,uint256)")
	SelExactInputSingle = selector("exactInputSingle((address,address,uint24,address,uint256,uint256,uint256,uint160))")
)

func selector(signature string) [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(signature))[:4])
	return sel
}

// MockChainClient is a scripted in-memory chain.Client. Reads are
// answered from the configured maps; writes are recorded and confirmed
// with the next queued receipt status (default success).
type MockChainClient struct {
	mu sync.Mutex

	ChainIDValue  *big.Int
	GasPriceValue *big.Int
	GasPriceErr   error

	// NativeBalances answers BalanceAt per account.
	NativeBalances map[common.Address]*big.Int
	BalanceErr     error

	// TokenDecimals and TokenBalances answer ERC-20 reads, keyed by
	// token contract then holder.
	TokenDecimals map[common.Address]uint8
	TokenBalances map[common.Address]map[common.Address]*big.Int

	// QuoteOut answers get_dy / quoteExactInputSingle per quote
	// contract; QuoteErr fails every quote read instead.
	QuoteOut map[common.Address]*big.Int
	QuoteErr error

	CallErr error
	SendErr error
	WaitErr error

	// ReceiptStatuses is consumed one per sent transaction; when
	// exhausted, receipts succeed.
	ReceiptStatuses []uint64

	// ReadCalls counts every read-path RPC; SentTxs records every
	// broadcast write in order.
	ReadCalls int
	SentTxs   []*types.Transaction

	receipts  map[common.Hash]*types.Receipt
	nonce     uint64
	nextBlock uint64
}

// NewMockChainClient returns a mock with sane defaults: chain ID 1,
// 1 gwei suggested gas price and no balances.
func NewMockChainClient() *MockChainClient {
	return &MockChainClient{
		ChainIDValue:   big.NewInt(1),
		GasPriceValue:  big.NewInt(1_000_000_000),
		NativeBalances: map[common.Address]*big.Int{},
		TokenDecimals:  map[common.Address]uint8{},
		TokenBalances:  map[common.Address]map[common.Address]*big.Int{},
		QuoteOut:       map[common.Address]*big.Int{},
		receipts:       map[common.Hash]*types.Receipt{},
		nextBlock:      100,
	}
}

// SetTokenBalance scripts a balanceOf answer.
func (m *MockChainClient) SetTokenBalance(token, holder common.Address, balance *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.TokenBalances[token] == nil {
		m.TokenBalances[token] = map[common.Address]*big.Int{}
	}
	m.TokenBalances[token][holder] = balance
}

// WriteCalls returns how many transactions were broadcast.
func (m *MockChainClient) WriteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentTxs)
}

func (m *MockChainClient) ChainID(_ context.Context) (*big.Int, error) {
	m.countRead()
	return m.ChainIDValue, nil
}

func (m *MockChainClient) BalanceAt(_ context.Context, address common.Address) (*big.Int, error) {
	m.countRead()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.BalanceErr != nil {
		return nil, m.BalanceErr
	}
	if balance, ok := m.NativeBalances[address]; ok {
		return new(big.Int).Set(balance), nil
	}
	return new(big.Int), nil
}

func (m *MockChainClient) PendingNonceAt(_ context.Context, _ common.Address) (uint64, error) {
	m.countRead()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nonce, nil
}

func (m *MockChainClient) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	m.countRead()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GasPriceErr != nil {
		return nil, m.GasPriceErr
	}
	return new(big.Int).Set(m.GasPriceValue), nil
}

func (m *MockChainClient) CallContract(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
	m.countRead()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CallErr != nil {
		return nil, m.CallErr
	}
	if msg.To == nil || len(msg.Data) < 4 {
		return nil, errors.New("malformed call")
	}

	var sel [4]byte
	copy(sel[:], msg.Data[:4])

	switch sel {
	case selDecimals:
		decimals, ok := m.TokenDecimals[*msg.To]
		if !ok {
			return nil, errors.Errorf("no decimals scripted for %s", msg.To.Hex())
		}
		return encodeUint(big.NewInt(int64(decimals))), nil

	case selBalanceOf:
		if len(msg.Data) != 4+32 {
			return nil, errors.New("malformed balanceOf call")
		}
		holder := common.BytesToAddress(msg.Data[4+12 : 4+32])
		balance := m.TokenBalances[*msg.To][holder]
		if balance == nil {
			balance = new(big.Int)
		}
		return encodeUint(balance), nil

	case selGetDy, selQuoteV3:
		if m.QuoteErr != nil {
			return nil, m.QuoteErr
		}
		out, ok := m.QuoteOut[*msg.To]
		if !ok {
			return nil, errors.Errorf("no quote scripted for %s", msg.To.Hex())
		}
		return encodeUint(out), nil
	}

	return nil, errors.Errorf("unscripted call selector %x", sel)
}

func (m *MockChainClient) SendTransaction(_ context.Context, tx *types.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendErr != nil {
		return m.SendErr
	}

	status := types.ReceiptStatusSuccessful
	if len(m.ReceiptStatuses) > 0 {
		status = m.ReceiptStatuses[0]
		m.ReceiptStatuses = m.ReceiptStatuses[1:]
	}

	m.nextBlock++
	m.receipts[tx.Hash()] = &types.Receipt{
		Status:      status,
		TxHash:      tx.Hash(),
		BlockNumber: new(big.Int).SetUint64(m.nextBlock),
		GasUsed:     21_000,
	}

	m.SentTxs = append(m.SentTxs, tx)
	m.nonce++

	return nil
}

func (m *MockChainClient) WaitMined(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WaitErr != nil {
		return nil, m.WaitErr
	}

	receipt, ok := m.receipts[txHash]
	if !ok {
		return nil, errors.Errorf("no receipt for %s", txHash.Hex())
	}
	return receipt, nil
}

func (m *MockChainClient) Close() {}

func (m *MockChainClient) countRead() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadCalls++
}

// encodeUint ABI-encodes a single unsigned integer return value.
func encodeUint(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), 32)
}
