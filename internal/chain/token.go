package chain

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Minimal ERC-20 ABI, only the methods the swap flow calls.
const erc20ABIJSON = `[
	{
		"name": "approve",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount",  "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"name": "balanceOf",
		"type": "function",
		"stateMutability": "view",
		"inputs": [{"name": "account", "type": "address"}],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"name": "decimals",
		"type": "function",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint8"}]
	},
	{
		"name": "transfer",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "recipient", "type": "address"},
			{"name": "amount",    "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	}
]`

var erc20ABI = MustParseABI(erc20ABIJSON)

// MustParseABI parses a JSON ABI definition, panicking on malformed
// input. Only used for compile-time constant ABIs.
func MustParseABI(abiJSON string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Token is an ERC-20 helper bound to a token contract address.
type Token struct {
	address common.Address
	client  Client
}

// NewToken binds the ERC-20 helper to a contract address.
func NewToken(address common.Address, client Client) *Token {
	return &Token{
		address: address,
		client:  client,
	}
}

// Address returns the token contract address.
func (t *Token) Address() common.Address {
	return t.address
}

// Decimals reads the token's decimals from the chain.
func (t *Token) Decimals(ctx context.Context) (uint8, error) {
	data, err := erc20ABI.Pack("decimals")
	if err != nil {
		return 0, errors.Wrap(err, "failed to pack decimals call")
	}

	resp, err := t.client.CallContract(ctx, ethereum.CallMsg{To: &t.address, Data: data})
	if err != nil {
		return 0, errors.Wrap(err, "failed to call decimals")
	}

	values, err := erc20ABI.Unpack("decimals", resp)
	if err != nil {
		return 0, errors.Wrap(err, "failed to unpack decimals result")
	}

	decimals, ok := values[0].(uint8)
	if !ok {
		return 0, errors.New("unexpected decimals result type")
	}

	return decimals, nil
}

// BalanceOf reads the token balance of the given account.
func (t *Token) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	data, err := erc20ABI.Pack("balanceOf", account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack balanceOf call")
	}

	resp, err := t.client.CallContract(ctx, ethereum.CallMsg{To: &t.address, Data: data})
	if err != nil {
		return nil, errors.Wrap(err, "failed to call balanceOf")
	}

	values, err := erc20ABI.Unpack("balanceOf", resp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unpack balanceOf result")
	}

	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.New("unexpected balanceOf result type")
	}

	return balance, nil
}

// PackApprove returns the calldata authorizing spender to move amount
// units of the token.
func (t *Token) PackApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	data, err := erc20ABI.Pack("approve", spender, amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack approve call")
	}
	return data, nil
}
