package swap

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// validateRequest checks the request in a fixed precondition order:
// required fields, amount format, address format. The first failure
// wins; nothing remote is touched here.
func validateRequest(req Request) (decimal.Decimal, *Error) {
	if req.Amount == "" || req.RecipientAddress == "" || req.CounterpartyAddress == "" {
		return decimal.Zero, newError(FailInvalidRequest, "amount, recipientAddress and counterparty contract address are required")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return decimal.Zero, newError(FailInvalidAmount, "amount %q is not a valid number", req.Amount)
	}
	if !amount.IsPositive() {
		return decimal.Zero, newError(FailInvalidAmount, "amount must be greater than 0, got %s", amount.String())
	}

	if !common.IsHexAddress(req.RecipientAddress) {
		return decimal.Zero, newError(FailInvalidAddress, "recipient address %q is not a valid address", req.RecipientAddress)
	}
	if !common.IsHexAddress(req.CounterpartyAddress) {
		return decimal.Zero, newError(FailInvalidAddress, "counterparty contract address %q is not a valid address", req.CounterpartyAddress)
	}

	return amount, nil
}

// toBaseUnits converts a human-unit amount into the token's smallest
// unit, truncating any precision beyond the token's decimals.
func toBaseUnits(amount decimal.Decimal, decimals uint8) *big.Int {
	return amount.Shift(int32(decimals)).Truncate(0).BigInt()
}

// fromBaseUnits formats a smallest-unit integer in human units.
func fromBaseUnits(amount *big.Int, decimals uint8) string {
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}

// slippageFactor converts a tolerance in basis points into the
// multiplier applied to the input amount, e.g. 100 bps -> 0.99.
func slippageFactor(bps int64) decimal.Decimal {
	return decimal.NewFromInt(10_000 - bps).Div(decimal.NewFromInt(10_000))
}
