package swap

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequest(t *testing.T) {
	recipient := "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	counterparty := "0xbEbc44782C7dB0a1A60Cb6fe97d0b483032FF1C7"

	tests := []struct {
		name     string
		req      Request
		wantCode FailCode
	}{
		{"missing amount", Request{RecipientAddress: recipient, CounterpartyAddress: counterparty}, FailInvalidRequest},
		{"missing recipient", Request{Amount: "100", CounterpartyAddress: counterparty}, FailInvalidRequest},
		{"missing counterparty", Request{Amount: "100", RecipientAddress: recipient}, FailInvalidRequest},
		{"non numeric amount", Request{Amount: "one hundred", RecipientAddress: recipient, CounterpartyAddress: counterparty}, FailInvalidAmount},
		{"zero amount", Request{Amount: "0", RecipientAddress: recipient, CounterpartyAddress: counterparty}, FailInvalidAmount},
		{"negative amount", Request{Amount: "-5", RecipientAddress: recipient, CounterpartyAddress: counterparty}, FailInvalidAmount},
		{"malformed recipient", Request{Amount: "100", RecipientAddress: "0x123", CounterpartyAddress: counterparty}, FailInvalidAddress},
		{"malformed counterparty", Request{Amount: "100", RecipientAddress: recipient, CounterpartyAddress: "not-an-address"}, FailInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, verr := validateRequest(tt.req)
			require.NotNil(t, verr)
			assert.Equal(t, tt.wantCode, verr.Code)
		})
	}

	t.Run("valid request", func(t *testing.T) {
		amount, verr := validateRequest(Request{Amount: "1000.5", RecipientAddress: recipient, CounterpartyAddress: counterparty})
		require.Nil(t, verr)
		assert.Equal(t, "1000.5", amount.String())
	})
}

func TestValidationOrder(t *testing.T) {
	// a request failing several preconditions reports the first one
	_, verr := validateRequest(Request{Amount: "", RecipientAddress: "0x123", CounterpartyAddress: ""})
	require.NotNil(t, verr)
	assert.Equal(t, FailInvalidRequest, verr.Code)

	_, verr = validateRequest(Request{Amount: "-1", RecipientAddress: "0x123", CounterpartyAddress: "0x456"})
	require.NotNil(t, verr)
	assert.Equal(t, FailInvalidAmount, verr.Code)
}

func TestBaseUnitConversion(t *testing.T) {
	require.Equal(t, big.NewInt(1_000_500_000), toBaseUnits(decimal.RequireFromString("1000.5"), 6))
	require.Equal(t, big.NewInt(1_000_000), toBaseUnits(decimal.RequireFromString("1.0000009"), 6))
	require.Equal(t, "1000.5", fromBaseUnits(big.NewInt(1_000_500_000), 6))
	require.Equal(t, "0.000001", fromBaseUnits(big.NewInt(1), 6))
}

func TestSlippageFactor(t *testing.T) {
	require.True(t, slippageFactor(100).Equal(decimal.RequireFromString("0.99")))
	require.True(t, slippageFactor(0).Equal(decimal.NewFromInt(1)))
	require.True(t, slippageFactor(250).Equal(decimal.RequireFromString("0.975")))
}
