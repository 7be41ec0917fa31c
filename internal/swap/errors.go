package swap

import "fmt"

// FailCode classifies why a swap request failed.
type FailCode string

const (
	FailInvalidRequest      FailCode = "INVALID_REQUEST"
	FailInvalidAmount       FailCode = "INVALID_AMOUNT"
	FailInvalidAddress      FailCode = "INVALID_ADDRESS"
	FailInsufficientGas     FailCode = "INSUFFICIENT_GAS"
	FailInsufficientBalance FailCode = "INSUFFICIENT_BALANCE"
	FailRPCError            FailCode = "RPC_ERROR"
	FailContractRevert      FailCode = "CONTRACT_REVERT"
	FailInternal            FailCode = "INTERNAL_ERROR"
)

// CallerFault reports whether the failure was caused by the caller's
// input, which maps to a 4xx response.
func (c FailCode) CallerFault() bool {
	switch c {
	case FailInvalidRequest, FailInvalidAmount, FailInvalidAddress:
		return true
	default:
		return false
	}
}

// Suggestion returns the operator-facing hint included in error
// responses for non-caller failures.
func (c FailCode) Suggestion() string {
	switch c {
	case FailInsufficientGas:
		return "Fund the signing account with native tokens to cover gas."
	case FailInsufficientBalance:
		return "Fund the signing account with the input token or lower the amount."
	case FailContractRevert:
		return "The pool rejected the exchange. A previously confirmed approval may remain as a dangling allowance; check slippage and pool liquidity before retrying."
	case FailRPCError:
		return "The chain RPC endpoint failed. Verify connectivity and retry with a fresh request."
	case FailInternal:
		return "The request could not be encoded for the pool contract. Check the configured pool and token addresses; no chain RPC was involved."
	default:
		return ""
	}
}

// Error is a classified swap failure.
type Error struct {
	Code    FailCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code FailCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
