package swap

// State tracks the per-request progression of the guarded swap
// sequence. Every edge is a strict forward step or an abort to
// StateFailed; no step is ever retried.
type State string

const (
	StateValidating      State = "VALIDATING"
	StateCheckingBalance State = "CHECKING_BALANCE"
	StateQuoting         State = "QUOTING"
	StateApproving       State = "APPROVING"
	StateSwapping        State = "SWAPPING"
	StateConfirmed       State = "CONFIRMED"
	StateFailed          State = "FAILED"
)

// Request is a single swap request as received from the caller.
type Request struct {
	// Amount is the input amount as a decimal string in human units.
	Amount string

	// RecipientAddress receives the swap output where the pool
	// supports a recipient parameter.
	RecipientAddress string

	// CounterpartyAddress is the pool-integration contract whose
	// post-swap balance is reported as the observed amount out.
	CounterpartyAddress string
}

// Outcome is the normalized report for one request. It is created once
// per request and not mutated after the sequence reaches a terminal
// state.
type Outcome struct {
	Success       bool
	State         State
	ApproveTxHash string
	TxHash        string
	BlockNumber   uint64
	GasUsed       uint64

	// AmountOut is the observed post-swap balance of the counterparty
	// address, formatted in human units of the output token. It is the
	// actually-received amount, not the pre-computed quote.
	AmountOut string

	// ExpectedOut is the advisory quote in output-token smallest
	// units, or the 1:1 fallback when the quote call failed.
	ExpectedOut string

	Code         FailCode
	ErrorMessage string
}

// RateQuote is an advisory exchange rate. It is best-effort and never
// binding.
type RateQuote struct {
	AmountIn       string `json:"amountIn"`
	AmountOut      string `json:"amountOut"`
	ImpliedRate    string `json:"impliedRate"`
	SourceDecimals uint8  `json:"sourceDecimals"`
	DestDecimals   uint8  `json:"destDecimals"`
}
