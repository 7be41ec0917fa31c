package types

import "github.com/go-openapi/strfmt"

// PostSwapPayload is the request body shared by the Curve withdrawal
// and Uniswap bridge routes. Fields are pointers so the executor can
// distinguish missing values and classify them itself.
type PostSwapPayload struct {
	Amount                *string `json:"amount"`
	RecipientAddress      *string `json:"recipientAddress"`
	PoolWithdrawerAddress *string `json:"poolWithdrawerAddress"`
}

// SwapOutcomeResponse is the normalized swap report returned by the
// pool-withdrawer routes.
type SwapOutcomeResponse struct {
	Success                 bool            `json:"success"`
	State                   string          `json:"state"`
	TransactionHash         string          `json:"transactionHash,omitempty"`
	ApprovalTransactionHash string          `json:"approvalTransactionHash,omitempty"`
	BlockNumber             uint64          `json:"blockNumber,omitempty"`
	GasUsed                 uint64          `json:"gasUsed,omitempty"`
	AmountOut               string          `json:"amountOut,omitempty"`
	ExpectedOut             string          `json:"expectedOut,omitempty"`
	Code                    string          `json:"code,omitempty"`
	Error                   string          `json:"error,omitempty"`
	Suggestion              string          `json:"suggestion,omitempty"`
	Timestamp               strfmt.DateTime `json:"timestamp"`
}

// ExchangeRateResponse is the advisory quote body.
type ExchangeRateResponse struct {
	Success        bool            `json:"success"`
	AmountIn       string          `json:"amountIn,omitempty"`
	AmountOut      string          `json:"amountOut,omitempty"`
	ImpliedRate    string          `json:"impliedRate,omitempty"`
	SourceDecimals uint8           `json:"sourceDecimals,omitempty"`
	DestDecimals   uint8           `json:"destDecimals,omitempty"`
	Error          string          `json:"error,omitempty"`
	Timestamp      strfmt.DateTime `json:"timestamp"`
}

// PoolItem is one entry of the static pool catalog.
type PoolItem struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Address  string `json:"address"`
	TokenIn  string `json:"tokenIn"`
	TokenOut string `json:"tokenOut"`
	Endpoint string `json:"endpoint"`
}

// AvailablePoolsResponse lists the configured pools.
type AvailablePoolsResponse struct {
	Pools []*PoolItem `json:"pools"`
}
