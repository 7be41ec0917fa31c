package swap

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/lemx/swapd/internal/chain"
	"github.com/lemx/swapd/internal/util"
)

// QuoteReader is the read-only variant of the swap flow: it returns an
// advisory rate without submitting anything. Stateless and cache-free;
// any RPC failure yields a nil quote instead of an error.
type QuoteReader struct {
	client  chain.Client
	adapter PoolAdapter
}

// NewQuoteReader binds the reader to a pool adapter.
func NewQuoteReader(client chain.Client, adapter PoolAdapter) *QuoteReader {
	return &QuoteReader{
		client:  client,
		adapter: adapter,
	}
}

// GetQuote returns the advisory quote for the given human-unit amount,
// or nil when the amount is invalid or any chain read fails.
func (r *QuoteReader) GetQuote(ctx context.Context, amountIn string) *RateQuote {
	log := util.LogFromContext(ctx)

	amount, err := decimal.NewFromString(amountIn)
	if err != nil || !amount.IsPositive() {
		log.Debug().Str("amount", amountIn).Msg("Quote request with invalid amount")
		return nil
	}

	quote, err := r.read(ctx, amount)
	if err != nil {
		log.Warn().Err(err).Str("pool", r.adapter.Name()).Msg("Quote read failed")
		return nil
	}

	return quote
}

func (r *QuoteReader) read(ctx context.Context, amount decimal.Decimal) (*RateQuote, error) {
	tokenIn := chain.NewToken(r.adapter.TokenIn(), r.client)
	tokenOut := chain.NewToken(r.adapter.TokenOut(), r.client)

	srcDecimals, err := tokenIn.Decimals(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read source decimals")
	}
	destDecimals, err := tokenOut.Decimals(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read destination decimals")
	}

	amountOut, err := r.adapter.Quote(ctx, toBaseUnits(amount, srcDecimals))
	if err != nil {
		return nil, errors.Wrap(err, "failed to quote")
	}

	out := decimal.NewFromBigInt(amountOut, -int32(destDecimals))

	return &RateQuote{
		AmountIn:       amount.String(),
		AmountOut:      out.String(),
		ImpliedRate:    out.Div(amount).String(),
		SourceDecimals: srcDecimals,
		DestDecimals:   destDecimals,
	}, nil
}
