package crud

import (
	"context"
	"time"
)

// An Option modifies a single operation.
type Option func(*options)

type options struct {
	querier Querier
	timeout time.Duration
	adapter Adapter
}

// WithTx runs the operation using tx (typically a *sql.Tx) instead of
// the Querier passed to the operation.
func WithTx(tx Querier) Option {
	return func(o *options) {
		if tx != nil {
			o.querier = tx
		}
	}
}

// WithTimeout cancels the operation if it does not complete within d.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithAdapter sets the adapter used by Insert to retrieve generated keys.
func WithAdapter(adapter Adapter) Option {
	return func(o *options) {
		o.adapter = adapter
	}
}

func newOptions(db Querier, opts []Option) *options {
	o := &options{querier: db}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if o.timeout > 0 {
		return context.WithTimeout(ctx, o.timeout)
	}
	return ctx, func() {}
}
