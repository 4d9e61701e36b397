package contract

import (
	"context"
	"errors"
)

// TransferFunc moves value out of the contract to an external account. It is
// supplied by the host; a nil func means the host offers no transfer primitive
// and every attempt fails.
type TransferFunc func(to AccountID, amount int64) error

// ReplaceCodeFunc swaps the contract's executable code for the referenced
// build, leaving storage untouched.
type ReplaceCodeFunc func(ref string) error

// Env carries the per-invocation facts the host resolves before the core is
// entered: who is calling, how much value rides on the call, and the host
// primitives the operation may need.
type Env struct {
	Caller      AccountID
	Transferred int64 // value attached to the invocation
	BlockHeight uint64
	Now         int64 // unix seconds

	Transfer    TransferFunc
	ReplaceCode ReplaceCodeFunc
}

var errNoTransferHost = errors.New("host transfer primitive unavailable")

// transfer attempts the external value transfer exactly once. No retries, no
// fallback; callers decide what a failure means.
func (c *Contract) transfer(env Env, to AccountID, amount int64) error {
	if env.Transfer == nil {
		return errNoTransferHost
	}
	return env.Transfer(to, amount)
}

// pay attempts the external transfer and, when it fails, credits the amount to
// the recipient's ledger balance instead. Value is never silently destroyed:
// either the host-level transfer succeeded or the ledger reflects the amount.
// The returned flag reports whether the payment degraded to a credit.
func (c *Contract) pay(ctx context.Context, env Env, to AccountID, amount int64) (credited bool, err error) {
	if amount == 0 {
		return false, nil
	}
	if err := c.transfer(env, to, amount); err != nil {
		if err := c.creditAccount(ctx, to, amount); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
