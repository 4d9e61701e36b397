package contract

import (
	"context"
	"fmt"
)

// creditAccount adds delta to the account's balance, creating the ledger entry
// if it does not exist yet.
func (c *Contract) creditAccount(ctx context.Context, id AccountID, delta int64) error {
	account, ok, err := c.loadAccount(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		account = new(Account)
	}
	account.Balance += delta
	return c.saveAccount(ctx, id, account)
}

// GetBalance returns the caller's redeemable ledger balance.
func (c *Contract) GetBalance(ctx context.Context, env Env) (int64, error) {
	account, ok, err := c.loadAccount(ctx, env.Caller)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNoAccount
	}
	return account.Balance, nil
}

// WithdrawBalance pays the caller's full ledger balance out through the host
// transfer. The stored balance is zeroed only after the transfer is confirmed;
// a failed transfer leaves it untouched.
func (c *Contract) WithdrawBalance(ctx context.Context, env Env) error {
	account, ok, err := c.loadAccount(ctx, env.Caller)
	if err != nil {
		return err
	}
	if !ok || account.Balance == 0 {
		return ErrNoBalance
	}
	if err := c.transfer(env, env.Caller, account.Balance); err != nil {
		return fmt.Errorf("%w: %v", ErrWithdrawFailed, err)
	}
	account.Balance = 0
	return c.saveAccount(ctx, env.Caller, account)
}

// CloseAccount pays out any remaining balance, removes every username the
// account owns from the registry and deletes the ledger entry. A failed payout
// aborts before any other mutation.
func (c *Contract) CloseAccount(ctx context.Context, env Env) error {
	account, ok, err := c.loadAccount(ctx, env.Caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoAccount
	}
	if account.Balance > 0 {
		if err := c.transfer(env, env.Caller, account.Balance); err != nil {
			return fmt.Errorf("%w: %v", ErrCloseAccountFailed, err)
		}
	}
	for _, name := range account.Usernames {
		if err := c.kv.Remove(ctx, nameKey(name)); err != nil {
			return err
		}
	}
	return c.kv.Remove(ctx, accountKey(env.Caller))
}
