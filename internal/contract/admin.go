package contract

import (
	"context"
	"fmt"
)

func (c *Contract) authorizeOwner(ctx context.Context, caller AccountID) (*Admin, error) {
	admin, err := c.loadAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if admin.Owner != caller {
		return nil, ErrNotContractOwner
	}
	return admin, nil
}

// SetFee updates the registration fee. Owner only.
func (c *Contract) SetFee(ctx context.Context, env Env, fee int64) error {
	admin, err := c.authorizeOwner(ctx, env.Caller)
	if err != nil {
		return err
	}
	admin.RegistrationFee = fee
	return c.saveAdmin(ctx, admin)
}

// TransferContractOwnership hands the contract to a new owner account. The
// accrued fee balance stays with the contract, redeemable by the new owner.
func (c *Contract) TransferContractOwnership(ctx context.Context, env Env, newOwner AccountID) error {
	admin, err := c.authorizeOwner(ctx, env.Caller)
	if err != nil {
		return err
	}
	admin.Owner = newOwner
	return c.saveAdmin(ctx, admin)
}

// OwnerWithdrawBalance pays the accrued fee balance out to the owner. The
// stored balance is zeroed only after the transfer is confirmed, the same
// rule WithdrawBalance follows for ledger balances.
func (c *Contract) OwnerWithdrawBalance(ctx context.Context, env Env) error {
	admin, err := c.authorizeOwner(ctx, env.Caller)
	if err != nil {
		return err
	}
	if admin.OwnerBalance == 0 {
		return ErrNoBalance
	}
	if err := c.transfer(env, admin.Owner, admin.OwnerBalance); err != nil {
		return fmt.Errorf("%w: %v", ErrWithdrawFailed, err)
	}
	admin.OwnerBalance = 0
	return c.saveAdmin(ctx, admin)
}

// SetCode asks the host to replace the contract's executable code. Storage is
// keyed explicitly (see keys.go), so the upgraded build reads the same bytes
// under the same layout.
func (c *Contract) SetCode(ctx context.Context, env Env, ref string) error {
	if _, err := c.authorizeOwner(ctx, env.Caller); err != nil {
		return err
	}
	if env.ReplaceCode == nil {
		return fmt.Errorf("%w: host code replacement unavailable", ErrUpgradeFailed)
	}
	if err := env.ReplaceCode(ref); err != nil {
		return fmt.Errorf("%w: %v", ErrUpgradeFailed, err)
	}
	return nil
}
