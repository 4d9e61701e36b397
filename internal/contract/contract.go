// Package contract implements the username / messaging / sale-offer state
// machine. Every exported operation is one invocation: it authenticates the
// caller from the supplied Env, mutates the backing store in a fixed order and
// returns a typed error on failure. Mutations performed before a failing step
// stay committed; that partial-commit behavior is part of the operation
// contracts, not an accident.
package contract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/punchamoorthee/transmitter/internal/store"
)

type Contract struct {
	kv store.KV
}

func New(kv store.KV) *Contract {
	return &Contract{kv: kv}
}

// Init writes the administration record on first deployment. Re-running
// against an initialised store is a no-op so restarts never reset the owner
// or the fee.
func (c *Contract) Init(ctx context.Context, owner AccountID, registrationFee int64) error {
	ok, err := c.kv.Contains(ctx, []byte(adminKey))
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return c.saveAdmin(ctx, &Admin{Owner: owner, RegistrationFee: registrationFee})
}

// --- store accessors ---

func (c *Contract) getJSON(ctx context.Context, key []byte, out interface{}) (bool, error) {
	data, ok, err := c.kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

func (c *Contract) setJSON(ctx context.Context, key []byte, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return c.kv.Set(ctx, key, data)
}

func (c *Contract) loadAccount(ctx context.Context, id AccountID) (*Account, bool, error) {
	account := new(Account)
	ok, err := c.getJSON(ctx, accountKey(id), account)
	if err != nil || !ok {
		return nil, false, err
	}
	return account, true, nil
}

func (c *Contract) saveAccount(ctx context.Context, id AccountID, account *Account) error {
	return c.setJSON(ctx, accountKey(id), account)
}

func (c *Contract) loadName(ctx context.Context, name Username) (*NameRecord, bool, error) {
	record := new(NameRecord)
	ok, err := c.getJSON(ctx, nameKey(name), record)
	if err != nil || !ok {
		return nil, false, err
	}
	return record, true, nil
}

func (c *Contract) saveName(ctx context.Context, name Username, record *NameRecord) error {
	return c.setJSON(ctx, nameKey(name), record)
}

func (c *Contract) loadSales(ctx context.Context) ([]SaleOffer, error) {
	var sales []SaleOffer
	if _, err := c.getJSON(ctx, []byte(salesKey), &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (c *Contract) saveSales(ctx context.Context, sales []SaleOffer) error {
	return c.setJSON(ctx, []byte(salesKey), sales)
}

func (c *Contract) loadAdmin(ctx context.Context) (*Admin, error) {
	admin := new(Admin)
	ok, err := c.getJSON(ctx, []byte(adminKey), admin)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("administration record missing: contract not initialised")
	}
	return admin, nil
}

func (c *Contract) saveAdmin(ctx context.Context, admin *Admin) error {
	return c.setJSON(ctx, []byte(adminKey), admin)
}

// authorizeName resolves a username and checks the caller owns it.
func (c *Contract) authorizeName(ctx context.Context, caller AccountID, name Username) (*NameRecord, error) {
	record, ok, err := c.loadName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nameNonexistent(name)
	}
	if record.Owner != caller {
		return nil, wrongAccount(name)
	}
	return record, nil
}
