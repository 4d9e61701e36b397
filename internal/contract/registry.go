package contract

import (
	"context"
)

// CheckFee returns the current registration fee.
func (c *Contract) CheckFee(ctx context.Context) (int64, error) {
	admin, err := c.loadAdmin(ctx)
	if err != nil {
		return 0, err
	}
	return admin.RegistrationFee, nil
}

// RegisterUsername registers a new username for the caller, funded by the
// value attached to the invocation. The attached value is never discarded:
// the fee portion accrues to the administration balance, any excess is
// credited to the caller, and on a shortfall the whole attached value is
// credited to the caller before the call fails. That credit stays committed
// even though registration does not proceed.
func (c *Contract) RegisterUsername(ctx context.Context, env Env, name Username) error {
	normalized, err := NormalizeUsername(name)
	if err != nil {
		return err
	}
	taken, err := c.kv.Contains(ctx, nameKey(normalized))
	if err != nil {
		return err
	}
	if taken {
		return ErrNameTaken
	}

	admin, err := c.loadAdmin(ctx)
	if err != nil {
		return err
	}
	fee := admin.RegistrationFee
	if env.Transferred < fee {
		if err := c.creditAccount(ctx, env.Caller, env.Transferred); err != nil {
			return err
		}
		return &PaymentError{
			Received: env.Transferred,
			Required: fee,
			Missing:  fee - env.Transferred,
		}
	}
	admin.OwnerBalance += fee
	if err := c.saveAdmin(ctx, admin); err != nil {
		return err
	}
	if excess := env.Transferred - fee; excess > 0 {
		if err := c.creditAccount(ctx, env.Caller, excess); err != nil {
			return err
		}
	}

	record := &NameRecord{Owner: env.Caller, FeePaidAt: env.Now}
	if err := c.saveName(ctx, normalized, record); err != nil {
		return err
	}
	return c.appendUsername(ctx, env.Caller, normalized)
}

// appendUsername adds the name to the account's username list, creating the
// ledger entry if needed. Kept in the same invocation as the registry write so
// the two sides of the ownership index never drift.
func (c *Contract) appendUsername(ctx context.Context, id AccountID, name Username) error {
	account, ok, err := c.loadAccount(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		account = new(Account)
	}
	account.Usernames = append(account.Usernames, name)
	return c.saveAccount(ctx, id, account)
}

// removeUsername drops the name from the account's username list. Missing
// entries are ignored.
func (c *Contract) removeUsername(ctx context.Context, id AccountID, name Username) error {
	account, ok, err := c.loadAccount(ctx, id)
	if err != nil || !ok {
		return err
	}
	for i, owned := range account.Usernames {
		if owned == name {
			account.Usernames = append(account.Usernames[:i], account.Usernames[i+1:]...)
			break
		}
	}
	return c.saveAccount(ctx, id, account)
}

// GetUsernames lists the usernames owned by the caller.
func (c *Contract) GetUsernames(ctx context.Context, env Env) ([]Username, error) {
	account, ok, err := c.loadAccount(ctx, env.Caller)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoAccount
	}
	if len(account.Usernames) == 0 {
		return nil, ErrNoNames
	}
	return account.Usernames, nil
}

// SendMessage appends a message to the recipient's mailbox. The sender is a
// username the caller owns, not the account itself.
func (c *Contract) SendMessage(ctx context.Context, env Env, from, to Username, mt MessageType, content []byte) error {
	if _, err := c.authorizeName(ctx, env.Caller, from); err != nil {
		return err
	}
	recipient, ok, err := c.loadName(ctx, to)
	if err != nil {
		return err
	}
	if !ok {
		return nameNonexistent(to)
	}
	recipient.Mailbox = append(recipient.Mailbox, Message{
		From:      from,
		Type:      mt,
		Content:   content,
		Hash:      Fingerprint(env.BlockHeight, content),
		Timestamp: env.Now,
	})
	return c.saveName(ctx, to, recipient)
}

// GetAllMessages returns the mailbox of a username the caller owns.
func (c *Contract) GetAllMessages(ctx context.Context, env Env, belongingTo Username) ([]Message, error) {
	record, err := c.authorizeName(ctx, env.Caller, belongingTo)
	if err != nil {
		return nil, err
	}
	if len(record.Mailbox) == 0 {
		return nil, ErrNoMessages
	}
	return record.Mailbox, nil
}

// DeleteMessage removes the first message whose hash matches. The fingerprint
// is not unique, so later duplicates are deliberately left alone; deleting
// them takes one call each.
func (c *Contract) DeleteMessage(ctx context.Context, env Env, belongingTo Username, hash Hash) error {
	record, err := c.authorizeName(ctx, env.Caller, belongingTo)
	if err != nil {
		return err
	}
	if record.Mailbox == nil {
		return ErrNoMessages
	}
	for i, message := range record.Mailbox {
		if message.Hash == hash {
			record.Mailbox = append(record.Mailbox[:i], record.Mailbox[i+1:]...)
			return c.saveName(ctx, belongingTo, record)
		}
	}
	return ErrMessageNonexistent
}

// DeleteAllMessages empties the mailbox of a username the caller owns.
func (c *Contract) DeleteAllMessages(ctx context.Context, env Env, belongingTo Username) error {
	record, err := c.authorizeName(ctx, env.Caller, belongingTo)
	if err != nil {
		return err
	}
	record.Mailbox = nil
	return c.saveName(ctx, belongingTo, record)
}
