package contract

import (
	"errors"
	"fmt"
)

// Every fallible operation returns one of these sentinels, possibly wrapped
// with context. Callers match with errors.Is.
var (
	// not-found
	ErrNameNonexistent    = errors.New("name nonexistent")
	ErrNoAccount          = errors.New("no account")
	ErrNoNames            = errors.New("no names")
	ErrNoMessages         = errors.New("no messages")
	ErrMessageNonexistent = errors.New("message nonexistent")
	ErrUsernameNotInSale  = errors.New("username not in sale")
	ErrNoSalesForYou      = errors.New("no sales for you")

	// authorization
	ErrWrongAccount     = errors.New("wrong account")
	ErrNotContractOwner = errors.New("not contract owner")

	// conflict
	ErrNameTaken             = errors.New("name taken")
	ErrUsernameAlreadyInSale = errors.New("username already in sale")

	// value / payment
	ErrInvalidName         = errors.New("invalid name")
	ErrPaymentFailed       = errors.New("payment failed")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoBalance           = errors.New("no balance")

	// external-call failure
	ErrWithdrawFailed     = errors.New("withdraw failed")
	ErrCloseAccountFailed = errors.New("close account failed")
	ErrUpgradeFailed      = errors.New("upgrade failed")
)

// PaymentError reports a value shortfall. The attached value has already been
// credited to the caller's ledger balance when this is returned.
type PaymentError struct {
	Received int64
	Required int64
	Missing  int64
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed: received %d, required %d, missing %d",
		e.Received, e.Required, e.Missing)
}

func (e *PaymentError) Unwrap() error {
	return ErrPaymentFailed
}

func wrongAccount(name Username) error {
	return fmt.Errorf("%w: %q", ErrWrongAccount, name)
}

func nameNonexistent(name Username) error {
	return fmt.Errorf("%w: %q", ErrNameNonexistent, name)
}
