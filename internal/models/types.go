package models

import "github.com/punchamoorthee/transmitter/internal/contract"

// RegisterRequest asks the contract to register a username. AttachedValue is
// the value the host attaches to the invocation, covering the fee.
type RegisterRequest struct {
	Name          contract.Username `json:"name"`
	AttachedValue int64             `json:"attached_value"`
}

// SendMessageRequest sends a message from one of the caller's usernames.
type SendMessageRequest struct {
	From    contract.Username    `json:"from"`
	To      contract.Username    `json:"to"`
	Type    contract.MessageType `json:"type"`
	Content []byte               `json:"content"`
}

// SellRequest offers a username for sale to a specific account.
type SellRequest struct {
	Username contract.Username  `json:"username"`
	To       contract.AccountID `json:"to"`
	Price    int64              `json:"price"`
}

// BuyRequest settles a sale offer addressed to the caller.
type BuyRequest struct {
	AttachedValue int64 `json:"attached_value"`
}

// SetFeeRequest updates the registration fee. Owner only.
type SetFeeRequest struct {
	Fee int64 `json:"fee"`
}

// TransferOwnershipRequest hands the contract to a new owner.
type TransferOwnershipRequest struct {
	NewOwner contract.AccountID `json:"new_owner"`
}

// SetCodeRequest points the host at a new code build.
type SetCodeRequest struct {
	Ref string `json:"ref"`
}

// PaymentErrorBody is the structured body returned for payment shortfalls.
type PaymentErrorBody struct {
	Error    string `json:"error"`
	Received int64  `json:"received"`
	Required int64  `json:"required"`
	Missing  int64  `json:"missing"`
}
