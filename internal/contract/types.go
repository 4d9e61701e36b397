package contract

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"lukechampine.com/blake3"
)

// AccountID identifies an external account as resolved by the host before the
// core is entered.
type AccountID string

// Username is a caller-chosen identifier owned by exactly one account.
type Username string

const usernameMaxLength = 64

var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

// NormalizeUsername lowercases and validates the supplied username. The
// normalised form is what gets stored and looked up.
func NormalizeUsername(name Username) (Username, error) {
	lower := strings.ToLower(strings.TrimSpace(string(name)))
	if lower == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if len(lower) > usernameMaxLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidName, usernameMaxLength)
	}
	if !usernamePattern.MatchString(lower) {
		return "", fmt.Errorf("%w: allowed characters are [a-z0-9._-]", ErrInvalidName)
	}
	return Username(lower), nil
}

// Hash is a 256-bit message fingerprint.
type Hash [32]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(h[:])), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("decode hash: %w", err)
	}
	if len(decoded) != len(h) {
		return fmt.Errorf("hash must be 32 bytes (got %d)", len(decoded))
	}
	copy(h[:], decoded)
	return nil
}

// Fingerprint derives the message hash from the block height at send time and
// the message content. It is an ordinal fingerprint, not a unique key: two
// messages with equal content sent at the same height collide.
func Fingerprint(height uint64, content []byte) Hash {
	buf := make([]byte, 8+len(content))
	binary.BigEndian.PutUint64(buf, height)
	copy(buf[8:], content)
	return blake3.Sum256(buf)
}

// MessageKind discriminates the message payload variants.
type MessageKind uint8

const (
	KindText MessageKind = iota
	KindEmail
	KindReplyTo
	KindJSON
	KindCustom
)

func (k MessageKind) Valid() bool {
	switch k {
	case KindText, KindEmail, KindReplyTo, KindJSON, KindCustom:
		return true
	default:
		return false
	}
}

func (k MessageKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEmail:
		return "email"
	case KindReplyTo:
		return "reply_to"
	case KindJSON:
		return "json"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

func (k MessageKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid message kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *MessageKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "text":
		*k = KindText
	case "email":
		*k = KindEmail
	case "reply_to":
		*k = KindReplyTo
	case "json":
		*k = KindJSON
	case "custom":
		*k = KindCustom
	default:
		return fmt.Errorf("unknown message kind %q", text)
	}
	return nil
}

// MessageType is the tagged variant attached to every message. Only the field
// matching the kind is meaningful.
type MessageType struct {
	Kind    MessageKind `json:"kind"`
	Subject string      `json:"subject,omitempty"`  // KindEmail
	ReplyTo *Hash       `json:"reply_to,omitempty"` // KindReplyTo
	Tag     string      `json:"tag,omitempty"`      // KindCustom
}

// Message is one mailbox entry. From names the sending username, never the
// sending account.
type Message struct {
	From      Username    `json:"from"`
	Type      MessageType `json:"type"`
	Content   []byte      `json:"content"`
	Hash      Hash        `json:"hash"`
	Timestamp int64       `json:"timestamp"`
}

// Account is the ledger entry for one external account.
type Account struct {
	Usernames []Username `json:"usernames,omitempty"`
	Balance   int64      `json:"balance"`
}

// NameRecord is the registry entry for one username.
type NameRecord struct {
	Owner     AccountID `json:"owner"`
	Mailbox   []Message `json:"mailbox,omitempty"`
	FeePaidAt int64     `json:"fee_paid_at"`
}

// SaleOffer is a pending proposal to sell a username to a named account.
type SaleOffer struct {
	Username Username  `json:"username"`
	To       AccountID `json:"to"`
	Price    int64     `json:"price"`
}

// Admin is the administration record: contract owner, the owner's accrued fee
// balance, and the current registration fee.
type Admin struct {
	Owner           AccountID `json:"owner"`
	OwnerBalance    int64     `json:"owner_balance"`
	RegistrationFee int64     `json:"registration_fee"`
}
