package contract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSellUsernameTo(t *testing.T) {
	c := newTestContract(t)
	ctx := context.Background()
	register(t, c, "acct-alice", "alice-name")

	require.NoError(t, c.SellUsernameTo(ctx, call("acct-alice", 0), "alice-name", "acct-bob", 100))

	err := c.SellUsernameTo(ctx, call("acct-alice", 0), "alice-name", "acct-carol", 50)
	require.ErrorIs(t, err, ErrUsernameAlreadyInSale)

	// Cancel frees the slot for a new offer.
	require.NoError(t, c.CancelSale(ctx, call("acct-alice", 0), "alice-name"))
	require.NoError(t, c.SellUsernameTo(ctx, call("acct-alice", 0), "alice-name", "acct-carol", 50))
}

func TestSellUsernameAuthorization(t *testing.T) {
	c := newTestContract(t)
	ctx := context.Background()
	register(t, c, "acct-alice", "alice-name")

	err := c.SellUsernameTo(ctx, call("acct-mallory", 0), "alice-name", "acct-bob", 100)
	require.ErrorIs(t, err, ErrWrongAccount)

	err = c.SellUsernameTo(ctx, call("acct-alice", 0), "ghost", "acct-bob", 100)
	require.ErrorIs(t, err, ErrNameNonexistent)
}

func TestCancelSaleErrors(t *testing.T) {
	c := newTestContract(t)
	ctx := context.Background()
	register(t, c, "acct-alice", "alice-name")

	require.ErrorIs(t, c.CancelSale(ctx, call("acct-alice", 0), "alice-name"), ErrUsernameNotInSale)
	require.ErrorIs(t, c.CancelSale(ctx, call("acct-mallory", 0), "alice-name"), ErrWrongAccount)
	require.ErrorIs(t, c.CancelSale(ctx, call("acct-alice", 0), "ghost"), ErrNameNonexistent)
}

func TestGetSalePropositions(t *testing.T) {
	c := newTestContract(t)
	ctx := context.Background()
	register(t, c, "acct-alice", "alice-one")
	register(t, c, "acct-alice", "alice-two")
	register(t, c, "acct-carol", "carol")

	require.NoError(t, c.SellUsernameTo(ctx, call("acct-alice", 0), "alice-one", "acct-bob", 100))
	require.NoError(t, c.SellUsernameTo(ctx, call("acct-alice", 0), "alice-two", "acct-carol", 75))

	propositions, err := c.GetSalePropositions(ctx, call("acct-bob", 0))
	require.NoError(t, err)
	require.Len(t, propositions, 1)
	require.Equal(t, Username("alice-one"), propositions[0].Username)
	require.Equal(t, int64(100), propositions[0].Price)

	_, err = c.GetSalePropositions(ctx, call("acct-nobody", 0))
	require.ErrorIs(t, err, ErrNoSalesForYou)
}

func TestBuyUsernameSettlement(t *testing.T) {
	c := newTestContract(t)
	ctx := context.Background()
	register(t, c, "acct-alice", "alice-name")
	require.NoError(t, c.SellUsernameTo(ctx, call("acct-alice", 0), "alice-name", "acct-bob", 100))

	var paidTo AccountID
	var paidAmount int64
	env := call("acct-bob", 100)
	env.Transfer = func(to AccountID, amount int64) error {
		paidTo = to
		paidAmount = amount
		return nil
	}
	require.NoError(t, c.BuyUsername(ctx, env, "alice-name"))

	require.Equal(t, AccountID("acct-alice"), paidTo)
	require.Equal(t, int64(100), paidAmount)

	record, ok, err := c.loadName(ctx, "alice-name")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, AccountID("acct-bob"), record.Owner)
	requireOwnershipInvariant(t, c, "acct-alice")
	requireOwnershipInvariant(t, c, "acct-bob")

	// The settled offer is gone.
	_, err = c.GetSalePropositions(ctx, call("acct-bob", 0))
	require.ErrorIs(t, err, ErrNoSalesForYou)
}

func TestBuyUsernameExcessCreditsBuyer(t *testing.T) {
	c := newTestContract(t)
	ctx := context.Background()
	register(t, c, "acct-alice", "alice-name")
	require.NoError(t, c.SellUsernameTo(ctx, call("acct-alice", 0), "alice-name", "acct-bob", 100))

	require.NoError(t, c.BuyUsername(ctx, call("acct-bob", 130), "alice-name"))
	require.Equal(t, int64(30), balanceOf(t, c, "acct-bob"))
}

func TestBuyUsernameShortfallCommitsCreditKeepsOffer(t *testing.T) {
	c := newTestContract(t)
	ctx := context.Background()
	register(t, c, "acct-alice", "alice-name")
	require.NoError(t, c.SellUsernameTo(ctx, call("acct-alice", 0), "alice-name", "acct-bob", 100))

	err := c.BuyUsername(ctx, call("acct-bob", 40), "alice-name")
	require.ErrorIs(t, err, ErrPaymentFailed)

	var paymentErr *PaymentError
	require.ErrorAs(t, err, &paymentErr)
	require.Equal(t, int64(40), paymentErr.Received)
	require.Equal(t, int64(100), paymentErr.Required)
	require.Equal(t, int64(60), paymentErr.Missing)

	// Ownership untouched, offer still open, attached value credited.
	record, ok, lerr := c.loadName(ctx, "alice-name")
	require.NoError(t, lerr)
	require.True(t, ok)
	require.Equal(t, AccountID("acct-alice"), record.Owner)
	require.Equal(t, int64(40), balanceOf(t, c, "acct-bob"))

	propositions, perr := c.GetSalePropositions(ctx, call("acct-bob", 0))
	require.NoError(t, perr)
	require.Len(t, propositions, 1)
}

func TestBuyUsernameFailedHostTransferCreditsSeller(t *testing.T) {
	c := newTestContract(t)
	ctx := context.Background()
	register(t, c, "acct-alice", "alice-name")
	require.NoError(t, c.SellUsernameTo(ctx, call("acct-alice", 0), "alice-name", "acct-bob", 100))

	// Transfer-safety wrapper: the sale still settles, the seller's proceeds
	// land on their ledger balance instead.
	require.NoError(t, c.BuyUsername(ctx, callNoTransfer("acct-bob", 100), "alice-name"))

	require.Equal(t, int64(100), balanceOf(t, c, "acct-alice"))
	record, ok, err := c.loadName(ctx, "alice-name")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, AccountID("acct-bob"), record.Owner)
}

func TestBuyUsernameErrors(t *testing.T) {
	c := newTestContract(t)
	ctx := context.Background()
	register(t, c, "acct-alice", "alice-name")
	require.NoError(t, c.SellUsernameTo(ctx, call("acct-alice", 0), "alice-name", "acct-bob", 100))

	require.ErrorIs(t, c.BuyUsername(ctx, call("acct-bob", 100), "ghost"), ErrUsernameNotInSale)
	require.ErrorIs(t, c.BuyUsername(ctx, call("acct-mallory", 100), "alice-name"), ErrWrongAccount)
}

func TestRefuseToBuy(t *testing.T) {
	c := newTestContract(t)
	ctx := context.Background()
	register(t, c, "acct-alice", "alice-name")
	require.NoError(t, c.SellUsernameTo(ctx, call("acct-alice", 0), "alice-name", "acct-bob", 100))

	require.ErrorIs(t, c.RefuseToBuy(ctx, call("acct-mallory", 0), "alice-name"), ErrWrongAccount)
	require.NoError(t, c.RefuseToBuy(ctx, call("acct-bob", 0), "alice-name"))
	require.ErrorIs(t, c.RefuseToBuy(ctx, call("acct-bob", 0), "alice-name"), ErrUsernameNotInSale)

	// Ownership is untouched by a refusal; the seller may offer again.
	require.NoError(t, c.SellUsernameTo(ctx, call("acct-alice", 0), "alice-name", "acct-carol", 80))
}
