package contract

import (
	"context"
)

// SellUsernameTo puts one of the caller's usernames up for sale to a specific
// account. At most one outstanding offer per username.
func (c *Contract) SellUsernameTo(ctx context.Context, env Env, name Username, to AccountID, price int64) error {
	if _, err := c.authorizeName(ctx, env.Caller, name); err != nil {
		return err
	}
	sales, err := c.loadSales(ctx)
	if err != nil {
		return err
	}
	for _, offer := range sales {
		if offer.Username == name {
			return ErrUsernameAlreadyInSale
		}
	}
	sales = append(sales, SaleOffer{Username: name, To: to, Price: price})
	return c.saveSales(ctx, sales)
}

// CancelSale withdraws the caller's outstanding offer for the username.
func (c *Contract) CancelSale(ctx context.Context, env Env, name Username) error {
	if _, err := c.authorizeName(ctx, env.Caller, name); err != nil {
		return err
	}
	sales, err := c.loadSales(ctx)
	if err != nil {
		return err
	}
	for i, offer := range sales {
		if offer.Username == name {
			sales = append(sales[:i], sales[i+1:]...)
			return c.saveSales(ctx, sales)
		}
	}
	return ErrUsernameNotInSale
}

// GetSalePropositions lists the outstanding offers addressed to the caller.
func (c *Contract) GetSalePropositions(ctx context.Context, env Env) ([]SaleOffer, error) {
	sales, err := c.loadSales(ctx)
	if err != nil {
		return nil, err
	}
	var propositions []SaleOffer
	for _, offer := range sales {
		if offer.To == env.Caller {
			propositions = append(propositions, offer)
		}
	}
	if len(propositions) == 0 {
		return nil, ErrNoSalesForYou
	}
	return propositions, nil
}

// BuyUsername settles an offer addressed to the caller, funded by the value
// attached to the invocation. The seller is paid through the transfer-safety
// wrapper before any ownership moves; on a value shortfall the attached value
// is credited to the caller and the offer stays open, mirroring the
// registration payment contract. Ownership never transfers partially: the
// registry owner and both accounts' username lists change in the same
// invocation, and the offer is removed last.
func (c *Contract) BuyUsername(ctx context.Context, env Env, name Username) error {
	sales, err := c.loadSales(ctx)
	if err != nil {
		return err
	}
	index := -1
	for i, offer := range sales {
		if offer.Username == name {
			index = i
			break
		}
	}
	if index < 0 {
		return ErrUsernameNotInSale
	}
	offer := sales[index]
	if offer.To != env.Caller {
		return wrongAccount(name)
	}
	record, ok, err := c.loadName(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return nameNonexistent(name)
	}

	if env.Transferred < offer.Price {
		if err := c.creditAccount(ctx, env.Caller, env.Transferred); err != nil {
			return err
		}
		return &PaymentError{
			Received: env.Transferred,
			Required: offer.Price,
			Missing:  offer.Price - env.Transferred,
		}
	}
	seller := record.Owner
	if _, err := c.pay(ctx, env, seller, offer.Price); err != nil {
		return err
	}
	if excess := env.Transferred - offer.Price; excess > 0 {
		if err := c.creditAccount(ctx, env.Caller, excess); err != nil {
			return err
		}
	}

	if err := c.removeUsername(ctx, seller, name); err != nil {
		return err
	}
	record.Owner = env.Caller
	if err := c.saveName(ctx, name, record); err != nil {
		return err
	}
	if err := c.appendUsername(ctx, env.Caller, name); err != nil {
		return err
	}

	sales = append(sales[:index], sales[index+1:]...)
	return c.saveSales(ctx, sales)
}

// RefuseToBuy declines an offer addressed to the caller, removing it from the
// book.
func (c *Contract) RefuseToBuy(ctx context.Context, env Env, name Username) error {
	sales, err := c.loadSales(ctx)
	if err != nil {
		return err
	}
	for i, offer := range sales {
		if offer.Username == name {
			if offer.To != env.Caller {
				return wrongAccount(name)
			}
			sales = append(sales[:i], sales[i+1:]...)
			return c.saveSales(ctx, sales)
		}
	}
	return ErrUsernameNotInSale
}
