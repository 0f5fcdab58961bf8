package billing

import (
	"context"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"payments-monitor/internal/models"
	"payments-monitor/internal/services"
)

// pageSize is the largest page Stripe serves per list request
const pageSize = 100

// StripeClient reads customers, charges and open invoices from Stripe.
// Each List call walks every page before returning.
type StripeClient struct {
	api *client.API
}

// NewStripeClient creates a client bound to a single secret key. A nil
// backends value uses Stripe's production endpoints.
func NewStripeClient(secret string, backends *stripe.Backends) *StripeClient {
	api := &client.API{}
	api.Init(secret, backends)
	return &StripeClient{api: api}
}

// NewStripeClientFactory returns the factory the report service uses to get a
// client for whichever secret is configured at rebuild time.
func NewStripeClientFactory(backends *stripe.Backends) services.PlatformClientFactory {
	return func(secret string) services.PlatformClient {
		return NewStripeClient(secret, backends)
	}
}

func (c *StripeClient) ListCustomers(ctx context.Context) ([]models.CustomerRecord, error) {
	params := &stripe.CustomerListParams{
		ListParams: stripe.ListParams{Context: ctx, Limit: stripe.Int64(pageSize)},
	}
	params.AddExpand("data.subscriptions")

	var out []models.CustomerRecord
	it := c.api.Customers.List(params)
	for it.Next() {
		if cus := it.Customer(); cus != nil {
			out = append(out, ToCustomerRecord(cus))
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

func (c *StripeClient) ListCharges(ctx context.Context) ([]models.Charge, error) {
	params := &stripe.ChargeListParams{
		ListParams: stripe.ListParams{Context: ctx, Limit: stripe.Int64(pageSize)},
	}

	var out []models.Charge
	it := c.api.Charges.List(params)
	for it.Next() {
		if ch := it.Charge(); ch != nil {
			out = append(out, ToCharge(ch))
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list charges: %w", err)
	}
	return out, nil
}

func (c *StripeClient) ListOpenInvoices(ctx context.Context) ([]models.Invoice, error) {
	params := &stripe.InvoiceListParams{
		ListParams: stripe.ListParams{Context: ctx, Limit: stripe.Int64(pageSize)},
		Status:     stripe.String(string(stripe.InvoiceStatusOpen)),
	}

	var out []models.Invoice
	it := c.api.Invoices.List(params)
	for it.Next() {
		if inv := it.Invoice(); inv != nil {
			out = append(out, ToInvoice(inv))
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return out, nil
}

// ToCustomerRecord converts a Stripe customer and its expanded subscriptions
func ToCustomerRecord(cus *stripe.Customer) models.CustomerRecord {
	rec := models.CustomerRecord{
		ID:    cus.ID,
		Email: cus.Email,
		Name:  cus.Name,
	}
	if cus.Subscriptions == nil {
		return rec
	}
	for _, sub := range cus.Subscriptions.Data {
		if sub == nil {
			continue
		}
		s := models.Subscription{ID: sub.ID, Status: string(sub.Status)}
		if sub.Items != nil {
			for _, item := range sub.Items.Data {
				if item != nil {
					s.Items = append(s.Items, toLineItem(item))
				}
			}
		}
		rec.Subscriptions = append(rec.Subscriptions, s)
	}
	return rec
}

// toLineItem prefers the Price object and falls back to the legacy Plan
func toLineItem(item *stripe.SubscriptionItem) models.LineItem {
	li := models.LineItem{Quantity: item.Quantity}
	switch {
	case item.Price != nil:
		li.UnitAmount = item.Price.UnitAmount
		if item.Price.Recurring != nil {
			li.Interval = string(item.Price.Recurring.Interval)
		}
	case item.Plan != nil:
		li.UnitAmount = item.Plan.Amount
		li.Interval = string(item.Plan.Interval)
	}
	return li
}

func ToCharge(ch *stripe.Charge) models.Charge {
	return models.Charge{
		ID:         ch.ID,
		CustomerID: customerID(ch.Customer),
		Status:     string(ch.Status),
		Paid:       ch.Paid,
		Amount:     ch.Amount,
		Created:    fromUnix(ch.Created),
	}
}

func ToInvoice(inv *stripe.Invoice) models.Invoice {
	return models.Invoice{
		ID:                 inv.ID,
		CustomerID:         customerID(inv.Customer),
		Status:             string(inv.Status),
		DueDate:            fromUnix(inv.DueDate),
		NextPaymentAttempt: fromUnix(inv.NextPaymentAttempt),
		Created:            fromUnix(inv.Created),
	}
}

func customerID(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

// fromUnix maps Stripe's "0 means unset" timestamps to the zero time
func fromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
