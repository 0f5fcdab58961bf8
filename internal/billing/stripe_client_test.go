package billing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payments-monitor/internal/models"
)

func TestToCustomerRecord(t *testing.T) {
	cus := &stripe.Customer{
		ID:    "cus_1",
		Email: "a@acme.com",
		Name:  "Acme",
		Subscriptions: &stripe.SubscriptionList{Data: []*stripe.Subscription{
			{
				ID:     "sub_1",
				Status: stripe.SubscriptionStatusActive,
				Items: &stripe.SubscriptionItemList{Data: []*stripe.SubscriptionItem{
					{Quantity: 2, Price: &stripe.Price{UnitAmount: 1500, Recurring: &stripe.PriceRecurring{Interval: stripe.PriceRecurringIntervalMonth}}},
					{Quantity: 1, Plan: &stripe.Plan{Amount: 12000, Interval: stripe.PlanIntervalYear}},
				}},
			},
		}},
	}

	rec := ToCustomerRecord(cus)

	assert.Equal(t, "cus_1", rec.ID)
	require.Len(t, rec.Subscriptions, 1)
	assert.Equal(t, models.SubscriptionStatusActive, rec.Subscriptions[0].Status)
	assert.Equal(t, []models.LineItem{
		{Quantity: 2, UnitAmount: 1500, Interval: models.IntervalMonth},
		{Quantity: 1, UnitAmount: 12000, Interval: models.IntervalYear},
	}, rec.Subscriptions[0].Items)
}

func TestToCustomerRecordWithoutSubscriptions(t *testing.T) {
	rec := ToCustomerRecord(&stripe.Customer{ID: "cus_2"})
	assert.Empty(t, rec.Subscriptions)
}

func TestToChargeAndInvoice(t *testing.T) {
	ch := ToCharge(&stripe.Charge{
		ID:       "ch_1",
		Customer: &stripe.Customer{ID: "cus_1"},
		Status:   stripe.ChargeStatusSucceeded,
		Paid:     true,
		Amount:   5000,
		Created:  1760000000,
	})
	assert.True(t, ch.Counts())
	assert.Equal(t, "cus_1", ch.CustomerID)
	assert.Equal(t, time.Unix(1760000000, 0).UTC(), ch.Created)

	orphan := ToCharge(&stripe.Charge{ID: "ch_2"})
	assert.Empty(t, orphan.CustomerID)
	assert.True(t, orphan.Created.IsZero())

	inv := ToInvoice(&stripe.Invoice{
		ID:                 "in_1",
		Customer:           &stripe.Customer{ID: "cus_1"},
		Status:             stripe.InvoiceStatusOpen,
		NextPaymentAttempt: 1760000000,
		Created:            1750000000,
	})
	assert.True(t, inv.DueDate.IsZero())
	assert.Equal(t, time.Unix(1760000000, 0).UTC(), inv.EffectiveDue())
}

func TestListCustomersAgainstFakeAPI(t *testing.T) {
	var gotAuth, gotExpand string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotExpand = r.URL.Query().Get("expand[0]")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","url":"/v1/customers","has_more":false,"data":[
			{"id":"cus_1","object":"customer","email":"a@acme.com","name":"Acme"},
			{"id":"cus_2","object":"customer","email":"b@beta.io","name":""}
		]}`))
	}))
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
	})
	c := NewStripeClient("sk_test_abc", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})

	customers, err := c.ListCustomers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer sk_test_abc", gotAuth)
	assert.Equal(t, "data.subscriptions", gotExpand)
	require.Len(t, customers, 2)
	assert.Equal(t, "b@beta.io", customers[1].Email)
}

func TestListChargesSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key provided"}}`))
	}))
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
	})
	c := NewStripeClient("sk_bad", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})

	_, err := c.ListCharges(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API Key")
}
