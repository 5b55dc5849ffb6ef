package api

import (
	"context"
)

type Tier struct {
	Name         string  `json:"name"`
	MonthlyPrice float64 `json:"monthly_price"`
	AnnualPrice  float64 `json:"annual_price"`
	Description  string  `json:"description"`
}

type SubscriptionItem struct {
	ID       string `json:"id"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

type Subscription struct {
	Status             string             `json:"status"`
	Items              []SubscriptionItem `json:"items"`
	CurrentPeriodStart int64              `json:"current_period_start"`
	CurrentPeriodEnd   int64              `json:"current_period_end"`
	CancelAtPeriodEnd  bool               `json:"cancel_at_period_end"`
	TrialEnd           int64              `json:"trial_end"`
}

type Invoice struct {
	ID               string `json:"id"`
	Number           string `json:"number"`
	Created          int64  `json:"created"`
	AmountPaid       int64  `json:"amount_paid"`
	AmountDue        int64  `json:"amount_due"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	HostedInvoiceURL string `json:"hosted_invoice_url"`
}

type CheckoutParams struct {
	Tier          string `json:"tier"`
	BillingPeriod string `json:"billingPeriod"`
	UseTrial      bool   `json:"useTrial"`
}

type UsageSummary struct {
	EmailsSent   int `json:"emails_sent"`
	LeadsCreated int `json:"leads_created"`
	AIResponses  int `json:"ai_responses"`
}

func (c *Client) PricingTiers(ctx context.Context) (map[string]Tier, error) {
	var tiers map[string]Tier
	if err := c.getJSON(ctx, "/pricing-tiers", &tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}

// CurrentSubscription treats 404/401 as "no subscription yet", a valid empty
// state: (nil, nil), no error notification.
func (c *Client) CurrentSubscription(ctx context.Context) (*Subscription, error) {
	var envelope struct {
		Subscription *Subscription `json:"subscription"`
	}
	err := c.getJSON(ctx, "/subscription", &envelope)
	if err != nil {
		if isExpectedEmpty(err) {
			return nil, nil
		}
		return nil, err
	}
	return envelope.Subscription, nil
}

func (c *Client) Invoices(ctx context.Context) ([]Invoice, error) {
	var invoices []Invoice
	err := c.getJSON(ctx, "/invoices", &invoices)
	if err != nil {
		if isExpectedEmpty(err) {
			return []Invoice{}, nil
		}
		return nil, err
	}
	return invoices, nil
}

// CreateCheckoutSession returns the hosted checkout URL to redirect to.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error) {
	var resp struct {
		CheckoutURL string `json:"checkout_url"`
	}
	if err := c.postJSON(ctx, "/checkout-session", params, &resp); err != nil {
		return "", err
	}
	return resp.CheckoutURL, nil
}

// CreatePortalSession returns the hosted portal URL for payment-method
// management.
func (c *Client) CreatePortalSession(ctx context.Context) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.postJSON(ctx, "/portal-session", nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *Client) Usage(ctx context.Context) (UsageSummary, error) {
	var usage UsageSummary
	err := c.getJSON(ctx, "/usage", &usage)
	if err != nil && isExpectedEmpty(err) {
		return UsageSummary{}, nil
	}
	return usage, err
}
