package mock

import (
	"github.com/gin-gonic/gin"
)

func seedTiers() gin.H {
	return gin.H{
		"starter": gin.H{
			"name":          "Starter",
			"monthly_price": 39,
			"annual_price":  351,
			"description":   "Lead capture and email basics for one inbox.",
		},
		"growth": gin.H{
			"name":          "Growth",
			"monthly_price": 79,
			"annual_price":  711,
			"description":   "CRM pipeline, AI replies and two inboxes.",
		},
		"pro": gin.H{
			"name":          "Pro",
			"monthly_price": 199,
			"annual_price":  1791,
			"description":   "Every feature, unlimited inboxes, priority support.",
		},
	}
}

func seedSubscription() gin.H {
	return gin.H{
		"status": "active",
		"items": []gin.H{
			{"id": "si_1", "price": "price_growth_monthly", "quantity": 1},
		},
		"current_period_start": int64(1755648000),
		"current_period_end":   int64(1758326400),
		"cancel_at_period_end": false,
		"trial_end":            int64(0),
	}
}

func seedInvoices() []gin.H {
	return []gin.H{
		{
			"id":                 "in_1001",
			"number":             "FIK-1001",
			"created":            int64(1755648000),
			"amount_paid":        int64(7900),
			"amount_due":         int64(0),
			"currency":           "usd",
			"status":             "paid",
			"hosted_invoice_url": "https://pay.example.com/in_1001",
		},
		{
			"id":                 "in_1002",
			"number":             "FIK-1002",
			"created":            int64(1758326400),
			"amount_paid":        int64(0),
			"amount_due":         int64(7900),
			"currency":           "usd",
			"status":             "open",
			"hosted_invoice_url": "https://pay.example.com/in_1002",
		},
	}
}

func seedLeads() []gin.H {
	return []gin.H{
		{"id": "lead_1", "name": "Ada Mwangi", "email": "ada@acme.test", "company": "Acme Bakery", "stage": "new", "source": "website", "score": 72},
		{"id": "lead_2", "name": "Brian Otieno", "email": "brian@northwind.test", "company": "Northwind Repair", "stage": "contacted", "source": "referral", "score": 55},
		{"id": "lead_3", "name": "Cheryl Kim", "email": "cheryl@globex.test", "company": "Globex Cleaning", "stage": "qualified", "source": "website", "score": 88},
		{"id": "lead_4", "name": "Daudi Njoroge", "email": "daudi@initech.test", "company": "Initech Plumbing", "stage": "new", "source": "ads", "score": 41},
	}
}

func seedEmails() []gin.H {
	return []gin.H{
		{"id": "em_1", "from": "ada@acme.test", "subject": "Quote request", "snippet": "Hi, could you send over...", "body": "Hi, could you send over a quote for weekly deliveries?", "unread": true, "received_at": int64(1758312000)},
		{"id": "em_2", "from": "brian@northwind.test", "subject": "Follow up", "snippet": "Just checking in on...", "body": "Just checking in on last week's estimate.", "unread": false, "received_at": int64(1758225600)},
	}
}

func seedDashboard() map[string]gin.H {
	return map[string]gin.H{
		"services": {
			"email_assistant": gin.H{"status": "running", "version": "1.4.2"},
			"lead_sync":       gin.H{"status": "running", "version": "0.9.1"},
		},
		"metrics": {
			"emails_processed": 128,
			"leads_captured":   17,
			"avg_response_ms":  420,
		},
		"activity": {
			"latest": gin.H{"kind": "lead_created", "detail": "Ada Mwangi via website"},
		},
	}
}
