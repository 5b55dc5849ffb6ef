package api

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fikiri/go-client/crm"
)

type NewLead struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Source  string `json:"source"`
}

func (c *Client) Leads(ctx context.Context) ([]crm.Lead, error) {
	var leads []crm.Lead
	if err := c.getJSON(ctx, "/leads", &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// CreateLead validates locally first; an incomplete lead never reaches the
// network.
func (c *Client) CreateLead(ctx context.Context, lead NewLead) (crm.Lead, error) {
	var missing []string
	if lead.Name == "" {
		missing = append(missing, "name")
	}
	if lead.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return crm.Lead{}, errors.WithStack(&ValidationError{Fields: missing})
	}

	var created crm.Lead
	if err := c.postJSON(ctx, "/leads", lead, &created); err != nil {
		return crm.Lead{}, err
	}
	return created, nil
}

func (c *Client) UpdateLeadStage(ctx context.Context, leadID, stage string) error {
	body := struct {
		Stage string `json:"stage"`
	}{Stage: stage}
	return c.patchJSON(ctx, "/leads/"+leadID+"/stage", body, nil)
}
