package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

type Email struct {
	ID         string `json:"id"`
	From       string `json:"from"`
	Subject    string `json:"subject"`
	Snippet    string `json:"snippet"`
	Body       string `json:"body"`
	Unread     bool   `json:"unread"`
	ReceivedAt int64  `json:"received_at"`
}

type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

type OutgoingEmail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (c *Client) Emails(ctx context.Context, filter string, limit int) ([]Email, error) {
	query := url.Values{}
	if filter != "" {
		query.Set("filter", filter)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	path := "/emails"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var emails []Email
	if err := c.getJSON(ctx, path, &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

func (c *Client) EmailAttachments(ctx context.Context, emailID string) ([]Attachment, error) {
	var attachments []Attachment
	if err := c.getJSON(ctx, "/emails/"+emailID+"/attachments", &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

func (c *Client) ArchiveEmail(ctx context.Context, emailID string) error {
	return c.postJSON(ctx, "/emails/"+emailID+"/archive", nil, nil)
}

// SendEmail validates locally; a send with no recipient or subject is blocked
// before any network call and never reaches the mutation layer.
func (c *Client) SendEmail(ctx context.Context, email OutgoingEmail) error {
	var missing []string
	if email.To == "" {
		missing = append(missing, "to")
	}
	if email.Subject == "" {
		missing = append(missing, "subject")
	}
	if len(missing) > 0 {
		return errors.WithStack(&ValidationError{Fields: missing})
	}
	return c.postJSON(ctx, "/emails/send", email, nil)
}
