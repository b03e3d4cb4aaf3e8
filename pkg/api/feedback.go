package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/matzehuels/jiapu/pkg/errors"
)

// Feedback kinds.
const (
	FeedbackSuggestion = "suggestion"
	FeedbackBug        = "bug"
	FeedbackOther      = "other"
)

// Feedback is a message from a user to the maintainers.
type Feedback struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Type      string `json:"type,omitempty"`
	Status    string `json:"status,omitempty"`
	Reply     string `json:"reply,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// CreateFeedback submits feedback. Title and content are required.
func (c *Client) CreateFeedback(ctx context.Context, title, content, kind string) (*Feedback, error) {
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if err := errors.ValidateRequired("title", title); err != nil {
		return nil, err
	}
	if err := errors.ValidateRequired("content", content); err != nil {
		return nil, err
	}
	if kind == "" {
		kind = FeedbackSuggestion
	}
	in := Feedback{Title: title, Content: content, Type: kind}
	var out Feedback
	if err := c.do(ctx, http.MethodPost, "feedback", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFeedback returns the signed-in user's feedback.
func (c *Client) ListFeedback(ctx context.Context) ([]Feedback, error) {
	var out []Feedback
	if err := c.do(ctx, http.MethodGet, "feedback", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFeedback returns one feedback item with any reply.
func (c *Client) GetFeedback(ctx context.Context, id string) (*Feedback, error) {
	if err := errors.ValidateID("feedback", id); err != nil {
		return nil, err
	}
	var out Feedback
	if err := c.do(ctx, http.MethodGet, "feedback/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFeedback withdraws feedback.
func (c *Client) DeleteFeedback(ctx context.Context, id string) error {
	if err := errors.ValidateID("feedback", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "feedback/"+id, nil, nil, nil)
}
