package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
)

// DefaultTheme is applied when CreateFamily is given none.
const DefaultTheme = "classic"

// FamilyInput creates a family.
type FamilyInput struct {
	Name     string `json:"name"`
	Subtitle string `json:"subtitle,omitempty"`
	Hometown string `json:"hometown,omitempty"`
	Theme    string `json:"theme,omitempty"`
}

// FamilyUpdate changes family settings. Nil fields are left alone.
type FamilyUpdate struct {
	Name            *string  `json:"name,omitempty"`
	Subtitle        *string  `json:"subtitle,omitempty"`
	Hometown        *string  `json:"hometown,omitempty"`
	Theme           *string  `json:"theme,omitempty"`
	ShowConnections *bool    `json:"showConnections,omitempty"`
	ZoomLevel       *float64 `json:"zoomLevel,omitempty"`
}

// ListFamilies returns the families owned by the signed-in user.
func (c *Client) ListFamilies(ctx context.Context) ([]family.FamilyListItem, error) {
	var out []family.FamilyListItem
	if err := c.do(ctx, http.MethodGet, "families", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFamily returns the full tree of one family.
func (c *Client) GetFamily(ctx context.Context, id string) (*family.FamilyData, error) {
	if err := errors.ValidateID("family", id); err != nil {
		return nil, err
	}
	var out family.FamilyData
	if err := c.do(ctx, http.MethodGet, "families/"+id, nil, nil, &out); err != nil {
		return nil, remapNotFound(err, errors.ErrCodeFamilyNotFound, "family %s not found", id)
	}
	if out.APIID == "" {
		out.APIID = id
	}
	return &out, nil
}

// CreateFamily creates a family. The name is trimmed and required.
func (c *Client) CreateFamily(ctx context.Context, in FamilyInput) (*family.FamilyListItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := errors.ValidateRequired("family name", in.Name); err != nil {
		return nil, err
	}
	in.Subtitle = strings.TrimSpace(in.Subtitle)
	in.Hometown = strings.TrimSpace(in.Hometown)
	if in.Theme == "" {
		in.Theme = DefaultTheme
	}
	var out family.FamilyListItem
	if err := c.do(ctx, http.MethodPost, "families", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateFamily changes family settings.
func (c *Client) UpdateFamily(ctx context.Context, id string, in FamilyUpdate) (*family.FamilyListItem, error) {
	if err := errors.ValidateID("family", id); err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := errors.ValidateRequired("family name", name); err != nil {
			return nil, err
		}
		in.Name = &name
	}
	var out family.FamilyListItem
	if err := c.do(ctx, http.MethodPut, "families/"+id, nil, in, &out); err != nil {
		return nil, remapNotFound(err, errors.ErrCodeFamilyNotFound, "family %s not found", id)
	}
	return &out, nil
}

// DeleteFamily removes a family and everything in it.
func (c *Client) DeleteFamily(ctx context.Context, id string) error {
	if err := errors.ValidateID("family", id); err != nil {
		return err
	}
	err := c.do(ctx, http.MethodDelete, "families/"+id, nil, nil, nil)
	return remapNotFound(err, errors.ErrCodeFamilyNotFound, "family %s not found", id)
}

// ImportFamily replaces a family's generations with data.
func (c *Client) ImportFamily(ctx context.Context, id string, data *family.FamilyData) error {
	if err := errors.ValidateID("family", id); err != nil {
		return err
	}
	err := c.do(ctx, http.MethodPost, "families/"+id+"/import", nil, data, nil)
	return remapNotFound(err, errors.ErrCodeFamilyNotFound, "family %s not found", id)
}

// UpdateContent saves an edited document back to the service.
func (c *Client) UpdateContent(ctx context.Context, id string, data *family.FamilyData) error {
	if err := errors.ValidateID("family", id); err != nil {
		return err
	}
	err := c.do(ctx, http.MethodPut, "families/"+id+"/content", nil, data, nil)
	return remapNotFound(err, errors.ErrCodeFamilyNotFound, "family %s not found", id)
}
