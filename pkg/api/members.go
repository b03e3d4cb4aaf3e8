package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
)

// GenerationUpdate renames or reorders a generation.
type GenerationUpdate struct {
	Name  *string `json:"name,omitempty"`
	Order *int    `json:"order,omitempty"`
}

// MemberInput creates or edits a member. Nil fields are left alone on
// update. A relation pointing at the zero Ref is sent as null and an empty
// spouse list as [], which clears the link.
type MemberInput struct {
	Name       *string        `json:"name,omitempty"`
	Gender     *family.Gender `json:"gender,omitempty"`
	BirthOrder *int           `json:"birthOrder,omitempty"`
	BirthYear  *int           `json:"birthYear,omitempty"`
	DeathYear  *int           `json:"deathYear,omitempty"`
	Hometown   *string        `json:"hometown,omitempty"`
	Bio        *string        `json:"bio,omitempty"`
	Photo      *string        `json:"photo,omitempty"`
	ParentID   *family.Ref    `json:"parentId,omitempty"`
	MotherID   *family.Ref    `json:"motherId,omitempty"`
	SpouseIDs  *[]family.Ref  `json:"spouseIds,omitempty"`
}

// Link returns a relation field for MemberInput. Link(family.Ref{}) clears
// the relation.
func Link(r family.Ref) *family.Ref { return &r }

// Links returns a spouse list for MemberInput. Links() clears every spouse.
func Links(refs ...family.Ref) *[]family.Ref {
	out := append([]family.Ref{}, refs...)
	return &out
}

// AddGeneration appends a generation, or prepends it when atTop is set.
func (c *Client) AddGeneration(ctx context.Context, familyID, name string, atTop bool) (*family.Generation, error) {
	if err := errors.ValidateID("family", familyID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := errors.ValidateRequired("generation name", name); err != nil {
		return nil, err
	}
	body := struct {
		Name  string `json:"name"`
		AtTop bool   `json:"atTop,omitempty"`
	}{name, atTop}
	var out family.Generation
	if err := c.do(ctx, http.MethodPost, "families/"+familyID+"/generations", nil, body, &out); err != nil {
		return nil, remapNotFound(err, errors.ErrCodeFamilyNotFound, "family %s not found", familyID)
	}
	return &out, nil
}

// UpdateGeneration renames or reorders a generation.
func (c *Client) UpdateGeneration(ctx context.Context, id string, in GenerationUpdate) error {
	if err := errors.ValidateID("generation", id); err != nil {
		return err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := errors.ValidateRequired("generation name", name); err != nil {
			return err
		}
		in.Name = &name
	}
	return c.do(ctx, http.MethodPut, "families/generations/"+id, nil, in, nil)
}

// DeleteGeneration removes a generation and its members.
func (c *Client) DeleteGeneration(ctx context.Context, id string) error {
	if err := errors.ValidateID("generation", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "families/generations/"+id, nil, nil, nil)
}

// AddMember adds a member to a generation.
func (c *Client) AddMember(ctx context.Context, generationID string, in MemberInput) (*family.Member, error) {
	if err := errors.ValidateID("generation", generationID); err != nil {
		return nil, err
	}
	if in.Name == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "member name is required")
	}
	name := strings.TrimSpace(*in.Name)
	if err := errors.ValidateRequired("member name", name); err != nil {
		return nil, err
	}
	in.Name = &name
	var out family.Member
	if err := c.do(ctx, http.MethodPost, "families/generations/"+generationID+"/members", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMember edits a member. id is the member's Key: its apiId, else its
// local id.
func (c *Client) UpdateMember(ctx context.Context, id string, in MemberInput) error {
	if err := errors.ValidateID("member", id); err != nil {
		return err
	}
	err := c.do(ctx, http.MethodPut, "families/members/"+id, nil, in, nil)
	return remapNotFound(err, errors.ErrCodeMemberNotFound, "member %s not found", id)
}

// DeleteMember removes a member.
func (c *Client) DeleteMember(ctx context.Context, id string) error {
	if err := errors.ValidateID("member", id); err != nil {
		return err
	}
	err := c.do(ctx, http.MethodDelete, "families/members/"+id, nil, nil, nil)
	return remapNotFound(err, errors.ErrCodeMemberNotFound, "member %s not found", id)
}
