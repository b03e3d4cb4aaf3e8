package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
)

func TestAddGenerationValidation(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if _, err := c.AddGeneration(context.Background(), "f1", "  ", false); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("blank name: err = %v", err)
	}
	if _, err := c.AddGeneration(context.Background(), "undefined", "x", false); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad family id: err = %v", err)
	}
}

func TestAddMemberSendsOnlySetFields(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, rec.handler(t, 201, family.Member{ID: 9, Name: "王三"}))

	name := " 王三 "
	in := MemberInput{
		Name:      &name,
		BirthYear: family.Int(1930),
		ParentID:  Link(family.IntRef(1)),
		SpouseIDs: Links(family.StringRef("m7")),
	}
	if _, err := c.AddMember(context.Background(), "g2", in); err != nil {
		t.Fatal(err)
	}
	if rec.path != "/api/families/generations/g2/members" {
		t.Errorf("path = %s", rec.path)
	}
	body := rec.decode(t)
	if body["name"] != "王三" || body["birthYear"] != float64(1930) || body["parentId"] != float64(1) {
		t.Errorf("body = %v", body)
	}
	if spouses, _ := body["spouseIds"].([]any); len(spouses) != 1 || spouses[0] != "m7" {
		t.Errorf("spouseIds = %v", body["spouseIds"])
	}
	for _, k := range []string{"gender", "deathYear", "motherId", "birthOrder"} {
		if _, ok := body[k]; ok {
			t.Errorf("unset field %s was sent", k)
		}
	}
}

func TestAddMemberRequiresName(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if _, err := c.AddMember(context.Background(), "g2", MemberInput{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v", err)
	}
}

func TestGenerationEndpoints(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, rec.handler(t, 200, nil))
	ctx := context.Background()

	name := " 第二世 "
	if err := c.UpdateGeneration(ctx, "g2", GenerationUpdate{Name: &name}); err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodPut || rec.path != "/api/families/generations/g2" || rec.decode(t)["name"] != "第二世" {
		t.Errorf("%s %s %s", rec.method, rec.path, rec.body)
	}

	blank := " "
	if err := c.UpdateGeneration(ctx, "g2", GenerationUpdate{Name: &blank}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("blank name: err = %v", err)
	}

	if err := c.DeleteGeneration(ctx, "g2"); err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodDelete || rec.path != "/api/families/generations/g2" {
		t.Errorf("%s %s", rec.method, rec.path)
	}
}

func TestDeleteMemberNotFound(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, rec.handler(t, 404, nil))
	if err := c.DeleteMember(context.Background(), "m3"); !errors.Is(err, errors.ErrCodeMemberNotFound) {
		t.Errorf("err = %v, want MEMBER_NOT_FOUND", err)
	}
	if rec.method != http.MethodDelete || rec.path != "/api/families/members/m3" {
		t.Errorf("%s %s", rec.method, rec.path)
	}
}

func TestDeleteMemberRejectsEmptyID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if err := c.DeleteMember(context.Background(), ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v", err)
	}
}

func TestUploadImageMissingURL(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{})
	})
	_, err := c.UploadImage(context.Background(), "photos", "a.png", strings.NewReader("x"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestUpdateMemberClearsRelations(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, rec.handler(t, 200, nil))

	err := c.UpdateMember(context.Background(), "m4", MemberInput{
		ParentID:  Link(family.Ref{}),
		SpouseIDs: Links(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(rec.body); got != `{"parentId":null,"spouseIds":[]}` {
		t.Errorf("body = %s", got)
	}
}
