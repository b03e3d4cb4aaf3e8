package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
)

// recorder captures the last request seen by the test server.
type recorder struct {
	method, path, query string
	body                []byte
}

func (rec *recorder) handler(t *testing.T, status int, resp any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec.method, rec.path, rec.query = r.Method, r.URL.Path, r.URL.RawQuery
		rec.body, _ = io.ReadAll(r.Body)
		if resp == nil {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, status, resp)
	}
}

func (rec *recorder) decode(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.body, &m); err != nil {
		t.Fatalf("request body %q: %v", rec.body, err)
	}
	return m
}

func TestCreateFamilyDefaults(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, rec.handler(t, 201, family.FamilyListItem{ID: "f1", Name: "王氏"}))

	got, err := c.CreateFamily(context.Background(), FamilyInput{Name: "  王氏  ", Hometown: "山东"})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "f1" {
		t.Errorf("CreateFamily() = %+v", got)
	}
	body := rec.decode(t)
	if body["name"] != "王氏" || body["theme"] != DefaultTheme || body["hometown"] != "山东" {
		t.Errorf("body = %v", body)
	}
	if rec.method != http.MethodPost || rec.path != "/api/families" {
		t.Errorf("%s %s", rec.method, rec.path)
	}

	if _, err := c.CreateFamily(context.Background(), FamilyInput{Name: "   "}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("blank name: %v", err)
	}
}

func TestGetFamilyNotFound(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, rec.handler(t, 404, errorBody{"family not found"}))

	_, err := c.GetFamily(context.Background(), "missing")
	if !errors.Is(err, errors.ErrCodeFamilyNotFound) {
		t.Errorf("error = %v, want FAMILY_NOT_FOUND", err)
	}
	if _, err := c.GetFamily(context.Background(), "../etc"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("path traversal id: %v", err)
	}
}

func TestFamilyEndpoints(t *testing.T) {
	doc := &family.FamilyData{Generations: []family.Generation{{ID: 1, Name: "第一世"}}}
	name := "新名"
	tests := []struct {
		name   string
		call   func(*Client) error
		method string
		path   string
	}{
		{"update", func(c *Client) error {
			_, err := c.UpdateFamily(context.Background(), "f1", FamilyUpdate{Name: &name})
			return err
		}, http.MethodPut, "/api/families/f1"},
		{"delete", func(c *Client) error { return c.DeleteFamily(context.Background(), "f1") }, http.MethodDelete, "/api/families/f1"},
		{"import", func(c *Client) error { return c.ImportFamily(context.Background(), "f1", doc) }, http.MethodPost, "/api/families/f1/import"},
		{"content", func(c *Client) error { return c.UpdateContent(context.Background(), "f1", doc) }, http.MethodPut, "/api/families/f1/content"},
		{"add generation", func(c *Client) error {
			_, err := c.AddGeneration(context.Background(), "f1", "第五世", true)
			return err
		}, http.MethodPost, "/api/families/f1/generations"},
		{"update generation", func(c *Client) error {
			return c.UpdateGeneration(context.Background(), "g1", GenerationUpdate{Name: &name})
		}, http.MethodPut, "/api/families/generations/g1"},
		{"delete generation", func(c *Client) error { return c.DeleteGeneration(context.Background(), "g1") }, http.MethodDelete, "/api/families/generations/g1"},
		{"add member", func(c *Client) error {
			_, err := c.AddMember(context.Background(), "g1", MemberInput{Name: &name})
			return err
		}, http.MethodPost, "/api/families/generations/g1/members"},
		{"update member", func(c *Client) error {
			return c.UpdateMember(context.Background(), "m1", MemberInput{Name: &name})
		}, http.MethodPut, "/api/families/members/m1"},
		{"delete member", func(c *Client) error { return c.DeleteMember(context.Background(), "m1") }, http.MethodDelete, "/api/families/members/m1"},
		{"delete feedback", func(c *Client) error { return c.DeleteFeedback(context.Background(), "fb1") }, http.MethodDelete, "/api/feedback/fb1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			c, _ := newTestClient(t, rec.handler(t, 200, map[string]string{}))
			if err := tt.call(c); err != nil {
				t.Fatal(err)
			}
			if rec.method != tt.method || rec.path != tt.path {
				t.Errorf("got %s %s, want %s %s", rec.method, rec.path, tt.method, tt.path)
			}
		})
	}
}

func TestAddGenerationBody(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, rec.handler(t, 201, family.Generation{ID: 5, Name: "第五世"}))
	g, err := c.AddGeneration(context.Background(), "f1", " 第五世 ", true)
	if err != nil {
		t.Fatal(err)
	}
	body := rec.decode(t)
	if body["name"] != "第五世" || body["atTop"] != true {
		t.Errorf("body = %v", body)
	}
	if g.Name != "第五世" {
		t.Errorf("AddGeneration() = %+v", g)
	}
}

func TestUpdateMemberRejectsEmptyID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	for _, id := range []string{"", "undefined"} {
		if err := c.UpdateMember(context.Background(), id, MemberInput{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("UpdateMember(%q) = %v", id, err)
		}
	}
}

func TestUpdateMemberByKey(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, rec.handler(t, 200, nil))
	year := 1950
	m := family.Member{ID: 7, Name: "王大"}
	err := c.UpdateMember(context.Background(), m.Key(), MemberInput{
		BirthYear: &year,
		ParentID:  Link(family.StringRef("p1")),
		SpouseIDs: Links(family.IntRef(8)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.path != "/api/families/members/7" {
		t.Errorf("path = %s", rec.path)
	}
	body := rec.decode(t)
	if body["birthYear"] != float64(1950) || body["parentId"] != "p1" {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["name"]; ok {
		t.Errorf("unset name sent: %v", body)
	}
	if _, ok := body["motherId"]; ok {
		t.Errorf("zero motherId sent: %v", body)
	}
}

func TestUpdateMemberNotFound(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, rec.handler(t, 404, nil))
	err := c.UpdateMember(context.Background(), "m9", MemberInput{})
	if !errors.Is(err, errors.ErrCodeMemberNotFound) {
		t.Errorf("error = %v", err)
	}
}

func TestFeedback(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, rec.handler(t, 201, Feedback{ID: "fb1", Title: "建议"}))
	ctx := context.Background()

	fb, err := c.CreateFeedback(ctx, "建议", "增加导出功能", "")
	if err != nil {
		t.Fatal(err)
	}
	if fb.ID != "fb1" || rec.decode(t)["type"] != FeedbackSuggestion {
		t.Errorf("CreateFeedback() = %+v, body %s", fb, rec.body)
	}
	if _, err := c.CreateFeedback(ctx, "建议", " ", ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("blank content: %v", err)
	}
	if _, err := c.CreateFeedback(ctx, "", "内容", ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("blank title: %v", err)
	}

	if _, err := c.GetFeedback(ctx, "fb1"); err != nil || rec.path != "/api/feedback/fb1" {
		t.Errorf("GetFeedback: %v %s", err, rec.path)
	}
}

func TestUploadImage(t *testing.T) {
	var folder, filename, content, ctype string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		folder = r.URL.Query().Get("folder")
		ctype = r.Header.Get("Content-Type")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		filename, content = hdr.Filename, string(data)
		writeJSON(w, 201, map[string]string{"url": "https://cdn.example.com/avatars/a.png"})
	})

	url, err := c.UploadImage(context.Background(), "", "/tmp/a.png", bytes.NewBufferString("PNGDATA"))
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://cdn.example.com/avatars/a.png" {
		t.Errorf("url = %s", url)
	}
	if folder != DefaultUploadFolder || filename != "a.png" || content != "PNGDATA" {
		t.Errorf("folder %q filename %q content %q", folder, filename, content)
	}
	if !strings.HasPrefix(ctype, "multipart/form-data") {
		t.Errorf("Content-Type = %s", ctype)
	}
}

func TestUploadImageFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 413, errorBody{"too large"})
	})
	if _, err := c.UploadImage(context.Background(), "avatars", "a.png", strings.NewReader("x")); err == nil {
		t.Fatal("expected error")
	}
}
