package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/matzehuels/jiapu/pkg/errors"
)

// DefaultUploadFolder is where avatars go.
const DefaultUploadFolder = "avatars"

// MaxUploadSize bounds the image read from r.
const MaxUploadSize = 10 << 20

// UploadImage posts an image as multipart field "file" and returns the
// stored URL.
func (c *Client) UploadImage(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	if folder == "" {
		folder = DefaultUploadFolder
	}
	if err := errors.ValidateRequired("filename", filename); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "build upload")
	}
	n, err := io.Copy(part, io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", filename)
	}
	if n > MaxUploadSize {
		return "", errors.New(errors.ErrCodeInvalidInput, "%s is larger than %d MB", filename, MaxUploadSize>>20)
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "build upload")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "upload/image", url.Values{"folder": {folder}}, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		URL string `json:"url"`
	}
	if err := unwrapRetryable(c.send(req, &out)); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "upload response has no url")
	}
	return out.URL, nil
}
