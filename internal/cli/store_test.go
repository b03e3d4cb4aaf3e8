package cli

import (
	"context"
	"io"
	"testing"

	"github.com/matzehuels/jiapu/pkg/storage"
)

type closeRecorder struct {
	storage.Store
	ctxErr      error
	hasDeadline bool
}

func (r *closeRecorder) Close(ctx context.Context) error {
	r.ctxErr = ctx.Err()
	_, r.hasDeadline = ctx.Deadline()
	return nil
}

func TestCloseStoreUsesFreshContext(t *testing.T) {
	c := New(io.Discard, LogInfo)
	rec := &closeRecorder{}
	c.closeStore(rec)

	if rec.ctxErr != nil {
		t.Errorf("Close() got a done context: %v", rec.ctxErr)
	}
	if !rec.hasDeadline {
		t.Error("Close() context should be bounded")
	}
}
