// Package storage archives family documents as immutable snapshots so a
// tree can be laid out as it stood at a given time, independent of the
// live service.
package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/jiapu/pkg/cache"
	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
)

// Snapshot is one archived copy of a family document.
type Snapshot struct {
	ID        string            `json:"id" bson:"_id"`
	FamilyID  string            `json:"familyId" bson:"family_id"`
	Hash      string            `json:"hash" bson:"hash"`
	Members   int               `json:"members" bson:"members"`
	CreatedAt time.Time         `json:"createdAt" bson:"created_at"`
	Data      family.FamilyData `json:"data" bson:"data"`
}

// Store archives snapshots.
type Store interface {
	// Save archives d under familyID and returns the new snapshot.
	Save(ctx context.Context, familyID string, d family.FamilyData) (Snapshot, error)

	// Latest returns the newest snapshot of familyID, or a NOT_FOUND error.
	Latest(ctx context.Context, familyID string) (Snapshot, error)

	// Get returns a snapshot by id, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (Snapshot, error)

	// List returns the snapshots of familyID, newest first, without Data.
	List(ctx context.Context, familyID string) ([]Snapshot, error)

	Close(ctx context.Context) error
}

// NewSnapshot stamps d with a fresh id, the current time and its content
// hash.
func NewSnapshot(familyID string, d family.FamilyData) (Snapshot, error) {
	if err := errors.ValidateID("family", familyID); err != nil {
		return Snapshot{}, err
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInternal, err, "encode family %s", familyID)
	}
	return Snapshot{
		ID:        uuid.NewString(),
		FamilyID:  familyID,
		Hash:      cache.Hash(raw),
		Members:   d.MemberCount(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Data:      d,
	}, nil
}

func notFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, format, args...)
}
