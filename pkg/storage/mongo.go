package storage

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
)

// CollectionName holds the snapshots.
const CollectionName = "snapshots"

// MongoStore keeps snapshots in MongoDB, one document per snapshot, indexed
// on (family_id, created_at desc).
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and ensures the index on database.snapshots.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	s := &MongoStore{client: client, coll: client.Database(database).Collection(CollectionName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "family_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("family_created"),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "create snapshot index")
	}
	return nil
}

func (s *MongoStore) Save(ctx context.Context, familyID string, d family.FamilyData) (Snapshot, error) {
	snap, err := NewSnapshot(familyID, d)
	if err != nil {
		return Snapshot{}, err
	}
	if _, err := s.coll.InsertOne(ctx, snap); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeNetwork, err, "save snapshot of family %s", familyID)
	}
	return snap, nil
}

func (s *MongoStore) Latest(ctx context.Context, familyID string) (Snapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.findOne(ctx, bson.M{"family_id": familyID}, opts, "no snapshot of family %s", familyID)
}

func (s *MongoStore) Get(ctx context.Context, id string) (Snapshot, error) {
	return s.findOne(ctx, bson.M{"_id": id}, nil, "snapshot %s not found", id)
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions, format string, args ...any) (Snapshot, error) {
	var snap Snapshot
	res := s.coll.FindOne(ctx, filter, opts)
	if err := res.Decode(&snap); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return Snapshot{}, notFound(format, args...)
		}
		return Snapshot{}, errors.Wrap(errors.ErrCodeNetwork, err, "load snapshot")
	}
	return snap, nil
}

func (s *MongoStore) List(ctx context.Context, familyID string) ([]Snapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"data": 0})
	cur, err := s.coll.Find(ctx, bson.M{"family_id": familyID}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list snapshots of family %s", familyID)
	}
	var out []Snapshot
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decode snapshots")
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
