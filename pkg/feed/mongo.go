package feed

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cascadelayout/cascade/pkg/board"
	"github.com/cascadelayout/cascade/pkg/errors"
)

// Mongo pages through a MongoDB collection of items. Documents use the
// board.Item BSON encoding and are ordered by their seq field, which
// gives the stable scan order the incremental layout path requires.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to uri and targets database/collection. The connection
// is verified with a ping before the source is returned.
func NewMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Fetch returns one page, sorted by seq ascending.
func (m *Mongo) Fetch(ctx context.Context, page, perPage int) ([]board.Item, error) {
	if page < 1 || perPage < 1 {
		return nil, nil
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "seq", Value: 1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))

	cur, err := m.coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query items")
	}
	defer cur.Close(ctx)

	var items []board.Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decode items")
	}
	return items, nil
}

// Close disconnects from MongoDB.
func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}

// Ensure Mongo implements Source.
var _ Source = (*Mongo)(nil)
