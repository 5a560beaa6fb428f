package store

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is a MongoDB collection. Documents are converted to relaxed
// extended JSON on the way out and parsed from it on the way in.
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func OpenMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	if database == "" || collection == "" {
		return nil, errors.New("store: mongodb needs a database and a collection name")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrapf(err, "store: connect %s", uri)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrapf(err, "store: ping %s", uri)
	}
	return &Mongo{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (m *Mongo) Name() string {
	return m.collection.Database().Name() + "." + m.collection.Name()
}

func mongoFilter(f Filter) bson.M {
	q := bson.M{}
	if f.ID != "" {
		q["id"] = f.ID
	}
	if f.QC != "" {
		q["metadata.QC"] = f.QC
	}
	return q
}

func (m *Mongo) Find(ctx context.Context, f Filter) ([]json.RawMessage, error) {
	cur, err := m.collection.Find(ctx, mongoFilter(f), options.Find().SetProjection(bson.M{"_id": 0}))
	if err != nil {
		return nil, errors.Wrap(err, "store: find")
	}
	defer cur.Close(ctx)

	var docs []json.RawMessage
	for cur.Next(ctx) {
		doc, err := bson.MarshalExtJSON(cur.Current, false, false)
		if err != nil {
			return nil, errors.Wrap(err, "store: convert document")
		}
		docs = append(docs, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(err, "store: find")
	}
	return docs, nil
}

func (m *Mongo) Insert(ctx context.Context, id string, doc json.RawMessage) error {
	var d bson.D
	if err := bson.UnmarshalExtJSON(doc, false, &d); err != nil {
		return errors.Wrapf(err, "store: convert %s", id)
	}
	hasID := false
	for _, e := range d {
		if e.Key == "id" {
			hasID = true
			break
		}
	}
	if !hasID {
		d = append(d, bson.E{Key: "id", Value: id})
	}
	if _, err := m.collection.InsertOne(ctx, d); err != nil {
		return errors.Wrapf(err, "store: insert %s", id)
	}
	return nil
}

func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}
