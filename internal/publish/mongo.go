package publish

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gorewood/contentbot/internal/output"
)

// Archive defaults.
const (
	DefaultMongoDatabase   = "contentbot"
	DefaultMongoCollection = "drafts"
)

// Inserter is the part of *mongo.Collection used by MongoArchive.
type Inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// MongoOptions configure NewMongoArchive.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// MongoArchive stores every draft record as one document.
type MongoArchive struct {
	coll Inserter
	name string
}

// NewMongoArchive connects, pings and returns an archive plus a close func.
func NewMongoArchive(ctx context.Context, opts MongoOptions) (*MongoArchive, func() error, error) {
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, nil, output.NewSystemErrorWithCause("could not connect to mongodb", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, output.NewSystemErrorWithCause("could not reach mongodb", err)
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	closeFn := func() error { return client.Disconnect(context.Background()) }
	return NewMongoArchiveWithCollection(coll, opts.Database+"."+opts.Collection), closeFn, nil
}

// NewMongoArchiveWithCollection wraps an existing collection. name is used
// in the reported location.
func NewMongoArchiveWithCollection(coll Inserter, name string) *MongoArchive {
	return &MongoArchive{coll: coll, name: name}
}

// Name implements Publisher.
func (a *MongoArchive) Name() string { return "mongo" }

// Publish inserts d and returns "mongodb:<db>.<collection>/<id>".
func (a *MongoArchive) Publish(ctx context.Context, d Draft) (string, error) {
	if _, err := a.coll.InsertOne(ctx, d); err != nil {
		return "", output.NewSystemErrorWithCause("failed to archive draft", err)
	}
	return fmt.Sprintf("mongodb:%s/%s", a.name, d.ID), nil
}
