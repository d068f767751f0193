package mdb

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IDField is the primary identifier field that Mongo indexes automatically.
const IDField = "_id"

type IndexDescription struct {
	unique bool
	keys   []string
}

// NewIndexDescription creates a new index description.
// All keys are ascending.
func NewIndexDescription(unique bool, keys ...string) *IndexDescription {
	return &IndexDescription{
		unique: unique,
		keys:   keys,
	}
}

func (id *IndexDescription) AsBSON() bson.D {
	asBSON := bson.D{}
	for _, key := range id.keys {
		asBSON = append(asBSON, bson.E{Key: key, Value: 1})
	}
	return asBSON
}

// Keys returns the index key field names in order.
func (id *IndexDescription) Keys() []string {
	return id.keys
}

// Unique returns true if the index enforces uniqueness.
func (id *IndexDescription) Unique() bool {
	return id.unique
}

// Name returns the name Mongo assigns to the index by default.
func (id *IndexDescription) Name() string {
	if id.isPrimary() {
		return "_id_"
	}
	parts := make([]string, 0, len(id.keys))
	for _, key := range id.keys {
		parts = append(parts, key+"_1")
	}
	return strings.Join(parts, "_")
}

// Options returns the index options for creating this index.
// The server refuses the unique option on the _id index even when set to false.
func (id *IndexDescription) Options() *options.IndexOptions {
	if id.isPrimary() {
		return options.Index().SetName(id.Name())
	}
	return options.Index().SetName(id.Name()).SetUnique(id.unique)
}

func (id *IndexDescription) isPrimary() bool {
	return len(id.keys) == 1 && id.keys[0] == IDField
}

func (id *IndexDescription) String() string {
	if id.unique {
		return id.Name() + " (unique)"
	}
	return id.Name()
}

// Finisher returns a function that can be used as a CollectionFinisher for creating this index.
func (id *IndexDescription) Finisher() CollectionFinisher {
	return func(access *Access, collection *Collection) error {
		return access.Index(collection, id)
	}
}

// Index creates the described index on the collection.
// Creating an index that already exists with the same keys and options is a no-op.
func (a *Access) Index(collection *Collection, description *IndexDescription) error {
	ctx, cancel := a.ContextWithTimeout(a.config.Timeout.Index)
	defer cancel()
	name, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    description.AsBSON(),
		Options: description.Options(),
	})
	if err != nil {
		return fmt.Errorf("create index %s on %s: %w", description, collection.Name(), err)
	}

	a.config.Logger.Debug().
		Str("collection", collection.Name()).
		Str("index", name).
		Bool("unique", description.unique).
		Msg("Ensured index")

	return nil
}
