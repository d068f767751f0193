package mdb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Collection struct {
	*Access
	*mongo.Collection
	ctx context.Context
}

// ConnectCollection creates a new collection object with the specified collection definition.
func ConnectCollection(access *Access, definition *CollectionDefinition) (*Collection, error) {
	collection := &Collection{}
	if err := access.CollectionConnect(collection, definition); err != nil {
		return nil, fmt.Errorf("connecting collection: %w", err)
	}
	return collection, nil
}

func (c *Collection) ContextWithTimeout() (context.Context, context.CancelFunc) {
	return c.Access.ContextWithTimeout(c.Access.config.Collection)
}

// Count documents in collection matching filter.
func (c *Collection) Count(filter bson.D) (int64, error) {
	if filter == nil {
		filter = NoFilter()
	}
	if count, err := c.Collection.CountDocuments(c.ctx, filter); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	} else {
		return count, nil
	}
}

// Create item in DB.
func (c *Collection) Create(item interface{}) error {
	if _, err := c.InsertOne(c.ctx, item); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	return nil
}

// Delete item from DB.
// Set idempotent to true to avoid errors if the item does not exist.
func (c *Collection) Delete(filter bson.D, idempotent bool) error {
	result, err := c.DeleteOne(c.ctx, filter)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if result.DeletedCount > 1 || (result.DeletedCount == 0 && !idempotent) {
		// Should have deleted a single item or none if idempotent flag set.
		return fmt.Errorf("deleted %d items", result.DeletedCount)
	}

	return nil
}

// DeleteAll items from this collection.
func (c *Collection) DeleteAll() error {
	_, err := c.DeleteMany(c.ctx, NoFilter())
	if err != nil {
		return fmt.Errorf("delete all: %w", err)
	}
	return nil
}

// Drop collection.
func (c *Collection) Drop() error {
	ctx, cancelFn := c.ContextWithTimeout()
	defer cancelFn()
	return c.Collection.Drop(ctx)
}

// Find an item in the database and return it as a blank interface.
// The result will likely contain bson objects.
func (c *Collection) Find(filter bson.D) (interface{}, error) {
	var item bson.M
	if err := c.FindOne(c.ctx, filter).Decode(&item); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("no item '%v': %w", filter, err)
		}
		return nil, fmt.Errorf("find item '%v': %w", filter, err)
	}

	return item, nil
}

// Iterate over a set of items, applying the specified function to each one.
// The items passed to the function will likely contain bson objects.
func (c *Collection) Iterate(filter bson.D, fn func(item interface{}) error) error {
	cursor, err := c.Collection.Find(c.ctx, filter)
	if err != nil {
		return fmt.Errorf("find items: %w", err)
	}
	defer func() { _ = cursor.Close(c.ctx) }()

	for cursor.Next(c.ctx) {
		var item bson.M
		if err := cursor.Decode(&item); err != nil {
			return fmt.Errorf("decode item: %w", err)
		} else if err := fn(item); err != nil {
			return fmt.Errorf("apply function: %w", err)
		}
	}

	return cursor.Err()
}

// IndexCount returns the number of indexes on the collection, including the one on _id.
func (c *Collection) IndexCount() (int, error) {
	ctx, cancel := c.Access.ContextWithTimeout(c.Access.config.Index)
	defer cancel()
	specs, err := c.Indexes().ListSpecifications(ctx)
	if err != nil {
		return 0, fmt.Errorf("list indexes: %w", err)
	}

	return len(specs), nil
}

////////////////////////////////////////////////////////////////////////////////

// NoFilter returns an empty bson.D object for use as an empty filter.
func NoFilter() bson.D {
	return bson.D{}
}
