package mdb

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// TypedCollection decodes items returned from Mongo into the collection's item type.
type TypedCollection[T any] struct {
	Collection
}

func NewTypedCollection[T any](collection *Collection) *TypedCollection[T] {
	return &TypedCollection[T]{
		Collection: *collection,
	}
}

// ConnectTypedCollection connects the defined collection and wraps it for items of type T.
func ConnectTypedCollection[T any](access *Access, definition *CollectionDefinition) (*TypedCollection[T], error) {
	collection, err := ConnectCollection(access, definition)
	if err != nil {
		return nil, err
	}
	return NewTypedCollection[T](collection), nil
}

// Find an item in the database.
func (c *TypedCollection[T]) Find(filter bson.D) (*T, error) {
	item := new(T)
	err := c.FindOne(c.ctx, filter).Decode(item)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("no item '%v': %w", filter, err)
		}
		return nil, fmt.Errorf("find item '%v': %w", filter, err)
	}

	return item, nil
}

// Iterate over a set of items, applying the specified function to each one.
// Each item is decoded into a fresh *T.
func (c *TypedCollection[T]) Iterate(filter bson.D, fn func(item *T) error) error {
	cursor, err := c.Collection.Collection.Find(c.ctx, filter)
	if err != nil {
		return fmt.Errorf("find items: %w", err)
	}
	defer func() { _ = cursor.Close(c.ctx) }()

	for cursor.Next(c.ctx) {
		item := new(T)
		if err := cursor.Decode(item); err != nil {
			return fmt.Errorf("decode item: %w", err)
		}

		if err := fn(item); err != nil {
			return fmt.Errorf("apply function: %w", err)
		}
	}

	return cursor.Err()
}
