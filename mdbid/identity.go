package mdbid

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identifier provides an interface to items that use the primitive Mongo ObjectID.
type Identifier interface {
	ID() primitive.ObjectID
	IDString() string
	Filter() bson.D
}

var _ Identifier = &Identity{}

// Identity instantiates the Identifier interface.
// Embed it with `bson:"inline"` so that the ObjectID maps to _id.
type Identity struct {
	OID primitive.ObjectID `bson:"_id,omitempty"`
}

// ID returns the primitive Mongo ObjectID for an item.
func (idm *Identity) ID() primitive.ObjectID {
	return idm.OID
}

// IDString returns the hex form of the ObjectID.
// This is the form used when one record refers to another,
// or the empty string if the item has not been stored.
func (idm *Identity) IDString() string {
	if idm.OID.IsZero() {
		return ""
	}
	return idm.OID.Hex()
}

// Filter returns a Mongo filter object for the item's ID.
func (idm *Identity) Filter() bson.D {
	return bson.D{{Key: "_id", Value: idm.OID}}
}

// ParseID converts a hex reference back into an ObjectID.
func ParseID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("parse object id '%s': %w", hex, err)
	}
	return oid, nil
}
