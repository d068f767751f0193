package bookstore

import (
	"github.com/madkins23/go-mongo-bookstore/mdb"
)

const (
	// DatabaseName is the database that holds all bookstore data.
	DatabaseName = "bookstore"

	// UsersCollection holds User records.
	UsersCollection = "users"

	// CatalogCollection holds Catalog records, user-defined book collections.
	CatalogCollection = "collections"
)

// Field names.
const (
	FieldFirstName    = "fName"
	FieldLastName     = "lName"
	FieldDateOfBirth  = "dob"
	FieldUsername     = "uName"
	FieldPasswordHash = "uPass"

	FieldOwnerUserID = "uID"
	FieldName        = "name"
)

var (
	// UsernameIndex enforces one user per username.
	UsernameIndex = mdb.NewIndexDescription(true, FieldUsername)

	// OwnerIndex supports finding the collections of a user.
	OwnerIndex = mdb.NewIndexDescription(false, FieldOwnerUserID)

	// NameIndex supports finding collections by name.
	NameIndex = mdb.NewIndexDescription(false, FieldName)

	// PrimaryIndex is the _id index that Mongo always creates.
	// It is declared explicitly on both collections anyway.
	PrimaryIndex = mdb.NewIndexDescription(false, mdb.IDField)
)

// UsersDefinition describes the users collection.
var UsersDefinition = &mdb.CollectionDefinition{Name: UsersCollection}

// CatalogDefinition describes the collections collection.
var CatalogDefinition = &mdb.CollectionDefinition{Name: CatalogCollection}

// UsersIndexes lists every index declared on the users collection.
func UsersIndexes() []*mdb.IndexDescription {
	return []*mdb.IndexDescription{UsernameIndex, PrimaryIndex}
}

// CatalogIndexes lists every index declared on the collections collection.
func CatalogIndexes() []*mdb.IndexDescription {
	return []*mdb.IndexDescription{OwnerIndex, PrimaryIndex, NameIndex}
}

////////////////////////////////////////////////////////////////////////////////
// Indexes the bookstore API relies on for its lookup caches.
// These are only created when requested in Options.

const (
	SearchCacheCollection  = "search_cache"
	DescriptionsCollection = "descriptions"
	ImageCacheCollection   = "image_cache"
)

// CacheDefinitions describes the cache collections and their unique indexes.
func CacheDefinitions() []*mdb.CollectionDefinition {
	return []*mdb.CollectionDefinition{
		{
			Name: SearchCacheCollection,
			Finishers: []mdb.CollectionFinisher{
				mdb.NewIndexDescription(true, "title", "page").Finisher(),
			},
		},
		{
			Name: DescriptionsCollection,
			Finishers: []mdb.CollectionFinisher{
				mdb.NewIndexDescription(true, "work_id").Finisher(),
			},
		},
		{
			Name: ImageCacheCollection,
			Finishers: []mdb.CollectionFinisher{
				mdb.NewIndexDescription(true, "cover_id").Finisher(),
			},
		},
	}
}
