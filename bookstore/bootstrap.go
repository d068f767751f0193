package bookstore

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/madkins23/go-mongo-bookstore/mdb"
)

// CompletionMessage is logged when Bootstrap finishes successfully.
// It carries no level so that it is written whatever the logger's level.
const CompletionMessage = "MongoDB initialization completed for bookstore database"

// ErrSeedUserExists is returned along with the driver's duplicate key error
// when the seed user has already been inserted.
var ErrSeedUserExists = errors.New("seed user already exists")

// Options modify a Bootstrap run. A nil *Options runs every step.
type Options struct {
	// SchemaOnly skips the seed insert, leaving only the repeatable steps.
	SchemaOnly bool

	// CacheIndexes also ensures the API's cache collections and their indexes.
	CacheIndexes bool
}

// Schema holds the bootstrapped collections.
type Schema struct {
	Users    *mdb.TypedCollection[User]
	Catalogs *mdb.TypedCollection[Catalog]
}

// Bootstrap runs the bootstrap steps in order against the client behind access:
//
//  1. select the bookstore database
//  2. ensure the users collection
//  3. ensure the collections collection
//  4. unique index on users.uName
//  5. index on users._id
//  6. index on collections.uID
//  7. index on collections._id
//  8. index on collections.name
//  9. insert the seed user
//
// The returned Access refers to the bookstore database and shares the caller's client,
// which the caller remains responsible for disconnecting.
// Errors are returned as soon as they happen, nothing is retried or rolled back.
func Bootstrap(access *mdb.Access, opts *Options) (*mdb.Access, error) {
	if opts == nil {
		opts = &Options{}
	}

	store, err := access.Sibling(DatabaseName)
	if err != nil {
		return nil, fmt.Errorf("select database %s: %w", DatabaseName, err)
	}

	schema, err := EnsureSchema(store)
	if err != nil {
		return nil, err
	}

	if opts.CacheIndexes {
		if err := EnsureCacheIndexes(store); err != nil {
			return nil, err
		}
	}

	if !opts.SchemaOnly {
		if err := InsertSeed(schema.Users); err != nil {
			return nil, err
		}
	}

	logCompletion(store.Logger(), store.Database().Name())
	return store, nil
}

func logCompletion(logger *zerolog.Logger, dbName string) {
	logger.Log().Str("db", dbName).Msg(CompletionMessage)
}

// EnsureSchema creates the bookstore collections and indexes that do not yet exist.
// It may be run any number of times without changing the result.
func EnsureSchema(access *mdb.Access) (*Schema, error) {
	users, err := mdb.ConnectTypedCollection[User](access, UsersDefinition)
	if err != nil {
		return nil, fmt.Errorf("ensure %s: %w", UsersCollection, err)
	}

	catalogs, err := mdb.ConnectTypedCollection[Catalog](access, CatalogDefinition)
	if err != nil {
		return nil, fmt.Errorf("ensure %s: %w", CatalogCollection, err)
	}

	for _, index := range UsersIndexes() {
		if err := access.Index(&users.Collection, index); err != nil {
			return nil, err
		}
	}

	for _, index := range CatalogIndexes() {
		if err := access.Index(&catalogs.Collection, index); err != nil {
			return nil, err
		}
	}

	return &Schema{Users: users, Catalogs: catalogs}, nil
}

// EnsureCacheIndexes creates the cache collections and their unique indexes.
func EnsureCacheIndexes(access *mdb.Access) error {
	for _, definition := range CacheDefinitions() {
		if _, err := mdb.ConnectCollection(access, definition); err != nil {
			return fmt.Errorf("ensure %s: %w", definition.Name, err)
		}
	}

	return nil
}

// InsertSeed inserts the seed user without checking whether it already exists.
func InsertSeed(users *mdb.TypedCollection[User]) error {
	seed := SeedUser()
	if err := ValidateSeed(seed); err != nil {
		return err
	}

	if err := users.Create(seed); err != nil {
		if mdb.IsDuplicate(err) {
			return fmt.Errorf("%w: %w", ErrSeedUserExists, err)
		}
		return fmt.Errorf("insert seed user: %w", err)
	}

	users.Info("Inserted seed user " + seed.Username)
	return nil
}
