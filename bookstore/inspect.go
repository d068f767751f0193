package bookstore

import (
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/madkins23/go-mongo-bookstore/mdb"
)

// CollectionReport describes the state of one bootstrapped collection.
type CollectionReport struct {
	Name      string
	Exists    bool
	Indexes   int
	Documents int64
}

// Report describes the state of the bookstore database.
type Report struct {
	Database    string
	Users       CollectionReport
	Catalogs    CollectionReport
	SeedPresent bool
}

// Ready returns true if both collections exist with all declared indexes
// and the seed user is present.
func (r *Report) Ready() bool {
	return r.Users.Exists && r.Catalogs.Exists &&
		r.Users.Indexes == len(UsersIndexes()) &&
		r.Catalogs.Indexes == len(CatalogIndexes()) &&
		r.SeedPresent
}

// Log writes the report at info level.
func (r *Report) Log(logger *zerolog.Logger) {
	for _, coll := range []CollectionReport{r.Users, r.Catalogs} {
		logger.Info().
			Str("db", r.Database).
			Str("collection", coll.Name).
			Bool("exists", coll.Exists).
			Int("indexes", coll.Indexes).
			Int64("documents", coll.Documents).
			Msg("Collection state")
	}
	logger.Info().
		Str("db", r.Database).
		Bool("seed", r.SeedPresent).
		Bool("ready", r.Ready()).
		Msg("Bootstrap state")
}

// Inspect reports on the bookstore database reachable through the client behind access.
// It never creates anything.
func Inspect(access *mdb.Access) (*Report, error) {
	return InspectDatabase(access, DatabaseName)
}

// InspectDatabase reports on the bookstore collections in the named database.
func InspectDatabase(access *mdb.Access, dbName string) (*Report, error) {
	store, err := access.Sibling(dbName)
	if err != nil {
		return nil, fmt.Errorf("select database %s: %w", dbName, err)
	}

	report := &Report{
		Database: dbName,
		Users:    CollectionReport{Name: UsersCollection},
		Catalogs: CollectionReport{Name: CatalogCollection},
	}

	var users *mdb.Collection
	if users, err = inspectCollection(store, &report.Users); err != nil {
		return nil, err
	}
	if _, err = inspectCollection(store, &report.Catalogs); err != nil {
		return nil, err
	}

	if users != nil {
		count, err := users.Count(bson.D{{Key: FieldUsername, Value: SeedUsername}})
		if err != nil {
			return nil, fmt.Errorf("count seed user: %w", err)
		}
		report.SeedPresent = count > 0
	}

	return report, nil
}

func inspectCollection(access *mdb.Access, report *CollectionReport) (*mdb.Collection, error) {
	exists, err := access.CollectionExists(report.Name)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", report.Name, err)
	} else if !exists {
		return nil, nil
	}
	report.Exists = true

	collection, err := mdb.ConnectCollection(access, &mdb.CollectionDefinition{Name: report.Name})
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", report.Name, err)
	}
	if report.Indexes, err = collection.IndexCount(); err != nil {
		return nil, fmt.Errorf("inspect %s: %w", report.Name, err)
	}
	if report.Documents, err = collection.Count(nil); err != nil {
		return nil, fmt.Errorf("inspect %s: %w", report.Name, err)
	}

	return collection, nil
}
