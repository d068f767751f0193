//go:build database

package bookstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/madkins23/go-mongo-bookstore/mdb"
)

// These tests drop the bookstore database, only run them against a test server.
type bootstrapTestSuite struct {
	mdb.AccessTestSuite
}

const bootstrapTestDBname = "bookstore-db-test"

func TestBootstrapSuite(t *testing.T) {
	suite.Run(t, new(bootstrapTestSuite))
}

func (suite *bootstrapTestSuite) SetupSuite() {
	suite.SetupSuiteConfig(bootstrapTestDBname, nil)
}

func (suite *bootstrapTestSuite) SetupTest() {
	suite.dropBookstore()
}

func (suite *bootstrapTestSuite) TearDownSuite() {
	suite.dropBookstore()
	suite.AccessTestSuite.TearDownSuite()
}

func (suite *bootstrapTestSuite) dropBookstore() {
	store, err := suite.Access().Sibling(DatabaseName)
	suite.Require().NoError(err)
	suite.Require().NoError(store.Database().Drop(context.Background()))
}

func (suite *bootstrapTestSuite) bootstrap(opts *Options) *mdb.Access {
	store, err := Bootstrap(suite.Access(), opts)
	suite.Require().NoError(err)
	suite.Require().NotNil(store)
	suite.Equal(DatabaseName, store.Database().Name())
	return store
}

func (suite *bootstrapTestSuite) schema(store *mdb.Access) *Schema {
	schema, err := EnsureSchema(store)
	suite.Require().NoError(err)
	return schema
}

func (suite *bootstrapTestSuite) inspect() *Report {
	report, err := Inspect(suite.Access())
	suite.Require().NoError(err)
	return report
}

//////////////////////////////////////////////////////////////////////////

func (suite *bootstrapTestSuite) TestInspectEmpty() {
	report := suite.inspect()
	suite.False(report.Users.Exists)
	suite.False(report.Catalogs.Exists)
	suite.False(report.SeedPresent)
	suite.False(report.Ready())
}

func (suite *bootstrapTestSuite) TestInspectDatabase() {
	suite.bootstrap(nil)
	suite.True(suite.inspect().Ready())

	other, err := InspectDatabase(suite.Access(), bootstrapTestDBname)
	suite.Require().NoError(err)
	suite.Equal(bootstrapTestDBname, other.Database)
	suite.False(other.Users.Exists)
	suite.False(other.Catalogs.Exists)
	suite.False(other.Ready())
}

func (suite *bootstrapTestSuite) TestBootstrapOnce() {
	store := suite.bootstrap(nil)

	report := suite.inspect()
	suite.True(report.Ready())
	suite.Equal(2, report.Users.Indexes)
	suite.Equal(3, report.Catalogs.Indexes)
	suite.Equal(int64(1), report.Users.Documents)
	suite.Equal(int64(0), report.Catalogs.Documents)

	schema := suite.schema(store)
	mdb.NewIndexTester().TestIndexes(suite.T(), &schema.Users.Collection, UsersIndexes()...)
	mdb.NewIndexTester().TestIndexes(suite.T(), &schema.Catalogs.Collection, CatalogIndexes()...)
}

func (suite *bootstrapTestSuite) TestSeedDocument() {
	store := suite.bootstrap(nil)
	schema := suite.schema(store)

	user, err := schema.Users.Find(bson.D{{Key: FieldUsername, Value: SeedUsername}})
	suite.Require().NoError(err)
	suite.False(user.ID().IsZero())
	expected := SeedUser()
	expected.Identity = user.Identity
	suite.Equal(expected, user)

	// No fields beyond the literal ones and the server-assigned _id.
	found, err := schema.Users.Collection.Find(user.Identity.Filter())
	suite.Require().NoError(err)
	doc := found.(bson.M)
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	suite.ElementsMatch([]string{"_id", "fName", "lName", "dob", "uName", "uPass"}, keys)
}

func (suite *bootstrapTestSuite) TestBootstrapTwice() {
	suite.bootstrap(nil)

	store, err := Bootstrap(suite.Access(), nil)
	suite.Require().Error(err)
	suite.Nil(store)
	suite.True(mdb.IsDuplicate(err))
	suite.True(errors.Is(err, ErrSeedUserExists))

	report := suite.inspect()
	suite.Equal(int64(1), report.Users.Documents)
	suite.Equal(2, report.Users.Indexes)
	suite.Equal(3, report.Catalogs.Indexes)
}

func (suite *bootstrapTestSuite) TestManualDuplicate() {
	store := suite.bootstrap(nil)
	schema := suite.schema(store)

	err := schema.Users.Create(&User{
		FirstName:    "Other",
		LastName:     "Person",
		DateOfBirth:  "2000-02-02",
		Username:     SeedUsername,
		PasswordHash: SeedPasswordHash,
	})
	suite.Require().Error(err)
	suite.True(mdb.IsDuplicate(err))

	// A different username is fine.
	suite.NoError(schema.Users.Create(&User{Username: "otheruser", PasswordHash: SeedPasswordHash}))
}

func (suite *bootstrapTestSuite) TestSchemaIdempotent() {
	store := suite.bootstrap(&Options{SchemaOnly: true})
	first := suite.inspect()
	names, err := store.CollectionNames()
	suite.Require().NoError(err)

	for i := 0; i < 3; i++ {
		suite.bootstrap(&Options{SchemaOnly: true})
		suite.schema(store)
	}

	again := suite.inspect()
	suite.Equal(first, again)
	suite.Equal(2, again.Users.Indexes)
	suite.Equal(3, again.Catalogs.Indexes)
	suite.Equal(int64(0), again.Users.Documents)
	suite.False(again.SeedPresent)
	againNames, err := store.CollectionNames()
	suite.Require().NoError(err)
	suite.ElementsMatch(names, againNames)

	// The seed step can still follow a schema only run.
	suite.NoError(InsertSeed(suite.schema(store).Users))
	suite.True(suite.inspect().Ready())
}

func (suite *bootstrapTestSuite) TestCatalogNoForeignKey() {
	store := suite.bootstrap(nil)
	schema := suite.schema(store)

	dangling := &Catalog{OwnerUserID: primitive.NewObjectID().Hex(), Name: "Nobody's Books"}
	suite.Require().NoError(schema.Catalogs.Create(dangling))
	arbitrary := &Catalog{OwnerUserID: "not even an id", Name: "Nobody's Books"}
	suite.Require().NoError(schema.Catalogs.Create(arbitrary), "name is not unique either")

	user, err := schema.Users.Find(bson.D{{Key: FieldUsername, Value: SeedUsername}})
	suite.Require().NoError(err)
	gatsby := Book{BID: "OL468431W", Title: "The Great Gatsby", AuthorFirst: "F. Scott", AuthorLast: "Fitzgerald", Date: 1925}
	owned := &Catalog{Name: "Favorites", Books: []Book{gatsby}}
	owned.OwnedBy(user)
	suite.Require().NoError(schema.Catalogs.Create(owned))

	found, err := schema.Catalogs.Find(bson.D{{Key: FieldOwnerUserID, Value: user.IDString()}})
	suite.Require().NoError(err)
	suite.Equal("Favorites", found.Name)
	suite.Equal([]Book{gatsby}, found.Books)
	suite.True(found.HasBook("OL468431W"))

	count, err := schema.Catalogs.Count(bson.D{{Key: FieldName, Value: "Nobody's Books"}})
	suite.Require().NoError(err)
	suite.Equal(int64(2), count)
}

func (suite *bootstrapTestSuite) TestUsernameQueryPlan() {
	store := suite.bootstrap(nil)

	var explained bson.M
	suite.Require().NoError(store.Database().RunCommand(context.Background(), bson.D{
		{Key: "explain", Value: bson.D{
			{Key: "find", Value: UsersCollection},
			{Key: "filter", Value: bson.D{{Key: FieldUsername, Value: SeedUsername}}},
		}},
		{Key: "verbosity", Value: "queryPlanner"},
	}).Decode(&explained))

	planner, ok := explained["queryPlanner"]
	suite.Require().True(ok, "explain has queryPlanner")
	var stages, indexes []string
	collectPlan(planner, &stages, &indexes)
	suite.NotContains(stages, "COLLSCAN")
	suite.Contains(indexes, UsernameIndex.Name())
}

// collectPlan gathers stage and index names from an explain document.
// Plan shapes vary by server version so every nested document is searched.
func collectPlan(node interface{}, stages, indexes *[]string) {
	switch value := node.(type) {
	case bson.M:
		for key, child := range value {
			switch key {
			case "stage":
				if stage, ok := child.(string); ok {
					*stages = append(*stages, stage)
				}
			case "indexName":
				if name, ok := child.(string); ok {
					*indexes = append(*indexes, name)
				}
			case "rejectedPlans":
				// Only the winning plan matters.
			default:
				collectPlan(child, stages, indexes)
			}
		}
	case bson.D:
		collectPlan(value.Map(), stages, indexes)
	case bson.A:
		for _, child := range value {
			collectPlan(child, stages, indexes)
		}
	}
}

func (suite *bootstrapTestSuite) TestCacheIndexes() {
	store := suite.bootstrap(&Options{SchemaOnly: true, CacheIndexes: true})

	for _, definition := range CacheDefinitions() {
		collection, err := mdb.ConnectCollection(store, &mdb.CollectionDefinition{Name: definition.Name})
		suite.Require().NoError(err)
		count, err := collection.IndexCount()
		suite.Require().NoError(err)
		suite.Equal(2, count, "index on %s", definition.Name)
	}

	report := suite.inspect()
	suite.Equal(2, report.Users.Indexes)
	suite.Equal(3, report.Catalogs.Indexes)
}
