package mdb

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/madkins23/go-mongo-bookstore/mdbid"
)

var testValidatorJSON = `{
	"$jsonSchema": {
		"bsonType": "object",
		"required": ["alpha", "bravo", "charlie"],
		"properties": {
			"alpha": {
				"bsonType": "string"
			},
			"bravo": {
				"bsonType": "int"
			},
			"charlie": {
				"bsonType": "string"
			}
		}
	}
}`

var (
	testCollection = &CollectionDefinition{
		Name: "test-collection",
	}
	testCollectionValidation = &CollectionDefinition{
		Name:           "test-collection-validation",
		ValidationJSON: testValidatorJSON,
	}
)

////////////////////////////////////////////////////////////////////////////////

type testItem struct {
	mdbid.Identity `bson:"inline"`
	Alpha          string `bson:"alpha"`
	Bravo          int    `bson:"bravo"`
	Charlie        string `bson:"charlie,omitempty"`
}

func (ti *testItem) Filter() bson.D {
	return bson.D{
		{Key: "alpha", Value: ti.Alpha},
		{Key: "bravo", Value: ti.Bravo},
	}
}

////////////////////////////////////////////////////////////////////////////////

var (
	testItem1 = &testItem{
		Alpha:   "one",
		Bravo:   1,
		Charlie: "One is the loneliest number",
	}
	testItem2 = &testItem{
		Alpha:   "two",
		Bravo:   2,
		Charlie: "It takes two to tango",
	}
	testItem3 = &testItem{
		Alpha:   "three",
		Bravo:   3,
		Charlie: "Three can keep a secret if two of them are dead",
	}
	testKeyOfTheBeast = &testItem{
		Alpha: "beast",
		Bravo: 666,
	}
	testSimplyInvalid = &testItem{
		Alpha: "Invalid",
		Bravo: 13,
		// Missing charlie which is required by the JSON validation above.
	}
)
