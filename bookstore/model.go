package bookstore

import (
	"github.com/madkins23/go-mongo-bookstore/mdbid"
)

// User is a record in the users collection.
// Only uniqueness of Username is enforced, by index.
type User struct {
	mdbid.Identity `bson:"inline"`
	FirstName      string `bson:"fName"`
	LastName       string `bson:"lName"`
	DateOfBirth    string `bson:"dob"`
	Username       string `bson:"uName"`
	PasswordHash   string `bson:"uPass"`
}

// Book is an entry embedded in a Catalog.
// BID is the Open Library work key (e.g. OL45804W).
type Book struct {
	BID         string `bson:"bID"`
	Title       string `bson:"title,omitempty"`
	AuthorFirst string `bson:"authorF,omitempty"`
	AuthorLast  string `bson:"authorL,omitempty"`
	Date        int    `bson:"date,omitempty"`
	Genre       string `bson:"genre,omitempty"`
	Image       string `bson:"image,omitempty"`
}

// Catalog is a record in the collections collection.
// OwnerUserID holds the hex ObjectID of a User but is not checked against the users collection.
type Catalog struct {
	mdbid.Identity `bson:"inline"`
	OwnerUserID    string `bson:"uID"`
	Name           string `bson:"name"`
	Image          string `bson:"image,omitempty"`
	Books          []Book `bson:"books,omitempty"`
}

// OwnedBy sets the owner reference from a stored user.
func (c *Catalog) OwnedBy(user *User) {
	c.OwnerUserID = user.IDString()
}

// HasBook returns true if a book with the specified bID is in the catalog.
func (c *Catalog) HasBook(bID string) bool {
	for _, book := range c.Books {
		if book.BID == bID {
			return true
		}
	}
	return false
}
