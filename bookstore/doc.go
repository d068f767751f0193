// Package bookstore bootstraps the bookstore MongoDB schema.
//
// Bootstrap selects the bookstore database, ensures the users and collections
// collections with their indexes, then inserts a single seed user.
// Every step except the seed insert is safe to repeat.
// The seed insert is unconditional, so a second run fails on the unique
// index over uName with an error for which mdb.IsDuplicate is true.
//
// Documents use the short field names shared with the bookstore API
// (fName, lName, dob, uName, uPass for users and uID, name for collections).
package bookstore
