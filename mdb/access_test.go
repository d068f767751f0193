package mdb

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestConnectNoName(t *testing.T) {
	access, err := Connect("", nil)
	assert.ErrorIs(t, err, ErrNoDbName)
	assert.Nil(t, access)
}

func TestConnectOrPanic(t *testing.T) {
	// Cause a failure by using a bad URI.
	opts := options.Client()
	opts.ApplyURI("bad URI")
	assert.Panics(t, func() {
		ConnectOrPanic("noSuchDB", &Config{Options: opts})
	}, "TestConnectOrPanic did not panic")
}

func TestFixConfigDefaults(t *testing.T) {
	config := fixConfig(nil)
	require.NotNil(t, config)
	assert.NotNil(t, config.Ctx)
	require.NotNil(t, config.Options)
	assert.Equal(t, DefaultURI, config.Options.GetURI())
	assert.NotNil(t, config.Logger)
	assert.Equal(t, DefaultConnectTimeout, config.Timeout.Connect)
	assert.Equal(t, DefaultDisconnectTimeout, config.Timeout.Disconnect)
	assert.Equal(t, DefaultPingTimeout, config.Timeout.Ping)
	assert.Equal(t, DefaultCollectionTimeout, config.Timeout.Collection)
	assert.Equal(t, DefaultIndexTimeout, config.Timeout.Index)
}

func TestFixConfigKeepsSettings(t *testing.T) {
	const uri = "mongodb://mongo.example:27017"
	config := fixConfig(&Config{
		Options: options.Client().ApplyURI(uri),
		Timeout: Timeout{Connect: 3 * DefaultPingTimeout},
	})
	assert.Equal(t, uri, config.Options.GetURI())
	assert.Equal(t, 3*DefaultPingTimeout, config.Timeout.Connect)
	assert.Equal(t, DefaultPingTimeout, config.Timeout.Ping)
}

func TestSibling(t *testing.T) {
	client, err := mongo.NewClient(options.Client().ApplyURI(DefaultURI))
	require.NoError(t, err)
	access := &Access{client: client, database: client.Database("first"), config: *fixConfig(nil)}

	sibling, err := access.Sibling("second")
	require.NoError(t, err)
	assert.Equal(t, "second", sibling.Database().Name())
	assert.Equal(t, "first", access.Database().Name())
	assert.Same(t, access.Client(), sibling.Client())

	_, err = access.Sibling("")
	assert.ErrorIs(t, err, ErrNoDbName)
}

func writeException(code int) error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Index: 0, Code: code, Message: "test"}},
	}
}

func TestIsDuplicate(t *testing.T) {
	assert.False(t, IsDuplicate(nil))
	assert.False(t, IsDuplicate(errors.New("plain")))
	assert.False(t, IsDuplicate(writeException(codeDocumentValidate)))
	assert.True(t, IsDuplicate(writeException(codeDuplicateKey)))
	assert.True(t, IsDuplicate(fmt.Errorf("insert item: %w", writeException(codeDuplicateKey))))
}

func TestIsValidationFailure(t *testing.T) {
	assert.False(t, IsValidationFailure(nil))
	assert.False(t, IsValidationFailure(writeException(codeDuplicateKey)))
	assert.True(t, IsValidationFailure(fmt.Errorf("insert item: %w", writeException(codeDocumentValidate))))
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(writeException(codeDuplicateKey)))
	assert.True(t, IsNotFound(mongo.ErrNoDocuments))
	assert.True(t, IsNotFound(fmt.Errorf("no item: %w", mongo.ErrNoDocuments)))
}
