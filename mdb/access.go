package mdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Access encapsulates database connection.
type Access struct {
	client   *mongo.Client
	database *mongo.Database
	config   Config
}

var (
	// DefaultURI is the default connection URI if not provided in Config.Options.
	DefaultURI = "mongodb://localhost:27017"

	// DefaultConnectTimeout is the default timeout for the initial connect.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultDisconnectTimeout is the default timeout for the disconnect.
	DefaultDisconnectTimeout = 10 * time.Second

	// DefaultPingTimeout is the default timeout for the ping to make sure the connection is up.
	DefaultPingTimeout = 2 * time.Second

	// DefaultCollectionTimeout is the default timeout for collection access.
	DefaultCollectionTimeout = time.Second

	// DefaultIndexTimeout is the default timeout for index access.
	DefaultIndexTimeout = 5 * time.Second
)

// Config items for Mongo DB connection.
type Config struct {
	// Base context for use in calls to Mongo.
	Ctx context.Context

	// Mongo options.
	Options *options.ClientOptions

	// Optional BSON codec registry for handling special types.
	Registry *bsoncodec.Registry

	// Logger for information messages, defaults to the global zerolog logger.
	// Errors should bubble up and be handled by client code.
	Logger *zerolog.Logger

	Timeout
}

// Timeout settings for Mongo DB access.
type Timeout struct {
	// Timeout for the initial connect.
	Connect time.Duration

	// Timeout for the disconnect.
	Disconnect time.Duration

	// Timeout for the ping to make sure the connection is up.
	Ping time.Duration

	// Timeout for collection access.
	Collection time.Duration

	// Timeout for indexes.
	Index time.Duration
}

var ErrNoDbName = errors.New("no database name")

// Connect to Mongo DB and return Access object.
// If the config is nil or partially filled the defaults above are applied.
func Connect(dbName string, config *Config) (*Access, error) {
	if dbName == "" {
		return nil, ErrNoDbName
	}

	config = fixConfig(config)
	ctx, cancel := context.WithTimeout(config.Ctx, config.Timeout.Connect)
	defer cancel()

	client, err := mongo.Connect(ctx, config.Options)
	if err != nil {
		return nil, fmt.Errorf("unable to connect mongo server: %w", err)
	}

	access := &Access{
		client:   client,
		database: client.Database(dbName),
		config:   *config,
	}

	if err = access.Ping(); err != nil {
		_ = client.Disconnect(config.Ctx)
		return nil, err
	}

	access.Info("Connected to MongoDB database " + access.database.Name())

	return access, nil
}

// ConnectOrPanic connects to Mongo DB and returns Access object or panics on error.
func ConnectOrPanic(dbName string, config *Config) *Access {
	access, err := Connect(dbName, config)
	if err != nil {
		panic(err)
	}

	return access
}

// Sibling returns an Access for another database on the same client.
// Mongo creates the database on the first write to it.
// The returned object shares the client so only one of them should be disconnected.
func (a *Access) Sibling(dbName string) (*Access, error) {
	if dbName == "" {
		return nil, ErrNoDbName
	}

	return &Access{
		client:   a.client,
		database: a.client.Database(dbName),
		config:   a.config,
	}, nil
}

// Disconnect Mongo DB client.
// Provided for use in defer statements.
func (a *Access) Disconnect() error {
	ctx, cancel := a.ContextWithTimeout(a.config.Timeout.Disconnect)
	defer cancel()
	if err := a.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("unable to disconnect mongo server: %w", err)
	}

	return nil
}

// DisconnectOrPanic disconnects the Mongo DB client or panics on error.
// Provided for use in defer statements.
func (a *Access) DisconnectOrPanic() {
	if err := a.Disconnect(); err != nil {
		panic(err)
	}
}

// Client returns the Mongo client object.
func (a *Access) Client() *mongo.Client {
	return a.client
}

// Context returns the base context for the object.
func (a *Access) Context() context.Context {
	return a.config.Ctx
}

// ContextWithTimeout returns the base context for the object with the specified timeout.
func (a *Access) ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(a.config.Ctx, timeout)
}

// Database returns the Mongo database object.
func (a *Access) Database() *mongo.Database {
	return a.database
}

// Ping executes a ping against the Mongo server.
// This is separated from Connect() so that it can be overridden if necessary.
func (a *Access) Ping() error {
	ctx, cancel := a.ContextWithTimeout(a.config.Timeout.Ping)
	defer cancel()
	err := a.client.Ping(ctx, readpref.Primary())
	if err != nil {
		return fmt.Errorf("unable to ping mongo server: %w", err)
	}

	return nil
}

// Logger returns the logger configured for this object.
func (a *Access) Logger() *zerolog.Logger {
	return a.config.Logger
}

// Info logs a simple message at info level tagged with the database name.
// This is used for a few calls within the Access code.
func (a *Access) Info(msg string) {
	a.config.Logger.Info().Str("db", a.database.Name()).Msg(msg)
}

func fixConfig(config *Config) *Config {
	if config == nil {
		config = &Config{}
	}

	if config.Ctx == nil {
		config.Ctx = context.Background()
	}

	if config.Options == nil {
		config.Options = options.Client()
	}
	if config.Options.GetURI() == "" {
		config.Options.ApplyURI(DefaultURI)
	}
	if config.Registry != nil {
		config.Options.SetRegistry(config.Registry)
	}

	if config.Logger == nil {
		logger := log.Logger.With().Str("component", "mdb").Logger()
		config.Logger = &logger
	}

	if config.Timeout.Connect == 0 {
		config.Timeout.Connect = DefaultConnectTimeout
	}

	if config.Timeout.Disconnect == 0 {
		config.Timeout.Disconnect = DefaultDisconnectTimeout
	}

	if config.Timeout.Ping == 0 {
		config.Timeout.Ping = DefaultPingTimeout
	}

	if config.Timeout.Collection == 0 {
		config.Timeout.Collection = DefaultCollectionTimeout
	}

	if config.Timeout.Index == 0 {
		config.Timeout.Index = DefaultIndexTimeout
	}

	return config
}

////////////////////////////////////////////////////////////////////////////////

var errMissingCollectionName = errors.New("no collection name argument")

// CollectionExists checks to see if a specific collection already exists.
func (a *Access) CollectionExists(name string) (bool, error) {
	if name == "" {
		return false, errMissingCollectionName
	}

	names, err := a.collectionNames(bson.M{"name": name})
	if err != nil {
		return false, err
	}

	for _, collName := range names {
		if collName == name {
			return true, nil
		}
	}

	return false, nil
}

// CollectionNames returns the names of all collections in the database.
func (a *Access) CollectionNames() ([]string, error) {
	return a.collectionNames(bson.D{})
}

func (a *Access) collectionNames(filter interface{}) ([]string, error) {
	ctx, cancel := a.ContextWithTimeout(a.config.Timeout.Collection)
	defer cancel()
	names, err := a.database.ListCollectionNames(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("getting collection names: %w", err)
	}

	return names, nil
}

// CollectionFinisher provides a way to add special processing when connecting a collection.
type CollectionFinisher func(access *Access, collection *Collection) error

// CollectionDefinition describes a collection to be connected.
// Finishers are run every time the collection is connected,
// not just when it is created, so they must be safe to repeat.
type CollectionDefinition struct {
	Name           string
	ValidationJSON string
	Finishers      []CollectionFinisher
}

// CollectionConnect acquires the defined collection into the specified Collection object,
// creating it if necessary and then running any finishers.
func (a *Access) CollectionConnect(collection *Collection, definition *CollectionDefinition) error {
	if definition == nil || definition.Name == "" {
		return errMissingCollectionName
	}

	exists, err := a.CollectionExists(definition.Name)
	if err != nil {
		return fmt.Errorf("does collection '%s' exist: %w", definition.Name, err)
	}

	if !exists {
		// Add option for validator JSON if it is provided.
		opts := make([]*options.CreateCollectionOptions, 0)
		if definition.ValidationJSON != "" {
			var validator interface{}
			if err := bson.UnmarshalExtJSON([]byte(definition.ValidationJSON), false, &validator); err != nil {
				return fmt.Errorf("unmarshal validator for collection: %w", err)
			}
			opts = append(opts, options.CreateCollection().SetValidator(validator))
		}

		ctx, cancel := a.ContextWithTimeout(a.config.Timeout.Collection)
		defer cancel()
		if err := a.database.CreateCollection(ctx, definition.Name, opts...); err != nil {
			// Someone else may have created it between the check and the create.
			var cmdErr mongo.CommandError
			if !errors.As(err, &cmdErr) || cmdErr.Name != "NamespaceExists" {
				return fmt.Errorf("create collection: %w", err)
			}
		} else {
			a.Info("Created collection " + definition.Name)
		}
	}

	collection.Access = a
	collection.Collection = a.database.Collection(definition.Name)
	collection.ctx = a.Context()

	for i, finisher := range definition.Finishers {
		if err := finisher(a, collection); err != nil {
			return fmt.Errorf("collection finisher #%d: %w", i, err)
		}
	}

	return nil
}

////////////////////////////////////////////////////////////////////////////////
// Functions to check for specific, known errors.

const (
	codeDuplicateKey     = 11000
	codeDocumentValidate = 121
)

// IsDuplicate checks to see if the specified error is for attempting to create a duplicate document.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}

	return hasWriteErrorCode(err, codeDuplicateKey)
}

// IsNotFound checks an error condition to see if it matches the underlying database "not found" error.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, mongo.ErrNoDocuments)
}

// IsValidationFailure checks to see if the specified error is for a validation failure.
func IsValidationFailure(err error) bool {
	if err == nil {
		return false
	}

	return hasWriteErrorCode(err, codeDocumentValidate)
}

func hasWriteErrorCode(err error, code int) bool {
	var e mongo.WriteException
	if errors.As(err, &e) {
		for _, we := range e.WriteErrors {
			if we.Code == code {
				return true
			}
		}
	}

	return false
}
