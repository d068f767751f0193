// Package cli holds the flag, environment and logging setup shared by the commands.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/madkins23/go-mongo-bookstore/mdb"
)

// Setting keys, also bound to environment variables with the MONGO_ and LOG_ prefixes.
const (
	KeyURI      = "mongo_uri"
	KeyTimeout  = "mongo_timeout"
	KeyLogLevel = "log_level"
	KeyLogJSON  = "log_json"
)

// BindConnectionFlags adds the connection and logging flags to the command
// and binds them to viper so that environment variables can supply them.
func BindConnectionFlags(cmd *cobra.Command, v *viper.Viper) error {
	flags := cmd.Flags()
	flags.String("uri", mdb.DefaultURI, "MongoDB connection URI (env MONGO_URI)")
	flags.Duration("timeout", mdb.DefaultConnectTimeout, "Connect timeout (env MONGO_TIMEOUT)")
	flags.String("log-level", zerolog.InfoLevel.String(), "Log level (env LOG_LEVEL)")
	flags.Bool("log-json", false, "Log JSON instead of console output (env LOG_JSON)")

	for key, flag := range map[string]string{
		KeyURI:      "uri",
		KeyTimeout:  "timeout",
		KeyLogLevel: "log-level",
		KeyLogJSON:  "log-json",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	v.AutomaticEnv()
	return nil
}

// SetupLogger configures the global zerolog logger from the bound settings.
func SetupLogger(v *viper.Viper) error {
	level, err := zerolog.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	if v.GetBool(KeyLogJSON) {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	return nil
}

// Config builds the database access configuration from the bound settings.
func Config(v *viper.Viper) *mdb.Config {
	logger := log.Logger.With().Str("component", "mdb").Logger()
	return &mdb.Config{
		Options: options.Client().ApplyURI(v.GetString(KeyURI)),
		Logger:  &logger,
		Timeout: mdb.Timeout{Connect: v.GetDuration(KeyTimeout)},
	}
}
