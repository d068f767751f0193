package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/madkins23/go-mongo-bookstore/bookstore"
	"github.com/madkins23/go-mongo-bookstore/internal/cli"
	"github.com/madkins23/go-mongo-bookstore/mdb"
)

func main() {
	v := viper.New()
	cmd := &cobra.Command{
		Use:           "dbping [dbname]",
		Short:         "Ping MongoDB and report the state of the bookstore schema",
		Long:          "Ping MongoDB and report the bookstore collections in dbname (default " + bookstore.DatabaseName + ").",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.SetupLogger(v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dbName := bookstore.DatabaseName
			if len(args) > 0 {
				dbName = args[0]
			}
			return ping(v, dbName)
		},
	}
	if err := cli.BindConnectionFlags(cmd, v); err != nil {
		log.Fatal().Err(err).Msg("Flag setup")
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func ping(v *viper.Viper, dbName string) error {
	access, err := mdb.Connect(dbName, cli.Config(v))
	if err != nil {
		log.Error().Err(err).Str("db", dbName).Msg("Unable to connect")
		return err
	}
	defer func() {
		if err := access.Disconnect(); err != nil {
			log.Error().Err(err).Str("db", dbName).Msg("Unable to disconnect")
		}
	}()

	report, err := bookstore.InspectDatabase(access, dbName)
	if err != nil {
		log.Error().Err(err).Msg("Unable to inspect")
		return err
	}
	report.Log(&log.Logger)

	return nil
}
