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
	if err := newCommand(viper.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand(v *viper.Viper) *cobra.Command {
	var opts bookstore.Options

	cmd := &cobra.Command{
		Use:   "bookstore-init",
		Short: "Create the bookstore database schema and insert the seed user",
		Long: "Ensures the users and collections collections and their indexes in the bookstore database,\n" +
			"then inserts the seed user. Running it again fails on the seed insert unless --schema-only is set.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.SetupLogger(v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v, &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.SchemaOnly, "schema-only", false, "Skip the seed user insert")
	cmd.Flags().BoolVar(&opts.CacheIndexes, "cache-indexes", false, "Also create the API cache collections and indexes")
	if err := cli.BindConnectionFlags(cmd, v); err != nil {
		log.Fatal().Err(err).Msg("Flag setup")
	}

	return cmd
}

func run(v *viper.Viper, opts *bookstore.Options) error {
	access, err := mdb.Connect(bookstore.DatabaseName, cli.Config(v))
	if err != nil {
		log.Error().Err(err).Msg("Connect")
		return err
	}
	defer func() {
		if err := access.Disconnect(); err != nil {
			log.Warn().Err(err).Msg("Disconnect")
		}
	}()

	if _, err := bookstore.Bootstrap(access, opts); err != nil {
		log.Error().Err(err).Bool("duplicate", mdb.IsDuplicate(err)).Msg("Bootstrap")
		return err
	}

	return nil
}
