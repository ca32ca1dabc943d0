package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-arcade/bookbuild/internal/engine/conf"
	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/repo"
	"github.com/go-arcade/bookbuild/pkg/database"
	"github.com/go-arcade/bookbuild/pkg/http/jwt"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/go-arcade/bookbuild/pkg/version"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "bookbuild-cli",
	Short: "bookbuild cli is a command line tool",
	Long:  "bookbuild cli is a command line tool for operating a bookbuild deployment",
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			return
		}
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		appConf, err := conf.LoadConfigFile(configFile)
		if err != nil {
			return err
		}
		if _, err := log.NewLog(&appConf.Log); err != nil {
			return err
		}

		db, err := database.NewDatabase(appConf.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		if err := repo.NewStore(db).AutoMigrate(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}

var (
	tokenIssuer string
	tokenTTL    time.Duration
)

// tokenCmd mints an issuer bearer token. Identity is asserted by whoever
// holds the signing key; there is no account store.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an issuer bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenIssuer == "" {
			return fmt.Errorf("--issuer is required")
		}
		appConf, err := conf.LoadConfigFile(configFile)
		if err != nil {
			return err
		}
		ttl := tokenTTL
		if ttl <= 0 {
			ttl = appConf.Http.Auth.AccessExpire
		}
		token, err := jwt.GenToken(string(core.RoleIssuer), tokenIssuer, "",
			[]byte(appConf.Http.Auth.SecretKey), appConf.Http.Auth.Issuer, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "conf", "c", "conf.d/config.toml", "conf file path")
	tokenCmd.Flags().StringVar(&tokenIssuer, "issuer", "", "issuer id the token is minted for")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime, defaults to http.auth.accessExpire")

	rootCmd.AddCommand(version.VersionCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
