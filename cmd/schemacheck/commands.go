package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"olgish-cakes/internal/database"
	"olgish-cakes/internal/jsonld"
	"olgish-cakes/internal/middleware"
	"olgish-cakes/internal/schema"
	"olgish-cakes/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errCatalogInvalid makes the process exit non-zero without printing usage
var errCatalogInvalid = errors.New("catalog has invalid structured data")

var (
	reportJSON bool

	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration

	migrationsDir string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every catalog schema",
	Long: `Builds the Product schema of every cake exactly as the API serves it,
validates each one and checks that no two products share an MPN.

Exits non-zero when any schema is invalid or an MPN is duplicated.`,
	RunE: runValidate,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token",
	RunE:  runToken,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE:  runMigrate,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied state of every migration",
	RunE:  runMigrateStatus,
}

func init() {
	validateCmd.Flags().BoolVar(&reportJSON, "json", false, "print the full report as JSON")

	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "token subject")
	tokenCmd.Flags().StringVar(&tokenRole, "role", middleware.RoleAdmin, "token role")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	tokenCmd.MarkFlagRequired("subject")

	migrateCmd.PersistentFlags().StringVar(&migrationsDir, "dir", database.MigrationsDir, "migrations directory")
	migrateCmd.AddCommand(migrateStatusCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	products, err := server.NewSchemaService(cfg, log, db, nil).Catalog(ctx)
	if err != nil {
		return err
	}

	validator := schema.NewValidator(cfg.Settings(), log)
	return checkCatalog(cmd.OutOrStdout(), validator, products, reportJSON)
}

// checkCatalog validates products, writes a summary or the JSON report to out
// and returns errCatalogInvalid when anything failed.
func checkCatalog(out io.Writer, validator *schema.Validator, products []schema.Product, asJSON bool) error {
	report := validator.ValidateCatalog(products)
	if !asJSON {
		validator.LogCatalogReport(report)
	}

	if asJSON {
		data, err := jsonld.MarshalIndent(report)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprintf(out, "%d/%d schemas valid\n", report.Valid, report.Total)
		for _, issue := range report.Issues {
			fmt.Fprintf(out, "  #%d %s (%s)\n", issue.Index, issue.Name, issue.SKU)
			for _, msg := range issue.Errors {
				fmt.Fprintf(out, "    - %s\n", msg)
			}
		}
		for _, mpn := range report.Uniqueness.Duplicates {
			fmt.Fprintf(out, "  duplicate MPN %s\n", mpn)
		}
	}

	if report.Valid != report.Total || !report.Uniqueness.IsValid {
		return errCatalogInvalid
	}
	return nil
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	token, err := middleware.IssueToken(cfg.JWT.Secret, tokenSubject, tokenRole, tokenTTL)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	return withDatabase(cmd, func(db database.Service, log *zap.Logger) error {
		return database.RunMigrations(db.DB(), migrationsDir, log)
	})
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	return withDatabase(cmd, func(db database.Service, log *zap.Logger) error {
		return database.MigrationStatus(db.DB(), migrationsDir)
	})
}

func withDatabase(cmd *cobra.Command, fn func(database.Service, *zap.Logger) error) error {
	cfg := loadConfig()
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db, log)
}
