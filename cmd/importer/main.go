package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JustJay7/legal-case-db/internal/config"
	"github.com/JustJay7/legal-case-db/internal/database"
	"github.com/JustJay7/legal-case-db/internal/etl"
	"github.com/JustJay7/legal-case-db/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// env is what every command needs once configuration has been read.
type env struct {
	cfg *config.Config
	log *logger.Logger
	db  *gorm.DB
}

func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Initialize(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) importer(ctx context.Context) (*etl.Importer, error) {
	source, err := etl.NewSource(ctx, e.cfg)
	if err != nil {
		return nil, err
	}
	return etl.NewImporter(e.db, source, e.log), nil
}

// rootCmd runs the full spreadsheet import.
var rootCmd = &cobra.Command{
	Use:   "importer",
	Short: "Import the case spreadsheets into the database",
	Long: `Reads case_table.xlsx, docket_table.xlsx, document_table.xlsx and
secondary_source.xlsx from IMPORT_SOURCE (a directory or an s3:// URL) and
loads them stage by stage. Each stage commits on its own.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = e.log.Sync() }()

		im, err := e.importer(cmd.Context())
		if err != nil {
			return err
		}

		report, err := im.Run(cmd.Context())
		for _, s := range report.Stages {
			e.log.Info("Stage summary",
				"stage", s.Stage,
				"rows", s.Rows,
				"inserted", s.Inserted,
				"skipped", s.Skipped,
			)
		}
		return err
	},
}

var legacyCmd = &cobra.Command{
	Use:   "legacy",
	Short: "Attach legacy area and organization strings to one case",
	Example: `  importer legacy --case-id 12 --areas "'Fraud','Housing'" --orgs "Open AI Inc."`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, _ := cmd.Flags().GetUint("case-id")
		areas, _ := cmd.Flags().GetString("areas")
		orgs, _ := cmd.Flags().GetString("orgs")

		if caseID == 0 {
			return errors.New("--case-id is required")
		}

		e, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = e.log.Sync() }()

		im, err := e.importer(cmd.Context())
		if err != nil {
			return err
		}

		linked, err := im.MigrateLegacy(cmd.Context(), caseID, areas, orgs)
		if err != nil {
			return err
		}

		fmt.Printf("Linked %d values to case %d\n", linked, caseID)
		return nil
	},
}

func init() {
	legacyCmd.Flags().Uint("case-id", 0, "ID of the case to update")
	legacyCmd.Flags().String("areas", "", "Legacy area list, e.g. \"'Fraud','Housing'\"")
	legacyCmd.Flags().String("orgs", "", "Legacy organization list")

	rootCmd.AddCommand(legacyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
