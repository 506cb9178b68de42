package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"housing-coop-go/internal/app"
	"housing-coop-go/internal/config"
	"housing-coop-go/internal/db"
	"housing-coop-go/pkg/logger"
)

const dateLayout = "2006-01-02"

var (
	verbose    bool
	jsonOutput bool
	actorID    string
)

var rootCmd = &cobra.Command{
	Use:   "coopctl",
	Short: "Operate the housing cooperative ledger from the command line",
	Long: `coopctl runs the administrative jobs of the cooperative against the same database as the server.

Commands:
  migrate   - Apply pending schema migrations
  payments  - Missing deposits and current obligations
  round     - Start, inspect, accept or decline a bidding round
  rent      - Rent share estimates per household
  ledger    - Distribute the deposit fund, confirm and verify`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log database and config activity")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&actorID, "actor", "", "Household id recorded as the actor of mutations")
}

func newLogger() logger.Logger {
	if verbose {
		return logger.New(os.Stderr, slog.LevelDebug, logger.FormatTint)
	}
	return logger.Discard()
}

// connect loads config and opens the database. The returned cleanup closes the connection.
func connect() (config.Config, *gorm.DB, func(), error) {
	log := newLogger()
	cfg, err := config.Load(log)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("load config: %w", err)
	}
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, dbConn, func() { _ = db.Close(dbConn) }, nil
}

func withServices(fn func(ctx context.Context, services *app.Services) error) error {
	cfg, dbConn, cleanup, err := connect()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	return fn(ctx, app.NewServices(cfg, dbConn))
}

func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("--%s is required", flag)
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", flag, value)
	}
	return parsed, nil
}
