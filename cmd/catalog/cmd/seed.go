package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nhalm/pgxkit"
	"github.com/spf13/cobra"

	"github.com/productos/catalog-api/internal/repository"
	"github.com/productos/catalog-api/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the products table with synthetic data",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Int("total", 100000, "Number of products to insert")
	seedCmd.Flags().Int("batch-size", 1000, "Products per INSERT statement")
	seedCmd.Flags().Bool("truncate", true, "Empty the table before inserting")
	seedCmd.Flags().Uint64("seed", 0, "Random seed (0 picks one)")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	total, _ := cmd.Flags().GetInt("total")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	truncate, _ := cmd.Flags().GetBool("truncate")
	randomSeed, _ := cmd.Flags().GetUint64("seed")

	poolURL, err := cfg.PoolURL()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := pgxkit.NewDB()
	if err := db.Connect(ctx, poolURL); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = db.Shutdown(context.Background()) }()

	seeder := seed.NewSeeder(repository.NewSeedRepository(db), seed.NewGenerator(randomSeed), slog.Default())
	if _, err := seeder.Run(ctx, seed.Options{
		Total:     total,
		BatchSize: batchSize,
		Truncate:  truncate,
	}); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	return nil
}
