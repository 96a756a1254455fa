// Command seed bootstraps a supplier database with an administrator that
// holds every policy claim, plus optional sample suppliers. It shares the
// service's configuration and applies pending migrations first.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/utafrali/SupplierGo/internal/config"
	"github.com/utafrali/SupplierGo/internal/identity"
	"github.com/utafrali/SupplierGo/internal/repository/postgres"
	"github.com/utafrali/SupplierGo/internal/seed"
	"github.com/utafrali/SupplierGo/migrations"
	pkgconfig "github.com/utafrali/SupplierGo/pkg/config"
	"github.com/utafrali/SupplierGo/pkg/database"
	"github.com/utafrali/SupplierGo/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var seedCfg seed.Config
	if err := pkgconfig.Load(&seedCfg); err != nil {
		slog.Error("failed to load seed config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("supplier-seed", cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, seedCfg, log); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, seedCfg seed.Config, log *slog.Logger) error {
	pool, err := database.NewPool(ctx, cfg.Postgres(), log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, migrations.FS, log); err != nil {
		return err
	}

	passwordOpts := identity.DefaultPasswordOptions()
	passwordOpts.MinStrength = cfg.PasswordMinStrength

	roles := postgres.NewRoleRepository(pool)
	store := identity.NewManager(
		postgres.NewUserRepository(pool),
		postgres.NewClaimRepository(pool),
		roles,
		log,
		identity.WithPasswordOptions(passwordOpts),
	)

	seeder := seed.New(store, roles, postgres.NewSupplierRepository(pool), log)
	_, err = seeder.Run(ctx, seedCfg)
	return err
}
