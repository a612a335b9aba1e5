package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "aplica las migraciones pendientes en PostgreSQL" }
func (*migrateCmd) Usage() string {
	return `inventoryctl migrate

  Requiere INVENTORY_STORE=postgres. Cada script se aplica una sola vez.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, cfg, log, err := openServices(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer svc.Close()
	if svc.Pool == nil {
		fail("el almacén %q no admite migraciones", cfg.Inventory.Store)
		return subcommands.ExitUsageError
	}

	applied, err := postgres.Migrate(ctx, svc.Pool)
	if err != nil {
		fail("migraciones: %v", err)
		return subcommands.ExitFailure
	}
	log.Info().Strs("applied", applied).Int("count", len(applied)).Msg("migraciones aplicadas")
	return subcommands.ExitSuccess
}
