package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

type recomputeCmd struct {
	company string
	item    string
}

func (*recomputeCmd) Name() string     { return "recompute" }
func (*recomputeCmd) Synopsis() string { return "recalcula stock, estado y última reposición desde el libro" }
func (*recomputeCmd) Usage() string {
	return `inventoryctl recompute -company <id> -item <id>

  Reproduce los movimientos del ítem y sobrescribe los campos derivados.
  Es idempotente: ejecutarlo dos veces deja el mismo resultado.
`
}

func (c *recomputeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.company, "company", "", "empresa dueña del ítem")
	f.StringVar(&c.item, "item", "", "ítem a recalcular")
}

func (c *recomputeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.company == "" || c.item == "" {
		fail("-company y -item son obligatorios")
		return subcommands.ExitUsageError
	}
	svc, _, _, err := openServices(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	item, err := svc.Recompute.Recompute(ctx, c.company, c.item)
	if err != nil {
		fail("recálculo: %v", err)
		return subcommands.ExitFailure
	}
	if err := printJSON(inventory.ToItemResponse(item)); err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
