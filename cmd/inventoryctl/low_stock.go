package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"
)

type lowStockCmd struct {
	company  string
	category string
}

func (*lowStockCmd) Name() string     { return "low-stock" }
func (*lowStockCmd) Synopsis() string { return "lista los ítems en o bajo su stock mínimo con sugerencia de pedido" }
func (*lowStockCmd) Usage() string {
	return `inventoryctl low-stock -company <id> [-category <c>]
`
}

func (c *lowStockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.company, "company", "", "empresa a consultar")
	f.StringVar(&c.category, "category", "", "filtrar por categoría")
}

func (c *lowStockCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.company == "" {
		fail("-company es obligatorio")
		return subcommands.ExitUsageError
	}
	svc, _, _, err := openServices(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	report, err := svc.Replenishment.GetLowStockReport(ctx, c.company, c.category)
	if err != nil {
		fail("reporte de reposición: %v", err)
		return subcommands.ExitFailure
	}
	if err := printJSON(report); err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
