package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

type auditCmd struct {
	company string
	item    string
	repair  bool
}

func (*auditCmd) Name() string     { return "audit" }
func (*auditCmd) Synopsis() string { return "compara el stock cacheado con el reproducido desde el libro" }
func (*auditCmd) Usage() string {
	return `inventoryctl audit -company <id> [-item <id>] [-repair]

  Sin -item audita todos los ítems de la empresa. Con -repair recalcula los
  ítems desincronizados. Sin -repair termina con código 1 si hay diferencias.
`
}

func (c *auditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.company, "company", "", "empresa a auditar")
	f.StringVar(&c.item, "item", "", "auditar solo este ítem")
	f.BoolVar(&c.repair, "repair", false, "recalcular los ítems desincronizados")
}

func (c *auditCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.company == "" {
		fail("-company es obligatorio")
		return subcommands.ExitUsageError
	}
	svc, _, log, err := openServices(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	var reports []dto.AuditReportDTO
	if c.item != "" {
		r, err := svc.Recompute.Audit(ctx, c.company, c.item)
		if err != nil {
			fail("auditoría: %v", err)
			return subcommands.ExitFailure
		}
		if !r.InSync && c.repair {
			if _, err := svc.Recompute.Recompute(ctx, c.company, c.item); err != nil {
				fail("reparación: %v", err)
				return subcommands.ExitFailure
			}
			if r, err = svc.Recompute.Audit(ctx, c.company, c.item); err != nil {
				fail("auditoría: %v", err)
				return subcommands.ExitFailure
			}
		}
		reports = append(reports, *r)
	} else {
		reports, err = svc.Recompute.AuditAll(ctx, c.company, c.repair)
		if err != nil {
			fail("auditoría: %v", err)
			return subcommands.ExitFailure
		}
	}

	if err := printJSON(reports); err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	drift := 0
	for _, r := range reports {
		if !r.InSync {
			drift++
		}
	}
	switch {
	case drift > 0 && c.repair:
		log.Info().Int("items", drift).Msg("ítems desincronizados recalculados")
	case drift > 0:
		log.Warn().Int("items", drift).Msg("ítems desincronizados")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
