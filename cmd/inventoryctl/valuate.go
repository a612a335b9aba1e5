package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

type valuateCmd struct {
	company  string
	item     string
	method   string
	category string
	pdf      string
}

func (*valuateCmd) Name() string     { return "valuate" }
func (*valuateCmd) Synopsis() string { return "valora el stock de un ítem o de toda la empresa" }
func (*valuateCmd) Usage() string {
	return `inventoryctl valuate -company <id> [-item <id>] [-method current|fifo|lifo|weighted_average] [-category <c>] [-pdf <archivo>]

  Sin -item genera el reporte de la empresa. Con -pdf lo escribe como PDF.
  Sin -method se usa INVENTORY_VALUATION_METHOD.
`
}

func (c *valuateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.company, "company", "", "empresa a valorar")
	f.StringVar(&c.item, "item", "", "valorar solo este ítem")
	f.StringVar(&c.method, "method", "", "método de valoración")
	f.StringVar(&c.category, "category", "", "filtrar el reporte por categoría")
	f.StringVar(&c.pdf, "pdf", "", "archivo PDF de salida para el reporte")
}

func (c *valuateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.company == "" {
		fail("-company es obligatorio")
		return subcommands.ExitUsageError
	}
	if c.item != "" && c.pdf != "" {
		fail("-pdf solo aplica al reporte de empresa")
		return subcommands.ExitUsageError
	}
	svc, _, log, err := openServices(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	switch {
	case c.item != "":
		v, err := svc.Valuation.Valuate(ctx, c.company, c.item, c.method)
		if err != nil {
			fail("valoración: %v", err)
			return subcommands.ExitFailure
		}
		err = printJSON(v)
		if err != nil {
			fail("%v", err)
			return subcommands.ExitFailure
		}
	case c.pdf != "":
		doc, err := svc.Valuation.ReportPDF(ctx, c.company, c.method, c.category)
		if err != nil {
			fail("reporte PDF: %v", err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(c.pdf, doc, 0o644); err != nil {
			fail("escribir %s: %v", c.pdf, err)
			return subcommands.ExitFailure
		}
		log.Info().Str("file", c.pdf).Int("bytes", len(doc)).Msg("reporte PDF generado")
	default:
		report, err := svc.Valuation.Report(ctx, c.company, c.method, c.category)
		if err != nil {
			fail("reporte: %v", err)
			return subcommands.ExitFailure
		}
		if err := printJSON(report); err != nil {
			fail("%v", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
