// Command inventoryctl opera el libro de inventario desde la terminal:
// recálculo y auditoría de stock, valoración, reposición y migraciones.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&recomputeCmd{}, "libro")
	commander.Register(&auditCmd{}, "libro")
	commander.Register(&valuateCmd{}, "reportes")
	commander.Register(&lowStockCmd{}, "reportes")
	commander.Register(&migrateCmd{}, "base de datos")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
