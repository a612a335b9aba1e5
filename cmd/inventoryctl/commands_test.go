package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := stdout
	stdout = buf
	t.Cleanup(func() { stdout = prev })
	return buf
}

func exec(cmd subcommands.Command) subcommands.ExitStatus {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)
	return cmd.Execute(context.Background(), fs)
}

// ──────────────────────────────────────────────────────────────────────────────

func TestComandos_SinEmpresaEsErrorDeUso(t *testing.T) {
	assert.Equal(t, subcommands.ExitUsageError, exec(&recomputeCmd{}))
	assert.Equal(t, subcommands.ExitUsageError, exec(&auditCmd{}))
	assert.Equal(t, subcommands.ExitUsageError, exec(&valuateCmd{}))
	assert.Equal(t, subcommands.ExitUsageError, exec(&lowStockCmd{}))
}

func TestValuate_PDFSoloParaReporteDeEmpresa(t *testing.T) {
	cmd := &valuateCmd{company: "co-1", item: "it-1", pdf: "out.pdf"}
	assert.Equal(t, subcommands.ExitUsageError, cmd.Execute(context.Background(), flag.NewFlagSet("valuate", flag.ContinueOnError)))
}

func TestLowStock_AlmacenEnMemoriaVacio(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "memory")
	out := captureStdout(t)

	cmd := &lowStockCmd{company: "co-1"}
	require.Equal(t, subcommands.ExitSuccess, cmd.Execute(context.Background(), flag.NewFlagSet("low-stock", flag.ContinueOnError)))

	var report dto.LowStockReportDTO
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Empty(t, report.Items)
	assert.Equal(t, 0, report.Summary.TotalItems)
}

func TestAudit_EmpresaSinItemsEstaSincronizada(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "memory")
	out := captureStdout(t)

	cmd := &auditCmd{company: "co-1", repair: true}
	require.Equal(t, subcommands.ExitSuccess, cmd.Execute(context.Background(), flag.NewFlagSet("audit", flag.ContinueOnError)))
	assert.Contains(t, out.String(), "[]")
}

func TestRecompute_ItemInexistenteFalla(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "memory")
	captureStdout(t)

	cmd := &recomputeCmd{company: "co-1", item: "no-existe"}
	assert.Equal(t, subcommands.ExitFailure, cmd.Execute(context.Background(), flag.NewFlagSet("recompute", flag.ContinueOnError)))
}

func TestMigrate_RequierePostgres(t *testing.T) {
	t.Setenv("INVENTORY_STORE", "memory")
	assert.Equal(t, subcommands.ExitUsageError, (&migrateCmd{}).Execute(context.Background(), flag.NewFlagSet("migrate", flag.ContinueOnError)))
}
