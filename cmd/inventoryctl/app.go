package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jhoicas/inventario-ledger/internal/bootstrap"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

var logLevel = flag.String("log-level", "", "nivel de log en stderr (por defecto LOG_LEVEL)")

// stdout destino de los reportes; los tests lo reemplazan.
var stdout io.Writer = os.Stdout

// openServices carga la configuración del entorno y arma los casos de uso.
func openServices(ctx context.Context) (*bootstrap.Services, *config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	level := cfg.App.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	log := logger.NewWriter(os.Stderr, level)
	svc, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return svc, cfg, log, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
