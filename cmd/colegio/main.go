package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/avaldiviar/colegio/internal/api"
	"github.com/avaldiviar/colegio/internal/cli"
	"github.com/avaldiviar/colegio/internal/config"
	"github.com/avaldiviar/colegio/internal/constants"
	"github.com/avaldiviar/colegio/internal/logger"
	"github.com/avaldiviar/colegio/internal/recents"
)

var CLI struct {
	Version kong.VersionFlag
	Debug   bool `help:"Verbose logging to stderr."`

	Tui             cli.TuiCmd             `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Buscar          cli.BuscarCmd          `cmd:"" help:"Run one remote search."`
	Pagar           cli.PagarCmd           `cmd:"" help:"Register a payment and save the ticket."`
	CerrarAnio      cli.CerrarAnioCmd      `cmd:"" name:"cerrar-anio" help:"Close an academic year."`
	AnularMatricula cli.AnularMatriculaCmd `cmd:"" name:"anular-matricula" help:"Void an enrollment."`
	Doctor          cli.DoctorCmd          `cmd:"" help:"Run environment diagnostics."`
	Config          cli.ConfigCmd          `cmd:"" help:"Print the effective configuration."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Administrative client for the school backend"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, DataDir: cfg.DataDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client, err := api.New(cfg.BaseURL, cfg.Token, cfg.Timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appCtx := &cli.Context{
		Config:  cfg,
		Client:  client,
		Recents: recents.NewStore(filepath.Join(cfg.DataDir, "recents.db")),
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
