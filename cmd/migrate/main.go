// migrate aplica o revierte las migraciones embebidas.
//
// Uso:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down
//	go run ./cmd/migrate version
//	go run ./cmd/migrate force <versión>
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/suplementos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/suplementos-api/pkg/config"
	"github.com/jhoicas/suplementos-api/pkg/logger"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "uso: migrate up|down|version|force <versión>")
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir migraciones")
	}
	defer m.Close()

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		var (
			v     uint
			dirty bool
		)
		if v, dirty, err = m.Version(); err == nil {
			fmt.Printf("versión %d (dirty=%t)\n", v, dirty)
		}
	case "force":
		if flag.NArg() != 2 {
			flag.Usage()
			os.Exit(2)
		}
		var v int
		if v, err = strconv.Atoi(flag.Arg(1)); err == nil {
			err = m.Force(v)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", flag.Arg(0)).Msg("migrate")
	}
}
