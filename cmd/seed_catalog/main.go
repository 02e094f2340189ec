// seed_catalog carga productos y sabores desde un CSV separado por ";".
//
// Uso: go run ./cmd/seed_catalog [-latin1] catalogo.csv
// Lee la conexión de DATABASE_URL / DB_*. Los SKU y sabores que ya existen se omiten,
// así que puede ejecutarse varias veces sobre el mismo archivo.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/usecase"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/suplementos-api/pkg/config"
	"github.com/jhoicas/suplementos-api/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo está en ISO-8859-1")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog [-latin1] catalogo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_catalog"})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := parseCatalog(f, *latin1)
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := postgres.NewRepos(pool)
	products := usecase.NewProductUseCase(repos.Products, repos.Batches)
	flavors := usecase.NewFlavorUseCase(repos.Flavors, repos.Products)

	known, err := flavorIDs(ctx, flavors)
	if err != nil {
		log.Fatal().Err(err).Msg("listar sabores")
	}

	var created, skipped int
	for _, row := range rows {
		p, err := products.Create(ctx, row.Product)
		if errors.Is(err, domain.ErrConflict) {
			skipped++
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("sku", row.Product.SKU).Msg("crear producto")
		}
		created++
		for _, name := range row.Flavors {
			id, err := ensureFlavor(ctx, flavors, known, name)
			if err != nil {
				log.Fatal().Err(err).Str("flavor", name).Msg("crear sabor")
			}
			if _, err := flavors.AddToProduct(ctx, p.ID, dto.ProductFlavorRequest{FlavorID: id}); err != nil && !errors.Is(err, domain.ErrConflict) {
				log.Fatal().Err(err).Str("sku", p.SKU).Str("flavor", name).Msg("asociar sabor")
			}
		}
	}

	log.Info().Int("leidos", len(rows)).Int("creados", created).Int("omitidos", skipped).Msg("catálogo cargado")
}

// flavorIDs indexa los sabores existentes por nombre normalizado.
func flavorIDs(ctx context.Context, uc *usecase.FlavorUseCase) (map[string]string, error) {
	list, err := uc.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, f := range list {
		out[flavorKey(f.Name)] = f.ID
	}
	return out, nil
}

func ensureFlavor(ctx context.Context, uc *usecase.FlavorUseCase, known map[string]string, name string) (string, error) {
	if id, ok := known[flavorKey(name)]; ok {
		return id, nil
	}
	f, err := uc.Create(ctx, dto.FlavorRequest{Name: name})
	if err != nil {
		return "", err
	}
	known[flavorKey(f.Name)] = f.ID
	return f.ID, nil
}
