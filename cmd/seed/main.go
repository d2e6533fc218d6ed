// Command seed writes the embedded sample listings to the database,
// skipping ids that are already stored.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/imobiliaria/imoveis-api/internal/db"
	"github.com/imobiliaria/imoveis-api/internal/persistence"
	"github.com/imobiliaria/imoveis-api/internal/property"
	"github.com/imobiliaria/imoveis-api/internal/seeds"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres connection string")
	dryRun := flag.Bool("dry-run", false, "list what would be inserted without writing")
	flag.Parse()

	gdb, err := db.Open(*dsn)
	if err != nil {
		log.Fatalf("❌ Connect failed: %v", err)
	}
	defer db.Close(gdb)

	inserted, skipped, err := run(context.Background(), persistence.New(gdb), *dryRun)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
	log.Printf("✅ Seeded %d properties (%d already present)", inserted, skipped)
}

type propertyRepo interface {
	GetProperty(ctx context.Context, id int) (property.Property, error)
	CreateProperty(ctx context.Context, p property.Property) error
}

type seedRepo interface {
	propertyRepo
	Migrate(ctx context.Context) error
}

// run migrates and seeds. A dry run writes nothing, DDL included.
func run(ctx context.Context, repo seedRepo, dryRun bool) (inserted, skipped int, err error) {
	if !dryRun {
		if err := repo.Migrate(ctx); err != nil {
			return 0, 0, fmt.Errorf("migrate: %w", err)
		}
	}
	return seedProperties(ctx, repo, dryRun)
}

func seedProperties(ctx context.Context, repo propertyRepo, dryRun bool) (inserted, skipped int, err error) {
	items, err := seeds.Properties(time.Now().UTC())
	if err != nil {
		return 0, 0, err
	}

	for _, p := range items {
		_, err := repo.GetProperty(ctx, p.ID)
		switch {
		case err == nil:
			skipped++
			continue
		case !errors.Is(err, property.ErrNotFound):
			return inserted, skipped, err
		}

		if dryRun {
			log.Printf("would insert property %d %q", p.ID, p.Title)
			inserted++
			continue
		}
		if err := repo.CreateProperty(ctx, p); err != nil {
			return inserted, skipped, err
		}
		inserted++
	}
	return inserted, skipped, nil
}
