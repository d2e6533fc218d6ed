package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/imobiliaria/imoveis-api/internal/config"
	"github.com/imobiliaria/imoveis-api/internal/db"
	"github.com/imobiliaria/imoveis-api/internal/persistence"
	"github.com/imobiliaria/imoveis-api/internal/server"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	var gdb *gorm.DB
	if cfg.DatabaseURL != "" {
		gdb, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database: ", err)
		}
		defer db.Close(gdb)
	} else {
		log.Println("[server] DATABASE_URL not set, running in memory only")
	}

	ctx := context.Background()
	client := persistence.New(gdb)
	if client.Initialized() {
		if err := client.Migrate(ctx); err != nil {
			log.Fatal("Failed to migrate: ", err)
		}
	}

	deps, err := server.Bootstrap(ctx, cfg, client)
	if err != nil {
		log.Fatal("Failed to bootstrap: ", err)
	}
	srv := server.New(cfg, deps)
	defer srv.Close()

	log.Printf("[server] listening on %s", cfg.Addr())
	if err := http.ListenAndServe(cfg.Addr(), srv); err != nil {
		log.Fatal(err)
	}
}
