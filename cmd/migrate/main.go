package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/johnquangdev/keynotes/internal/infrastructure/database"
	"github.com/johnquangdev/keynotes/pkg/config"
)

func main() {
	dir := flag.String("dir", database.MigrationsDir, "directory holding the sql-migrate files")
	maxN := flag.Int("max", 0, "apply at most this many migrations (0 = all)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-dir migrations] [-max n] up|down\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	var direction migrate.MigrationDirection
	switch flag.Arg(0) {
	case "", "up":
		direction = migrate.Up
	case "down":
		direction = migrate.Down
		if *maxN == 0 {
			*maxN = 1
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewPostgresDB(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Printf("🔄 Applying migrations from %s/ directory...", *dir)
	n, err := database.Migrate(db, *dir, direction, *maxN)
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Printf("✅ Successfully applied %d migration(s)!", n)
}
