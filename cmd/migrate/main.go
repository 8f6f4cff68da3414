package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"sublease-marketplace/internal/config"
	"sublease-marketplace/internal/migration"
	"sublease-marketplace/utils"

	_ "github.com/lib/pq"
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	utils.Configure(cfg.Log.Level, cfg.Log.Format)

	if cfg.Database.Driver != "postgres" {
		utils.Fatal("Migrations only run against postgres; sqlite uses auto-migrate", map[string]any{"driver": cfg.Database.Driver})
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		utils.Fatal("Failed to open database", map[string]any{"error": err.Error()})
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		utils.Fatal("Failed to ping database", map[string]any{"error": err.Error()})
	}

	m, err := migration.New(db)
	if err != nil {
		utils.Fatal("Failed to create migrator", map[string]any{"error": err.Error()})
	}
	defer m.Close()

	utils.Info("Migration CLI started", map[string]any{"command": command})

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "step":
		if len(args) < 2 {
			utils.Fatal("Step count required. Usage: migrate step <n>", nil)
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			utils.Fatal("Invalid step count", map[string]any{"value": args[1]})
		}
		err = m.Steps(n)
	case "force":
		if len(args) < 2 {
			utils.Fatal("Version required. Usage: migrate force <version>", nil)
		}
		v, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			utils.Fatal("Invalid version number", map[string]any{"value": args[1]})
		}
		err = m.Force(v)
	case "version":
		version, dirty, vErr := m.Version()
		if vErr != nil {
			err = vErr
			break
		}
		utils.Info("Current migration version", map[string]any{"version": version, "dirty": dirty})
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		utils.Fatal("Migration command failed", map[string]any{"command": command, "error": err.Error()})
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate <command> [args]

Commands:
  up              apply all pending migrations
  down            roll back all migrations
  step <n>        apply n migrations (negative rolls back)
  force <version> set the version without running migrations
  version         print the current version

Connection settings come from config.yaml and SUBLEASE_DATABASE_* variables.`)
}
