package main

import (
	"context"
	"flag"
	"log"

	"pagetree/internal/config"
	"pagetree/internal/repository/fixtures"
	"pagetree/internal/repository/postgres"
	postgresContent "pagetree/internal/repository/postgres/content"
	"pagetree/internal/schema"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop every content table before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only create tables and indexes, don't load records")
	clearData := flag.Bool("clear-data", false, "Delete every record (keep schema)")
	fixturesPath := flag.String("fixtures", "fixtures/sample.yaml", "YAML records to load")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	switch {
	case *clearData:
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	case *schemaOnly:
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	default:
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	registry, err := schema.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load content types: %v", err)
	}
	if cfg.SchemaDir != "" {
		if err := registry.LoadDir(cfg.SchemaDir); err != nil {
			log.Fatalf("Failed to load content types from %s: %v", cfg.SchemaDir, err)
		}
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	records := postgresContent.NewRecordRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	})
	txManager := postgres.NewTransactionManager(pool, logger)
	kinds := registry.All()

	if *dropTables {
		log.Println("🗑️  Dropping content tables...")
		for _, ct := range kinds {
			if err := records.DropTable(ctx, ct); err != nil {
				log.Fatalf("Failed to drop tables: %v", err)
			}
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	for _, ct := range kinds {
		if err := records.EnsureTable(ctx, ct); err != nil {
			log.Fatalf("Failed to run schema: %v", err)
		}
	}
	log.Printf("✅ Schema ready (%d content types)", len(kinds))

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		for _, ct := range kinds {
			if err := records.Truncate(ctx, ct); err != nil {
				log.Fatalf("Failed to clear data: %v", err)
			}
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	// One transaction so a bad record leaves no half-loaded hierarchy
	log.Printf("📝 Loading records from %s...", *fixturesPath)
	var loaded int
	err = txManager.ExecTx(ctx, func(ctx context.Context) error {
		for _, ct := range kinds {
			if err := records.Truncate(ctx, ct); err != nil {
				return err
			}
		}
		n, err := fixtures.LoadFile(ctx, records, registry, *fixturesPath)
		if err != nil {
			return err
		}
		loaded = n

		// Fixtures carry explicit ids
		for _, ct := range kinds {
			if err := records.SyncSequence(ctx, ct); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("🎉 Seeding complete! %d records loaded", loaded)
}
