package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/store"
)

func main() {
	_ = godotenv.Load()

	// CLI flags
	dbURL := flag.String("database-url", "", "Postgres connection string")
	prune := flag.Bool("prune", false, "Also delete expired admin sessions")
	flag.Parse()

	// Fall back to environment variables
	if *dbURL == "" {
		*dbURL = os.Getenv("LDV_DATABASE_URL")
	}
	if *dbURL == "" {
		*dbURL = os.Getenv("DATABASE_URL")
	}
	if *dbURL == "" {
		log.Fatal("database url is required (-database-url or LDV_DATABASE_URL)")
	}

	// Connect to database
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, *dbURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Schema and prune in one transaction
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, store.Schema); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Println("admin_sessions table is up to date")

	if *prune {
		n, err := store.NewPostgresSessionStore(tx).DeleteExpired(ctx, time.Now())
		if err != nil {
			log.Fatalf("Failed to prune sessions: %v", err)
		}
		log.Printf("Deleted %d expired sessions", n)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}
	log.Println("Migration completed successfully")
}
