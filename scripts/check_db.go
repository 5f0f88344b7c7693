//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"

	"fg-storefront/internal/config"

	"github.com/jackc/pgx/v5"
)

// Connects with the DB_* environment and reports the schema version and the
// row count of each storefront table. Run with: go run scripts/check_db.go
func main() {
	cfg, err := config.LoadImport()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName string
	if err := conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully connected to database: %s\n", dbName)

	var version int64
	var dirty bool
	if err := conn.QueryRow(ctx, "SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty); err != nil {
		fmt.Printf("No migrations applied yet (%v)\n", err)
		return
	}
	fmt.Printf("Schema version: %d (dirty: %t)\n", version, dirty)

	fmt.Println("\nTables:")
	for _, table := range []string{"products", "customers", "orders", "order_items", "customer_orders", "order_sequences"} {
		var n int64
		if err := conn.QueryRow(ctx, "SELECT count(*) FROM "+table).Scan(&n); err != nil {
			fmt.Fprintf(os.Stderr, "Count %s failed: %v\n", table, err)
			os.Exit(1)
		}
		fmt.Printf("  - %-16s %d\n", table, n)
	}
}
