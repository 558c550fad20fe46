//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"

	"checkout-wizard/internal/config"

	"github.com/jackc/pgx/v5"
)

// Checks that the configured database is reachable and migrated, and lists
// the carts it can serve. Reads the same DB_* variables as the API server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
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
	err = conn.QueryRow(ctx, "SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Schema not migrated: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Schema version %d (dirty: %t)\n", version, dirty)

	rows, err := conn.Query(ctx, `
		SELECT c.id, COUNT(ci.product_id), COALESCE(SUM(ci.quantity * p.price), 0)
		FROM carts c
		LEFT JOIN cart_items ci ON ci.cart_id = c.id
		LEFT JOIN products p ON p.id = ci.product_id
		GROUP BY c.id
		ORDER BY c.id`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	fmt.Println("\nCarts:")
	for rows.Next() {
		var (
			id       string
			items    int
			subtotal float64
		)
		if err := rows.Scan(&id, &items, &subtotal); err != nil {
			fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  - %s: %d items, subtotal %.2f\n", id, items, subtotal)
	}
	if err := rows.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Rows failed: %v\n", err)
		os.Exit(1)
	}
}
