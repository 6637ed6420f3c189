// seed carga el catálogo de demostración en PostgreSQL (o lo escribe como script SQL).
//
// Uso: go run ./cmd/seed [ruta/salida.sql]
// Sin argumento usa la configuración de DB (DATABASE_URL, DB_HOST, ...) y hace upsert por ID.
// Con argumento escribe el script con el esquema y los INSERT en esa ruta.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhoicas/vitrine-api/internal/domain/entity"
	"github.com/jhoicas/vitrine-api/internal/infrastructure/memory"
	"github.com/jhoicas/vitrine-api/internal/infrastructure/postgres"
	"github.com/jhoicas/vitrine-api/pkg/config"
)

func main() {
	products := memory.DemoProducts(time.Now().UTC())

	if len(os.Args) > 1 {
		if err := writeSQL(os.Args[1], products); err != nil {
			fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Escrito %s (%d productos)\n", os.Args[1], len(products))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Esquema: %v\n", err)
		os.Exit(1)
	}
	repo := postgres.NewProductRepository(pool)
	for i := range products {
		if err := repo.Upsert(ctx, &products[i]); err != nil {
			fmt.Fprintf(os.Stderr, "Producto %s: %v\n", products[i].ID, err)
			os.Exit(1)
		}
	}
	fmt.Printf("Catálogo cargado: %d productos\n", len(products))
}

func writeSQL(path string, products []entity.Product) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de demostración generado por cmd/seed\n")
	b.WriteString(postgres.SchemaDDL())
	b.WriteString("\n")
	for _, p := range products {
		fmt.Fprintf(&b,
			"INSERT INTO products (id, sku, name, category, unit_price, on_hand, updated_at) VALUES ('%s', '%s', '%s', '%s', %s, %d, '%s')\n"+
				"  ON CONFLICT (id) DO UPDATE SET sku = EXCLUDED.sku, name = EXCLUDED.name, category = EXCLUDED.category,\n"+
				"  unit_price = EXCLUDED.unit_price, on_hand = EXCLUDED.on_hand, updated_at = EXCLUDED.updated_at;\n",
			esc(p.ID), esc(p.SKU), esc(p.Name), esc(p.Category), p.UnitPrice.StringFixed(2), p.OnHand,
			p.UpdatedAt.Format(time.RFC3339))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func esc(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
