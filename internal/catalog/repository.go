package catalog

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

var ErrProductNotFound = errors.New("product not found")

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Sort orders accepted by ListProducts. SortFeatured is the default.
const (
	SortFeatured  = "featured"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortRating    = "rating"
)

// Filter narrows and orders a product listing. Zero value lists the whole
// catalog in featured order.
type Filter struct {
	Category string
	Query    string
	Sort     string
}

type Repository struct {
	db *sql.DB
}

// NewRepository opens the catalog database. Use ":memory:" in tests.
func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

// RunMigrations applies the embedded schema and seed migrations.
func (r *Repository) RunMigrations() error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

const productColumns = `id, name, price, original_price, image, category, description, rating, reviews, sizes, colors, in_stock, featured`

func scanProduct(rows *sql.Rows) (*Product, error) {
	p := &Product{}
	var originalPrice sql.NullFloat64
	var sizes, colors string

	err := rows.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&originalPrice,
		&p.Image,
		&p.Category,
		&p.Description,
		&p.Rating,
		&p.Reviews,
		&sizes,
		&colors,
		&p.InStock,
		&p.Featured,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	if originalPrice.Valid {
		p.OriginalPrice = &originalPrice.Float64
	}
	if sizes != "" {
		if err := json.Unmarshal([]byte(sizes), &p.Sizes); err != nil {
			return nil, fmt.Errorf("failed to decode sizes for product %s: %w", p.ID, err)
		}
	}
	if colors != "" {
		if err := json.Unmarshal([]byte(colors), &p.Colors); err != nil {
			return nil, fmt.Errorf("failed to decode colors for product %s: %w", p.ID, err)
		}
	}

	return p, nil
}

func collectProducts(rows *sql.Rows) ([]*Product, error) {
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

// GetProduct returns the catalog entry for id, or ErrProductNotFound.
func (r *Repository) GetProduct(ctx context.Context, id string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrProductNotFound
	}

	return products[0], nil
}

// ListProducts returns catalog entries matching the filter, ordered per
// the requested sort.
func (r *Repository) ListProducts(ctx context.Context, f Filter) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`

	var conditions []string
	var args []any

	if f.Category != "" {
		conditions = append(conditions, `LOWER(category) = LOWER(?)`)
		args = append(args, f.Category)
	}
	if f.Query != "" {
		conditions = append(conditions, `(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?)`)
		like := "%" + strings.ToLower(f.Query) + "%"
		args = append(args, like, like, like)
	}
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, ` AND `)
	}

	switch f.Sort {
	case SortPriceAsc:
		query += ` ORDER BY price ASC, id`
	case SortPriceDesc:
		query += ` ORDER BY price DESC, id`
	case SortRating:
		query += ` ORDER BY rating DESC, id`
	default:
		query += ` ORDER BY featured DESC, id`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	return collectProducts(rows)
}

// Related returns up to limit products sharing the category of id,
// excluding id itself.
func (r *Repository) Related(ctx context.Context, id string, limit int) ([]*Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE category = (SELECT category FROM products WHERE id = ?)
		  AND id != ?
		ORDER BY id
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, id, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query related products: %w", err)
	}

	return collectProducts(rows)
}

func (r *Repository) Close() error {
	return r.db.Close()
}
