package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

type SQLiteCatalog struct {
	db *sql.DB
}

func NewSQLiteCatalog(dbPath string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// a second connection to ":memory:" would see an empty database
	db.SetMaxOpenConns(1)

	return &SQLiteCatalog{db: db}, nil
}

func (r *SQLiteCatalog) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

const productColumns = `id, sku, name, list_price, sale_price, on_sale, stock, thumbnail`

func (r *SQLiteCatalog) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	// variants are loaded on the same single connection, so release it first
	rows.Close()

	for _, p := range products {
		if err := r.loadVariants(ctx, p); err != nil {
			return nil, err
		}
	}

	return products, nil
}

func (r *SQLiteCatalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadVariants(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*domain.Product, error) {
	p := &domain.Product{}
	var sale decimal.NullDecimal
	var onSale int
	var thumbnail sql.NullString

	err := s.Scan(&p.ID, &p.SKU, &p.Name, &p.ListPrice, &sale, &onSale, &p.Stock, &thumbnail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	if sale.Valid {
		sp := sale.Decimal
		p.SalePrice = &sp
	}
	p.OnSale = onSale != 0
	p.Thumbnail = thumbnail.String
	return p, nil
}

func (r *SQLiteCatalog) loadVariants(ctx context.Context, p *domain.Product) error {
	sizeRows, err := r.db.QueryContext(ctx, `SELECT id, code FROM product_sizes WHERE product_id = ? ORDER BY id`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to query sizes: %w", err)
	}
	for sizeRows.Next() {
		var s domain.Size
		if err := sizeRows.Scan(&s.ID, &s.Code); err != nil {
			sizeRows.Close()
			return fmt.Errorf("failed to scan size: %w", err)
		}
		p.Sizes = append(p.Sizes, s)
	}
	sizeRows.Close()

	colorRows, err := r.db.QueryContext(ctx, `SELECT id, name, hex FROM product_colors WHERE product_id = ? ORDER BY id`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to query colors: %w", err)
	}
	defer colorRows.Close()
	for colorRows.Next() {
		var c domain.Color
		if err := colorRows.Scan(&c.ID, &c.Name, &c.Hex); err != nil {
			return fmt.Errorf("failed to scan color: %w", err)
		}
		p.Colors = append(p.Colors, c)
	}

	return colorRows.Err()
}

func (r *SQLiteCatalog) Close() error {
	return r.db.Close()
}
