package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	constraintOrderCode     = "orders_code_key"
	constraintOrderCheckout = "orders_checkout_id_key"
)

type PostgresRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresRepository(cred *Credentials, logger *zap.Logger) (*PostgresRepository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	logger.Info("connected to postgres", zap.String("host", cred.Host), zap.String("db", cred.DBName))
	return &PostgresRepository{db: db, logger: logger}, nil
}

func (r *PostgresRepository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "storefront_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

// SaveOrder inserts the order and its OrderPlaced outbox event in one transaction.
func (r *PostgresRepository) SaveOrder(ctx context.Context, order *domain.Order) error {
	customer, err := json.Marshal(order.Customer)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}
	payment, err := json.Marshal(order.Payment)
	if err != nil {
		return fmt.Errorf("marshal payment: %w", err)
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	// pickup orders carry no address; store NULL rather than an empty document
	var address any
	if order.Address != nil {
		b, err := json.Marshal(order.Address)
		if err != nil {
			return fmt.Errorf("marshal address: %w", err)
		}
		address = b
	}
	event, err := json.Marshal(domain.NewOrderPlaced(order))
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO orders (id, code, checkout_id, status, customer, delivery_mode, address, payment,
	                              items, subtotal, shipping, tax, total, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, insertErr := tx.ExecContext(ctx, query,
		order.ID,
		order.Code,
		order.CheckoutID,
		order.Status,
		customer,
		order.DeliveryMode,
		address,
		payment,
		items,
		order.Totals.Subtotal,
		order.Totals.Shipping,
		order.Totals.Tax,
		order.Totals.Total,
		order.CreatedAt)
	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case constraintOrderCode:
				return ErrDuplicateOrderCode
			case constraintOrderCheckout:
				return ErrDuplicateCheckout
			}
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}

	_, outboxErr := tx.ExecContext(ctx,
		`INSERT INTO outbox (aggregate_id, event_type, payload) VALUES ($1, $2, $3)`,
		order.ID.String(), domain.EventTypeOrderPlaced, event)
	if outboxErr != nil {
		return fmt.Errorf("insert outbox event: %w", outboxErr)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

const orderColumns = `id, code, checkout_id, status, customer, delivery_mode, address, payment,
	items, subtotal, shipping, tax, total, created_at`

func (r *PostgresRepository) LoadOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.loadOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *PostgresRepository) LoadOrderByCode(ctx context.Context, code string) (*domain.Order, error) {
	return r.loadOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE code = $1`, code)
}

func (r *PostgresRepository) LoadOrderByCheckout(ctx context.Context, checkoutID uuid.UUID) (*domain.Order, error) {
	return r.loadOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE checkout_id = $1`, checkoutID)
}

func (r *PostgresRepository) loadOne(ctx context.Context, query string, arg any) (*domain.Order, error) {
	var (
		order                                 domain.Order
		customer, address, payment, itemsJSON []byte
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&order.ID,
		&order.Code,
		&order.CheckoutID,
		&order.Status,
		&customer,
		&order.DeliveryMode,
		&address,
		&payment,
		&itemsJSON,
		&order.Totals.Subtotal,
		&order.Totals.Shipping,
		&order.Totals.Tax,
		&order.Totals.Total,
		&order.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	if err := json.Unmarshal(customer, &order.Customer); err != nil {
		return nil, fmt.Errorf("unmarshal customer: %w", err)
	}
	if err := json.Unmarshal(payment, &order.Payment); err != nil {
		return nil, fmt.Errorf("unmarshal payment: %w", err)
	}
	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if len(address) > 0 {
		order.Address = &domain.Address{}
		if err := json.Unmarshal(address, order.Address); err != nil {
			return nil, fmt.Errorf("unmarshal address: %w", err)
		}
	}
	order.CreatedAt = order.CreatedAt.UTC()

	return &order, nil
}

func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`, string(to), id, string(from))
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	if n == 1 {
		return true, nil
	}

	if _, err := r.LoadOrder(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (r *PostgresRepository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, aggregate_id, event_type, payload, created_at
		 FROM outbox WHERE processed_at IS NULL ORDER BY id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var e OutboxEvent
		var payload []byte
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.EventType, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		e.Payload = payload
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return events, nil
}

func (r *PostgresRepository) MarkEventAsProcessed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE outbox SET processed_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark outbox event %d: %w", id, err)
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
