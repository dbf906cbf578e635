package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/veyara-realtime/internal/domain/delivery"
	"github.com/example/veyara-realtime/internal/domain/notification"
	"github.com/example/veyara-realtime/internal/domain/order"
	"github.com/example/veyara-realtime/internal/domain/user"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

// PostgresStore implements Store on top of the platform's PostgreSQL database
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Migrate creates the tables the realtime server depends on if they are missing
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetUser loads a user by id
func (s *PostgresStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, role, status FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &u, nil
}

// GetOrder loads an order by id
func (s *PostgresStore) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, store_id, status, updated_at FROM orders WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.UserID, &o.StoreID, &o.Status, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &o, nil
}

// ListOrderIDsByCustomer returns the ids of every order placed by userID
func (s *PostgresStore) ListOrderIDsByCustomer(ctx context.Context, userID string) ([]string, error) {
	return s.queryIDs(ctx, `SELECT id FROM orders WHERE user_id = $1`, userID)
}

// GetStoreIDByOwner returns the store owned by ownerID, if any
func (s *PostgresStore) GetStoreIDByOwner(ctx context.Context, ownerID string) (string, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM stores WHERE owner_id = $1`, ownerID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get store for owner %s: %w", ownerID, err)
	}
	return id, true, nil
}

// UpdateOrderStatusByOwner sets the status of an order belonging to a store owned by ownerID
func (s *PostgresStore) UpdateOrderStatusByOwner(ctx context.Context, orderID, ownerID string, status order.Status) (*order.Order, error) {
	var o order.Order
	err := s.db.QueryRowContext(ctx, `
		UPDATE orders SET status = $3, updated_at = $4
		WHERE id = $1
		  AND store_id IN (SELECT id FROM stores WHERE owner_id = $2)
		RETURNING id, user_id, store_id, status, updated_at
	`, orderID, ownerID, status, time.Now()).Scan(&o.ID, &o.UserID, &o.StoreID, &o.Status, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", orderID, err)
	}
	return &o, nil
}

// GetDelivery loads the delivery claimed for orderID
func (s *PostgresStore) GetDelivery(ctx context.Context, orderID string) (*delivery.Delivery, error) {
	return getDelivery(ctx, s.db, orderID)
}

// ListOrderIDsByPartner returns the orders whose delivery is assigned to partnerID
func (s *PostgresStore) ListOrderIDsByPartner(ctx context.Context, partnerID string) ([]string, error) {
	return s.queryIDs(ctx, `SELECT order_id FROM deliveries WHERE partner_id = $1`, partnerID)
}

// ClaimDelivery inserts the claim and moves the order out for delivery in one transaction.
// The order row is locked first so concurrent claimants for the same order queue up;
// the UNIQUE(order_id) constraint backs the check.
func (s *PostgresStore) ClaimDelivery(ctx context.Context, d *delivery.Delivery) (*delivery.Delivery, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin claim: %w", err)
	}
	defer tx.Rollback()

	var orderID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1 FOR UPDATE`, d.OrderID).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock order %s: %w", d.OrderID, err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO deliveries (id, order_id, partner_id, status, estimated_time,
			earnings, partner_earnings, platform_fee, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (order_id) DO NOTHING
	`, d.ID, d.OrderID, d.PartnerID, d.Status, d.EstimatedTimeMinutes,
		d.Earnings, d.PartnerEarnings, d.PlatformFee, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert delivery: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		existing, err := getDelivery(ctx, tx, d.OrderID)
		if err != nil {
			return nil, err
		}
		return existing, delivery.ErrAlreadyClaimed
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		d.OrderID, order.StatusOutForDelivery, d.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}
	return d, nil
}

// UpdatePartnerLocation records the partner position on an active, assigned delivery
func (s *PostgresStore) UpdatePartnerLocation(ctx context.Context, orderID, partnerID string, loc delivery.Location) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return err
	}

	statuses := make([]string, len(delivery.ActiveStatuses))
	for i, st := range delivery.ActiveStatuses {
		statuses[i] = string(st)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE deliveries SET partner_location = $3, updated_at = $4
		WHERE order_id = $1 AND partner_id = $2 AND status = ANY($5)
	`, orderID, partnerID, data, time.Now(), pq.Array(statuses))
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return delivery.ErrNotAssigned
	}
	return nil
}

// CreateNotification appends a notification
func (s *PostgresStore) CreateNotification(ctx context.Context, n *notification.Notification) error {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, title, message, type, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.ID, n.UserID, n.Title, n.Message, n.Type, data, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getDelivery(ctx context.Context, q queryRower, orderID string) (*delivery.Delivery, error) {
	var (
		d   delivery.Delivery
		loc []byte
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, order_id, partner_id, status, estimated_time, partner_location,
			earnings, partner_earnings, platform_fee, created_at, updated_at
		FROM deliveries WHERE order_id = $1
	`, orderID).Scan(&d.ID, &d.OrderID, &d.PartnerID, &d.Status, &d.EstimatedTimeMinutes, &loc,
		&d.Earnings, &d.PartnerEarnings, &d.PlatformFee, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, delivery.ErrDeliveryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery for order %s: %w", orderID, err)
	}
	if len(loc) > 0 {
		var l delivery.Location
		if err := json.Unmarshal(loc, &l); err != nil {
			return nil, fmt.Errorf("failed to decode partner location: %w", err)
		}
		d.PartnerLocation = &l
	}
	return &d, nil
}

func (s *PostgresStore) queryIDs(ctx context.Context, query string, arg string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
