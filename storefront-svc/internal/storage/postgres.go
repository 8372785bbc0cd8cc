package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"zomatify/storefront-svc/internal/domain"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

const profileColumns = "id, email, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(phone, ''), role, created_at, updated_at"

func scanProfile(row interface{ Scan(...interface{}) error }) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Phone, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := scanProfile(r.DB.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE id = $1", userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	return p, err
}

func (r *PostgresRepository) CreateProfile(ctx context.Context, profile domain.Profile) (*domain.Profile, error) {
	return scanProfile(r.DB.QueryRowContext(ctx, `
		INSERT INTO profiles (id, email, first_name, last_name, phone, role)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
		RETURNING `+profileColumns,
		profile.ID, profile.Email, profile.FirstName, profile.LastName, profile.Phone, profile.Role))
}

// UpdateProfile only touches the columns set in patch.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	var sets []string
	var args []interface{}
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("first_name", patch.FirstName)
	add("last_name", patch.LastName)
	add("phone", patch.Phone)
	if len(sets) == 0 {
		return r.GetProfile(ctx, userID)
	}

	args = append(args, userID)
	query := fmt.Sprintf("UPDATE profiles SET %s, updated_at = CURRENT_TIMESTAMP WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), profileColumns)

	p, err := scanProfile(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	return p, err
}

func (r *PostgresRepository) ListMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, name, COALESCE(description, ''), price, COALESCE(image_url, ''), is_available
		FROM menu_items
		WHERE restaurant_id = $1
		ORDER BY name`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price, &item.ImageURL, &item.IsAvailable); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachOptions(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, restaurant_id, name, COALESCE(description, ''), price, COALESCE(image_url, ''), is_available
		FROM menu_items
		WHERE id = $1`, id).
		Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price, &item.ImageURL, &item.IsAvailable)
	if err != nil {
		return nil, notFound(err)
	}

	items := []domain.MenuItem{item}
	if err := r.attachOptions(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (r *PostgresRepository) attachOptions(ctx context.Context, items []domain.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, len(items))
	index := make(map[int]int, len(items))
	for i, item := range items {
		ids[i] = int64(item.ID)
		index[item.ID] = i
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, menu_item_id, name, price
		FROM menu_item_options
		WHERE menu_item_id = ANY($1)
		ORDER BY id`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var opt domain.MenuOption
		var itemID int
		if err := rows.Scan(&opt.ID, &itemID, &opt.Name, &opt.Price); err != nil {
			return err
		}
		if i, ok := index[itemID]; ok {
			items[i].Options = append(items[i].Options, opt)
		}
	}
	return rows.Err()
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, restaurant_id, total_amount, status, payment_status, payment_order_id, group_order_id, scheduled_for)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)
		RETURNING id, created_at
	`, order.UserID, order.RestaurantID, order.TotalAmount, order.Status, order.PaymentStatus,
		order.PaymentOrderID, order.GroupOrderID, order.ScheduledFor).Scan(&order.ID, &order.CreatedAt); err != nil {
		return err
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, name, quantity, unit_price, special_instructions, options)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
		`, order.ID, item.MenuItemID, item.Name, item.Quantity, item.UnitPrice, item.SpecialInstructions, item.Options); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, orderID int, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET qr_code = $1 WHERE id = $2`, qr, orderID)
	return err
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	var qrCode []byte
	if err := r.DB.QueryRowContext(ctx, "SELECT qr_code FROM orders WHERE id = $1", orderID).Scan(&qrCode); err != nil {
		return nil, notFound(err)
	}
	return qrCode, nil
}

const orderColumns = `id, user_id, restaurant_id, total_amount, status, payment_status,
	COALESCE(payment_order_id, ''), COALESCE(group_order_id, ''), scheduled_for, created_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*domain.Order, error) {
	var o domain.Order
	var scheduled sql.NullTime
	if err := row.Scan(&o.ID, &o.UserID, &o.RestaurantID, &o.TotalAmount, &o.Status, &o.PaymentStatus,
		&o.PaymentOrderID, &o.GroupOrderID, &scheduled, &o.CreatedAt); err != nil {
		return nil, err
	}
	if scheduled.Valid {
		o.ScheduledFor = &scheduled.Time
	}
	return &o, nil
}

func (r *PostgresRepository) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", orderID))
	if err != nil {
		return nil, notFound(err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT menu_item_id, name, quantity, unit_price, COALESCE(special_instructions, ''), COALESCE(options, '')
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.MenuItemID, &item.Name, &item.Quantity, &item.UnitPrice, &item.SpecialInstructions, &item.Options); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	return order, rows.Err()
}

func (r *PostgresRepository) listOrders(ctx context.Context, where string, arg interface{}) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE "+where+" ORDER BY created_at DESC", arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.listOrders(ctx, "user_id = $1", userID)
}

func (r *PostgresRepository) ListGroupOrders(ctx context.Context, groupOrderID string) ([]domain.Order, error) {
	return r.listOrders(ctx, "group_order_id = $1", groupOrderID)
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			first_name TEXT,
			last_name TEXT,
			phone TEXT,
			role TEXT NOT NULL DEFAULT 'customer',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id SERIAL PRIMARY KEY,
			restaurant_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			price NUMERIC(10, 2) NOT NULL,
			image_url TEXT,
			is_available BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS menu_item_options (
			id SERIAL PRIMARY KEY,
			menu_item_id INTEGER NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			price NUMERIC(10, 2) NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			restaurant_id INTEGER NOT NULL,
			total_amount NUMERIC(10, 2) NOT NULL,
			status TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			payment_order_id TEXT,
			group_order_id TEXT,
			scheduled_for TIMESTAMPTZ,
			qr_code BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			menu_item_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price NUMERIC(10, 2) NOT NULL,
			special_instructions TEXT,
			options TEXT
		)`,
		"CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders (user_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_payment_order_id ON orders (payment_order_id)",
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}
