// ABOUTME: Product persistence for the SQLite store
// ABOUTME: CRUD, filtered newest-first listing, bulk delete, and CSV upserts by SKU

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const productColumns = `id, sku, name, description, price, quantity, is_active, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	var createdAt, updatedAt string
	if err := row.Scan(
		&p.ID,
		&p.SKU,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Quantity,
		&p.IsActive,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct inserts p and fills in its ID and timestamps.
// Returns ErrDuplicateSKU if the SKU is taken, ignoring case.
func (s *SQLiteStore) CreateProduct(ctx context.Context, p *Product) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (sku, name, description, price, quantity, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.SKU,
		p.Name,
		p.Description,
		p.Price,
		p.Quantity,
		boolInt(p.IsActive),
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("inserting product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading product id: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// GetProduct retrieves a product by ID.
// Returns ErrNotFound if the product doesn't exist.
func (s *SQLiteStore) GetProduct(ctx context.Context, id int64) (*Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}
	return p, nil
}

// ListProducts returns the products matching filter, newest first, along with
// the number of matches before Limit and Offset are applied.
func (s *SQLiteStore) ListProducts(ctx context.Context, filter ProductFilter) ([]*Product, int, error) {
	var where []string
	var args []any

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		where = append(where, `(sku LIKE ? ESCAPE '\' OR name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Active != nil {
		where = append(where, "is_active = ?")
		args = append(args, boolInt(*filter.Active))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + productColumns + ` FROM products` + clause +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, append(args, limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating products: %w", err)
	}

	return products, total, nil
}

// UpdateProduct applies update to the product and returns the new row.
// Returns ErrNotFound if the product doesn't exist.
func (s *SQLiteStore) UpdateProduct(ctx context.Context, id int64, update ProductUpdate) (*Product, error) {
	sets := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now())}

	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *update.Price)
	}
	if update.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *update.Quantity)
	}
	if update.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, boolInt(*update.IsActive))
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET `+strings.Join(sets, ", ")+` WHERE id = ?`,
		append(args, id)...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a product and returns the row as it was.
// Returns ErrNotFound if the product doesn't exist.
func (s *SQLiteStore) DeleteProduct(ctx context.Context, id int64) (*Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting product: %w", err)
	}
	return p, nil
}

// DeleteAllProducts removes every product and reports how many there were.
func (s *SQLiteStore) DeleteAllProducts(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products`)
	if err != nil {
		return 0, fmt.Errorf("deleting products: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted products: %w", err)
	}
	return int(n), nil
}

// UpsertProducts writes a batch of imported products in one transaction.
// A product whose SKU matches an existing row (ignoring case) updates that row
// and keeps its stored SKU; any other product is inserted.
func (s *SQLiteStore) UpsertProducts(ctx context.Context, products []*Product) (UpsertResult, error) {
	var result UpsertResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	for _, p := range products {
		var id int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM products WHERE lower(sku) = lower(?)`, p.SKU).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO products (sku, name, description, price, quantity, is_active, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, p.SKU, p.Name, p.Description, p.Price, p.Quantity, boolInt(p.IsActive), now, now); err != nil {
				return UpsertResult{}, fmt.Errorf("inserting product %s: %w", p.SKU, err)
			}
			result.Created++
		case err != nil:
			return UpsertResult{}, fmt.Errorf("looking up product %s: %w", p.SKU, err)
		default:
			if _, err := tx.ExecContext(ctx, `
				UPDATE products
				SET name = ?, description = ?, price = ?, quantity = ?, is_active = ?, updated_at = ?
				WHERE id = ?
			`, p.Name, p.Description, p.Price, p.Quantity, boolInt(p.IsActive), now, id); err != nil {
				return UpsertResult{}, fmt.Errorf("updating product %s: %w", p.SKU, err)
			}
			result.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return UpsertResult{}, fmt.Errorf("committing import batch: %w", err)
	}
	return result, nil
}
