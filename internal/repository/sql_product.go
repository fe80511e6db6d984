// internal/repository/sql_product.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/easyretail/shop-backend/internal/models"
)

const productColumns = "id, created_at, updated_at, name, description, category, price, quantity, status, is_active, sales, sku, image"

// SQLProductRepository talks to the products table with hand-written SQL.
// It shares the table layout of the gorm migration and exists for
// deployments that still run the legacy product service against it.
type SQLProductRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLProductRepository(db *sql.DB) *SQLProductRepository {
	return &SQLProductRepository{db: db, now: time.Now}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.Name, &p.Description, &p.Category,
		&p.Price, &p.Stock, &p.Status, &p.IsActive, &p.Sales, &p.SKU, &p.Image,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	var where []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + strings.ToLower(f.Search) + "%")
		where = append(where, fmt.Sprintf(
			"(LOWER(name) LIKE %[1]s OR LOWER(id) LIKE %[1]s OR LOWER(sku) LIKE %[1]s OR LOWER(category) LIKE %[1]s)", p))
	}
	if f.Category != "" {
		where = append(where, "category = "+arg(f.Category))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(string(f.Status)))
	}
	if f.Active != nil {
		where = append(where, "is_active = "+arg(*f.Active))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := "SELECT " + productColumns + " FROM products" + clause + " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, total, nil
}

func (r *SQLProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, translateSQLError(err)
	}
	return p, nil
}

func (r *SQLProductRepository) Create(ctx context.Context, p *models.Product) error {
	return translateSQLError(r.insert(ctx, r.db, p))
}

func (r *SQLProductRepository) CreateMany(ctx context.Context, products []models.Product) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for i := range products {
			if err := r.insert(ctx, tx, &products[i]); err != nil {
				return translateSQLError(err)
			}
		}
		return nil
	})
}

func (r *SQLProductRepository) Mutate(ctx context.Context, id string, fn MutateFunc) (*models.Product, error) {
	var product *models.Product
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1 FOR UPDATE", id)
		p, err := scanProduct(row)
		if err != nil {
			return translateSQLError(err)
		}
		if err := fn(p); err != nil {
			return err
		}
		p.UpdatedAt = r.now()
		_, err = tx.ExecContext(ctx, `UPDATE products SET
			updated_at = $2, name = $3, description = $4, category = $5, price = $6,
			quantity = $7, status = $8, is_active = $9, sales = $10, sku = $11, image = $12
			WHERE id = $1`,
			p.ID, p.UpdatedAt, p.Name, p.Description, p.Category, p.Price,
			p.Stock, string(p.Status), p.IsActive, p.Sales, p.SKU, p.Image,
		)
		if err != nil {
			return translateSQLError(err)
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *SQLProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return translateSQLError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products")
	if err != nil {
		return 0, translateSQLError(err)
	}
	return res.RowsAffected()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *SQLProductRepository) insert(ctx context.Context, db execer, p *models.Product) error {
	now := r.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	_, err := db.ExecContext(ctx,
		"INSERT INTO products ("+productColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)",
		p.ID, p.CreatedAt, p.UpdatedAt, p.Name, p.Description, p.Category, p.Price,
		p.Stock, string(p.Status), p.IsActive, p.Sales, p.SKU, p.Image,
	)
	return err
}

func (r *SQLProductRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// unique_violation
const pqUniqueViolation = "23505"

func translateSQLError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Message)
	}
	return fmt.Errorf("database error: %w", err)
}
