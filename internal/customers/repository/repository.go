package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Customer struct {
	ID        int64
	Name      string
	StoreName string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const customerColumns = `id, nombre, coalesce(nombre_tienda, ''), telefono, creado_en, actualizado_en`

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.StoreName, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *Repository) GetByPhone(ctx context.Context, phone string) (Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx, `
    SELECT `+customerColumns+`
    FROM clientes
    WHERE telefono = $1
  `, phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) Get(ctx context.Context, id int64) (Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx, `
    SELECT `+customerColumns+`
    FROM clientes
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) Create(ctx context.Context, name, storeName, phone string) (Customer, error) {
	return scanCustomer(r.pool.QueryRow(ctx, `
    INSERT INTO clientes (nombre, nombre_tienda, telefono)
    VALUES ($1, $2, $3)
    RETURNING `+customerColumns+`
  `, name, storeName, phone))
}

// CreateIfAbsent inserts the customer unless the phone already exists, in
// which case it returns the existing row. The unique index on telefono makes
// concurrent first-contact races converge on one row.
func (r *Repository) CreateIfAbsent(ctx context.Context, name, storeName, phone string) (Customer, bool, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx, `
    INSERT INTO clientes (nombre, nombre_tienda, telefono)
    VALUES ($1, $2, $3)
    ON CONFLICT (telefono) DO NOTHING
    RETURNING `+customerColumns+`
  `, name, storeName, phone))
	if err == nil {
		return c, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, false, err
	}
	existing, err := r.GetByPhone(ctx, phone)
	return existing, false, err
}

func (r *Repository) Update(ctx context.Context, id int64, name, storeName, phone string) (Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx, `
    UPDATE clientes
    SET nombre = $2, nombre_tienda = $3, telefono = $4, actualizado_en = now()
    WHERE id = $1
    RETURNING `+customerColumns+`
  `, id, name, storeName, phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.pool.Query(ctx, `
    SELECT `+customerColumns+`
    FROM clientes
    ORDER BY nombre
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clientes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
