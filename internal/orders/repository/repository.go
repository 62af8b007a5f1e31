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

type Order struct {
	ID          int64
	CustomerID  int64
	LocationID  int64
	Total       float64
	Paid        float64
	Outstanding float64
	CreatedAt   time.Time
}

// OrderProduct is one structural line of an order joined with the product.
type OrderProduct struct {
	ProductID int64
	Name      string
	Price     float64
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.LocationID, &o.Total, &o.Paid, &o.Outstanding, &o.CreatedAt)
	return o, err
}

const orderColumns = `id, cliente_id, sucursal_id, total, pago, pendiente, creado_en`

func (r *Repository) InsertOrder(ctx context.Context, customerID, locationID int64, total, paid, outstanding float64) (Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, `
    INSERT INTO pedidos (cliente_id, sucursal_id, total, pago, pendiente)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING `+orderColumns+`
  `, customerID, locationID, total, paid, outstanding))
}

func (r *Repository) InsertOrderProduct(ctx context.Context, orderID, productID int64) error {
	_, err := r.pool.Exec(ctx, `
    INSERT INTO pedidos_productos (pedido_id, producto_id)
    VALUES ($1, $2)
  `, orderID, productID)
	return err
}

func (r *Repository) Get(ctx context.Context, id int64) (Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `
    SELECT `+orderColumns+`
    FROM pedidos
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

// List returns recent orders, optionally restricted to the calendar day
// of the zero-valued-or-not day argument.
func (r *Repository) List(ctx context.Context, day time.Time, limit, offset int) ([]Order, error) {
	query := `
    SELECT ` + orderColumns + `
    FROM pedidos
  `
	args := []any{limit, offset}
	if !day.IsZero() {
		query += ` WHERE creado_en >= $3 AND creado_en < $4`
		args = append(args, day, day.AddDate(0, 0, 1))
	}
	query += `
    ORDER BY creado_en DESC
    LIMIT $1 OFFSET $2
  `

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
    SELECT `+orderColumns+`
    FROM pedidos
    WHERE cliente_id = $1
    ORDER BY creado_en DESC
  `, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ListProducts returns the products structurally attached to an order.
func (r *Repository) ListProducts(ctx context.Context, orderID int64) ([]OrderProduct, error) {
	rows, err := r.pool.Query(ctx, `
    SELECT p.id, p.nombre, p.precio
    FROM pedidos_productos pp
    JOIN productos p ON p.id = pp.producto_id
    WHERE pp.pedido_id = $1
    ORDER BY pp.id
  `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []OrderProduct
	for rows.Next() {
		var p OrderProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Price); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
