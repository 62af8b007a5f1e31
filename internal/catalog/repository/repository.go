package repository

import (
	"context"
	"errors"
	"strconv"
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

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Unit        string
	ImageURL    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const productColumns = `id, nombre, coalesce(descripcion, ''), precio, coalesce(unidad, ''), coalesce(imagen_url, ''), activo, creado_en, actualizado_en`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Unit, &p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repository) Create(ctx context.Context, name, description string, price float64, unit string) (Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `
    INSERT INTO productos (nombre, descripcion, precio, unidad)
    VALUES ($1, $2, $3, $4)
    RETURNING `+productColumns+`
  `, name, description, price, unit))
}

func (r *Repository) Get(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `
    SELECT `+productColumns+`
    FROM productos
    WHERE id = $1 AND deleted_at IS NULL
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

// ListParams filters the product listing. Zero Limit means unbounded,
// which the pipeline's catalog snapshot relies on.
type ListParams struct {
	ActiveOnly bool
	Search     string
	Limit      int
	Offset     int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Product, error) {
	query := `
    SELECT ` + productColumns + `
    FROM productos
    WHERE deleted_at IS NULL
  `
	var args []any
	if params.ActiveOnly {
		query += ` AND activo`
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		query += ` AND nombre ILIKE $1`
	}
	query += ` ORDER BY nombre`
	if params.Limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(params.Limit) + ` OFFSET ` + strconv.Itoa(params.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id int64, name, description string, price float64, unit string, active bool) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `
    UPDATE productos
    SET nombre = $2, descripcion = $3, precio = $4, unidad = $5, activo = $6, actualizado_en = now()
    WHERE id = $1 AND deleted_at IS NULL
    RETURNING `+productColumns+`
  `, id, name, description, price, unit, active))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *Repository) SetImageURL(ctx context.Context, id int64, imageURL string) error {
	tag, err := r.pool.Exec(ctx, `
    UPDATE productos
    SET imagen_url = $2, actualizado_en = now()
    WHERE id = $1 AND deleted_at IS NULL
  `, id, imageURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks the product deleted; order history keeps referencing it.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
    UPDATE productos
    SET deleted_at = now(), activo = false
    WHERE id = $1 AND deleted_at IS NULL
  `, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
