package repository

import (
	"context"
	"errors"

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

type Location struct {
	ID      int64
	Name    string
	Manager string
	Address string
}

func (r *Repository) List(ctx context.Context) ([]Location, error) {
	rows, err := r.pool.Query(ctx, `
    SELECT id, nombre, coalesce(encargado, ''), coalesce(direccion, '')
    FROM sucursales
    ORDER BY id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Manager, &l.Address); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Location, error) {
	var l Location
	err := r.pool.QueryRow(ctx, `
    SELECT id, nombre, coalesce(encargado, ''), coalesce(direccion, '')
    FROM sucursales
    WHERE id = $1
  `, id).Scan(&l.ID, &l.Name, &l.Manager, &l.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return Location{}, ErrNotFound
	}
	return l, err
}

func (r *Repository) GetByName(ctx context.Context, name string) (Location, error) {
	var l Location
	err := r.pool.QueryRow(ctx, `
    SELECT id, nombre, coalesce(encargado, ''), coalesce(direccion, '')
    FROM sucursales
    WHERE lower(nombre) = lower($1)
  `, name).Scan(&l.ID, &l.Name, &l.Manager, &l.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return Location{}, ErrNotFound
	}
	return l, err
}
