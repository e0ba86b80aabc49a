package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/adibus/fleet/internal/domain"
)

// FareRepo defines the persistence operations for route fare cards.
type FareRepo interface {
	// Create inserts a fare. Returns domain.ErrDuplicateKey if the route
	// already has one.
	Create(ctx context.Context, fare domain.Fare) (domain.Fare, error)

	// GetByID returns domain.ErrNotFound if no fare with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Fare, error)

	// List returns all fares ordered by route.
	List(ctx context.Context) ([]domain.Fare, error)

	// Update overwrites every mutable field of a fare.
	Update(ctx context.Context, fare domain.Fare) (domain.Fare, error)

	// Delete returns domain.ErrNotFound if the fare does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgFareRepo is the Postgres implementation of FareRepo.
type pgFareRepo struct {
	db db
}

// NewFareRepo constructs a FareRepo backed by the provided db connection.
func NewFareRepo(db db) FareRepo {
	return &pgFareRepo{db: db}
}

const fareColumns = `id, route, base_price, ac_price, today_price,
		       student_discount, senior_discount, created_at, updated_at`

func (r *pgFareRepo) Create(ctx context.Context, fare domain.Fare) (domain.Fare, error) {
	const q = `
		INSERT INTO fares (route, base_price, ac_price, today_price, student_discount, senior_discount)
		VALUES (@route, @base_price, @ac_price, @today_price, @student_discount, @senior_discount)
		RETURNING ` + fareColumns

	result, err := scanFare(r.db.QueryRow(ctx, q, fareArgs(fare)))
	if err != nil {
		return domain.Fare{}, fmt.Errorf("repo.FareRepo.Create: %w", mapWriteError(err))
	}
	return result, nil
}

func (r *pgFareRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Fare, error) {
	const q = `SELECT ` + fareColumns + ` FROM fares WHERE id = @id`

	result, err := scanFare(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Fare{}, fmt.Errorf("repo.FareRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgFareRepo) List(ctx context.Context) ([]domain.Fare, error) {
	const q = `SELECT ` + fareColumns + ` FROM fares ORDER BY route`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.FareRepo.List: %w", err)
	}
	defer rows.Close()

	fares := []domain.Fare{}
	for rows.Next() {
		f, err := scanFare(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.FareRepo.List: scan: %w", err)
		}
		fares = append(fares, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.FareRepo.List: rows: %w", err)
	}
	return fares, nil
}

func (r *pgFareRepo) Update(ctx context.Context, fare domain.Fare) (domain.Fare, error) {
	const q = `
		UPDATE fares
		SET route            = @route,
		    base_price       = @base_price,
		    ac_price         = @ac_price,
		    today_price      = @today_price,
		    student_discount = @student_discount,
		    senior_discount  = @senior_discount,
		    updated_at       = now()
		WHERE id = @id
		RETURNING ` + fareColumns

	args := fareArgs(fare)
	args["id"] = fare.ID

	result, err := scanFare(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Fare{}, fmt.Errorf("repo.FareRepo.Update: %w", mapWriteError(err))
	}
	return result, nil
}

func (r *pgFareRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM fares WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.FareRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.FareRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func fareArgs(f domain.Fare) pgx.NamedArgs {
	return pgx.NamedArgs{
		"route":            f.Route,
		"base_price":       f.BasePrice,
		"ac_price":         f.ACPrice,
		"today_price":      f.TodayPrice,
		"student_discount": f.StudentDiscount,
		"senior_discount":  f.SeniorDiscount,
	}
}

// scanFare maps a row selected with fareColumns into a domain.Fare.
func scanFare(s scanner) (domain.Fare, error) {
	var (
		f  domain.Fare
		id pgtype.UUID
	)
	err := s.Scan(&id, &f.Route, &f.BasePrice, &f.ACPrice, &f.TodayPrice,
		&f.StudentDiscount, &f.SeniorDiscount, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Fare{}, domain.ErrNotFound
		}
		return domain.Fare{}, err
	}
	f.ID = uuid.UUID(id.Bytes)
	return f, nil
}
