// Package repo contains all storage access for the ADIBUS fleet API.
// Each resource has its own file with an interface and a Postgres
// implementation; memory.go holds the in-process store used for local runs.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/adibus/fleet/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
// Begin on a pgx.Tx opens a savepoint, so nested writes stay inside it.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// BusRepo defines the persistence operations for buses and their seats.
// The service layer depends on this interface, not on a concrete store.
type BusRepo interface {
	// Create inserts a bus together with bus.Seats and returns the persisted
	// record. Returns domain.ErrDuplicateKey if the number is taken.
	Create(ctx context.Context, bus domain.Bus) (domain.Bus, error)

	// GetByID retrieves a single bus with its seats.
	// Returns domain.ErrNotFound if no bus with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Bus, error)

	// List returns all buses ordered by created_at descending.
	List(ctx context.Context) ([]domain.Bus, error)

	// ListPaged returns one page of buses (newest first) and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Bus, int64, error)

	// Update overwrites number, route, status, departure time and booking
	// cutoff. Capacity and seats are never touched.
	Update(ctx context.Context, bus domain.Bus) (domain.Bus, error)

	// Patch applies the non-nil fields of patch.
	Patch(ctx context.Context, id uuid.UUID, patch domain.BusPatch) (domain.Bus, error)

	// UpdateSeat sets the status of one seat and, when passengerName is
	// non-nil, its passenger name. seatNumber is 1-based.
	UpdateSeat(ctx context.Context, busID uuid.UUID, seatNumber int, status domain.SeatStatus, passengerName *string) (domain.Bus, error)

	// Delete removes a bus and its seats. Returns domain.ErrNotFound if it
	// does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgBusRepo is the Postgres implementation of BusRepo.
type pgBusRepo struct {
	db db
}

// NewBusRepo constructs a BusRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewBusRepo(db db) BusRepo {
	return &pgBusRepo{db: db}
}

const busColumns = `id, number, route, capacity, status, departure_time,
		       stop_booking_before, created_at, updated_at`

// Create inserts the bus row and its seats in one transaction.
func (r *pgBusRepo) Create(ctx context.Context, bus domain.Bus) (domain.Bus, error) {
	const q = `
		INSERT INTO buses (number, route, capacity, status, departure_time, stop_booking_before)
		VALUES (@number, @route, @capacity, @status, @departure_time, @stop_booking_before)
		RETURNING ` + busColumns

	args := pgx.NamedArgs{
		"number":              bus.Number,
		"route":               bus.Route,
		"capacity":            bus.Capacity,
		"status":              string(bus.Status),
		"departure_time":      bus.DepartureTime,
		"stop_booking_before": bus.StopBookingBefore,
	}

	var created domain.Bus
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		created, err = scanBus(tx.QueryRow(ctx, q, args))
		if err != nil {
			return err
		}
		if err := insertSeats(ctx, tx, created.ID, bus.Seats); err != nil {
			return fmt.Errorf("insert seats: %w", err)
		}
		created.Seats = bus.Clone().Seats
		return nil
	})
	if err != nil {
		return domain.Bus{}, fmt.Errorf("repo.BusRepo.Create: %w", mapWriteError(err))
	}
	return created, nil
}

// GetByID retrieves a bus by primary key, seats ordered by seat number.
func (r *pgBusRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Bus, error) {
	const q = `SELECT ` + busColumns + ` FROM buses WHERE id = @id`

	bus, err := scanBus(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Bus{}, fmt.Errorf("repo.BusRepo.GetByID: %w", err)
	}
	if err := r.attachSeats(ctx, []*domain.Bus{&bus}); err != nil {
		return domain.Bus{}, fmt.Errorf("repo.BusRepo.GetByID: %w", err)
	}
	return bus, nil
}

// List returns all buses, most recently created first.
func (r *pgBusRepo) List(ctx context.Context) ([]domain.Bus, error) {
	const q = `SELECT ` + busColumns + ` FROM buses ORDER BY created_at DESC, id`

	buses, err := r.queryBuses(ctx, q, pgx.NamedArgs{})
	if err != nil {
		return nil, fmt.Errorf("repo.BusRepo.List: %w", err)
	}
	return buses, nil
}

// ListPaged returns one page of buses, most recently created first, plus
// the total number of buses.
func (r *pgBusRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Bus, int64, error) {
	const q = `
		SELECT ` + busColumns + `
		FROM buses
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM buses`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.BusRepo.ListPaged: count: %w", err)
	}

	buses, err := r.queryBuses(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BusRepo.ListPaged: %w", err)
	}
	return buses, total, nil
}

// Update overwrites the mutable scalar fields of a bus.
func (r *pgBusRepo) Update(ctx context.Context, bus domain.Bus) (domain.Bus, error) {
	const q = `
		UPDATE buses
		SET number              = @number,
		    route               = @route,
		    status              = @status,
		    departure_time      = @departure_time,
		    stop_booking_before = @stop_booking_before,
		    updated_at          = now()
		WHERE id = @id
		RETURNING ` + busColumns

	args := pgx.NamedArgs{
		"id":                  bus.ID,
		"number":              bus.Number,
		"route":               bus.Route,
		"status":              string(bus.Status),
		"departure_time":      bus.DepartureTime,
		"stop_booking_before": bus.StopBookingBefore,
	}

	updated, err := scanBus(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Bus{}, fmt.Errorf("repo.BusRepo.Update: %w", mapWriteError(err))
	}
	if err := r.attachSeats(ctx, []*domain.Bus{&updated}); err != nil {
		return domain.Bus{}, fmt.Errorf("repo.BusRepo.Update: %w", err)
	}
	return updated, nil
}

// Patch merges the provided fields into the stored row. COALESCE keeps the
// current value for every NULL (omitted) argument.
func (r *pgBusRepo) Patch(ctx context.Context, id uuid.UUID, patch domain.BusPatch) (domain.Bus, error) {
	const q = `
		UPDATE buses
		SET status              = COALESCE(@status::text, status),
		    departure_time      = COALESCE(@departure_time::timestamptz, departure_time),
		    stop_booking_before = COALESCE(@stop_booking_before::int, stop_booking_before),
		    updated_at          = now()
		WHERE id = @id
		RETURNING ` + busColumns

	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	args := pgx.NamedArgs{
		"id":                  id,
		"status":              status,
		"departure_time":      patch.DepartureTime,
		"stop_booking_before": patch.StopBookingBefore,
	}

	patched, err := scanBus(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Bus{}, fmt.Errorf("repo.BusRepo.Patch: %w", err)
	}
	if err := r.attachSeats(ctx, []*domain.Bus{&patched}); err != nil {
		return domain.Bus{}, fmt.Errorf("repo.BusRepo.Patch: %w", err)
	}
	return patched, nil
}

// UpdateSeat changes one seat and stamps the owning bus's updated_at.
func (r *pgBusRepo) UpdateSeat(ctx context.Context, busID uuid.UUID, seatNumber int, status domain.SeatStatus, passengerName *string) (domain.Bus, error) {
	const touch = `
		UPDATE buses SET updated_at = now()
		WHERE id = @bus_id
		RETURNING ` + busColumns

	const setSeat = `
		UPDATE bus_seats
		SET status         = @status,
		    passenger_name = COALESCE(@passenger_name::text, passenger_name)
		WHERE bus_id = @bus_id AND seat_number = @seat_number`

	var bus domain.Bus
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		bus, err = scanBus(tx.QueryRow(ctx, touch, pgx.NamedArgs{"bus_id": busID}))
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, setSeat, pgx.NamedArgs{
			"bus_id":         busID,
			"seat_number":    seatNumber,
			"status":         string(status),
			"passenger_name": passengerName,
		})
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("seat %d: %w", seatNumber, domain.ErrNotFound)
		}
		return attachSeats(ctx, tx, []*domain.Bus{&bus})
	})
	if err != nil {
		return domain.Bus{}, fmt.Errorf("repo.BusRepo.UpdateSeat: %w", err)
	}
	return bus, nil
}

// Delete removes a bus by primary key; bus_seats rows cascade.
func (r *pgBusRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM buses WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.BusRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BusRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// queryBuses runs a multi-row bus query and attaches every bus's seats.
// Always returns a non-nil slice.
func (r *pgBusRepo) queryBuses(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Bus, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buses := []domain.Bus{}
	for rows.Next() {
		b, err := scanBus(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		buses = append(buses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	ptrs := make([]*domain.Bus, len(buses))
	for i := range buses {
		ptrs[i] = &buses[i]
	}
	if err := r.attachSeats(ctx, ptrs); err != nil {
		return nil, err
	}
	return buses, nil
}

func (r *pgBusRepo) attachSeats(ctx context.Context, buses []*domain.Bus) error {
	return attachSeats(ctx, r.db, buses)
}

// attachSeats loads the seats of every bus in one query and assigns them in
// seat-number order.
func attachSeats(ctx context.Context, q interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}, buses []*domain.Bus) error {
	if len(buses) == 0 {
		return nil
	}
	const sql = `
		SELECT bus_id, seat_number, status, passenger_name
		FROM bus_seats
		WHERE bus_id = ANY(@ids)
		ORDER BY bus_id, seat_number`

	ids := make([]uuid.UUID, len(buses))
	byID := make(map[uuid.UUID]*domain.Bus, len(buses))
	for i, b := range buses {
		ids[i] = b.ID
		b.Seats = make([]domain.Seat, 0, b.Capacity)
		byID[b.ID] = b
	}

	rows, err := q.Query(ctx, sql, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return fmt.Errorf("seats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			busID  pgtype.UUID
			seat   domain.Seat
			status string
		)
		if err := rows.Scan(&busID, &seat.Number, &status, &seat.PassengerName); err != nil {
			return fmt.Errorf("seats: scan: %w", err)
		}
		seat.Status = domain.SeatStatus(status)
		if b, ok := byID[uuid.UUID(busID.Bytes)]; ok {
			b.Seats = append(b.Seats, seat)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("seats: rows: %w", err)
	}
	return nil
}

// insertSeats bulk-loads seats with COPY.
func insertSeats(ctx context.Context, tx pgx.Tx, busID uuid.UUID, seats []domain.Seat) error {
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"bus_seats"},
		[]string{"bus_id", "seat_number", "status", "passenger_name"},
		pgx.CopyFromSlice(len(seats), func(i int) ([]any, error) {
			s := seats[i]
			return []any{busID, s.Number, string(s.Status), s.PassengerName}, nil
		}),
	)
	return err
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanBus maps a row selected with busColumns into a domain.Bus without seats.
func scanBus(s scanner) (domain.Bus, error) {
	var (
		b         domain.Bus
		id        pgtype.UUID
		status    string
		departure time.Time
	)

	err := s.Scan(&id, &b.Number, &b.Route, &b.Capacity, &status, &departure,
		&b.StopBookingBefore, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Bus{}, domain.ErrNotFound
		}
		return domain.Bus{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.Status = domain.BusStatus(status)
	b.DepartureTime = departure.UTC()
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return b, nil
}

// uniqueViolation is the Postgres SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

// mapWriteError turns a unique-index conflict into domain.ErrDuplicateKey.
// Other errors pass through unchanged.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		msg, ok := uniqueMessages[pgErr.ConstraintName]
		if !ok {
			msg = pgErr.ConstraintName
		}
		return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, msg)
	}
	return err
}

// uniqueMessages maps unique constraint names from the migrations to the
// message shown to API clients.
var uniqueMessages = map[string]string{
	"buses_number_key": "bus number already exists",
	"fares_route_key":  "fare for this route already exists",
}
