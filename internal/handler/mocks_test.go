package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/adibus/fleet/internal/domain"
	"github.com/adibus/fleet/internal/handler"
)

// Test doubles for the handler's consumer interfaces.
// Set only the method fields your test needs.

type mockBusServicer struct {
	create    func(ctx context.Context, in domain.BusInput) (domain.Bus, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Bus, error)
	list      func(ctx context.Context) ([]domain.Bus, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Bus, int64, error)
	update    func(ctx context.Context, id uuid.UUID, in domain.BusInput) (domain.Bus, error)
	setStatus func(ctx context.Context, id uuid.UUID, status domain.BusStatus) (domain.Bus, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockBusServicer) Create(ctx context.Context, in domain.BusInput) (domain.Bus, error) {
	return m.create(ctx, in)
}
func (m *mockBusServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Bus, error) {
	return m.getByID(ctx, id)
}
func (m *mockBusServicer) List(ctx context.Context) ([]domain.Bus, error) {
	return m.list(ctx)
}
func (m *mockBusServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Bus, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockBusServicer) Update(ctx context.Context, id uuid.UUID, in domain.BusInput) (domain.Bus, error) {
	return m.update(ctx, id, in)
}
func (m *mockBusServicer) SetStatus(ctx context.Context, id uuid.UUID, status domain.BusStatus) (domain.Bus, error) {
	return m.setStatus(ctx, id, status)
}
func (m *mockBusServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockSeatServicer struct {
	setSeatStatus    func(ctx context.Context, busID uuid.UUID, seatIndex int, status domain.SeatStatus, passengerName *string) (domain.Bus, error)
	setDepartureTime func(ctx context.Context, busID uuid.UUID, departure time.Time) (domain.Bus, error)
	setBookingCutoff func(ctx context.Context, busID uuid.UUID, minutes int) (domain.Bus, error)
	summary          func(ctx context.Context, busID uuid.UUID) (domain.SeatSummary, error)
}

func (m *mockSeatServicer) SetSeatStatus(ctx context.Context, busID uuid.UUID, seatIndex int, status domain.SeatStatus, passengerName *string) (domain.Bus, error) {
	return m.setSeatStatus(ctx, busID, seatIndex, status, passengerName)
}
func (m *mockSeatServicer) SetDepartureTime(ctx context.Context, busID uuid.UUID, departure time.Time) (domain.Bus, error) {
	return m.setDepartureTime(ctx, busID, departure)
}
func (m *mockSeatServicer) SetBookingCutoff(ctx context.Context, busID uuid.UUID, minutes int) (domain.Bus, error) {
	return m.setBookingCutoff(ctx, busID, minutes)
}
func (m *mockSeatServicer) Summary(ctx context.Context, busID uuid.UUID) (domain.SeatSummary, error) {
	return m.summary(ctx, busID)
}

type mockContactServicer struct {
	submit func(ctx context.Context, msg domain.ContactMessage) error
}

func (m *mockContactServicer) Submit(ctx context.Context, msg domain.ContactMessage) error {
	return m.submit(ctx, msg)
}

type mockFareServicer struct {
	create  func(ctx context.Context, fare domain.Fare) (domain.Fare, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Fare, error)
	list    func(ctx context.Context) ([]domain.Fare, error)
	update  func(ctx context.Context, fare domain.Fare) (domain.Fare, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockFareServicer) Create(ctx context.Context, f domain.Fare) (domain.Fare, error) {
	return m.create(ctx, f)
}
func (m *mockFareServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Fare, error) {
	return m.getByID(ctx, id)
}
func (m *mockFareServicer) List(ctx context.Context) ([]domain.Fare, error) {
	return m.list(ctx)
}
func (m *mockFareServicer) Update(ctx context.Context, f domain.Fare) (domain.Fare, error) {
	return m.update(ctx, f)
}
func (m *mockFareServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockManifestServicer struct {
	export func(ctx context.Context) ([]domain.ManifestRow, error)
}

func (m *mockManifestServicer) Export(ctx context.Context) ([]domain.ManifestRow, error) {
	return m.export(ctx)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.BusServicer      = (*mockBusServicer)(nil)
	_ handler.SeatServicer     = (*mockSeatServicer)(nil)
	_ handler.ContactServicer  = (*mockContactServicer)(nil)
	_ handler.FareServicer     = (*mockFareServicer)(nil)
	_ handler.ManifestServicer = (*mockManifestServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into the real router,
// the same way main.go does in production. Log output is discarded.
func newHTTPHandler(d handler.Deps) http.Handler {
	d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return handler.Handler(handler.NewServer(d))
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// do sends a request through h and returns the recorder.
func do(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func busFixture(capacity int) domain.Bus {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.Bus{
		ID:                uuid.New(),
		Number:            "KA-01-1234",
		Route:             "Bangalore-Chennai",
		Capacity:          capacity,
		Status:            domain.BusStatusActive,
		DepartureTime:     time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC),
		StopBookingBefore: domain.DefaultStopBookingBefore,
		Seats:             domain.NewSeats(capacity),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// busBody mirrors the JSON shape of a bus response.
type busBody struct {
	ID                uuid.UUID `json:"id"`
	Number            string    `json:"number"`
	Route             string    `json:"route"`
	Capacity          int       `json:"capacity"`
	Status            string    `json:"status"`
	DepartureTime     time.Time `json:"departureTime"`
	StopBookingBefore int       `json:"stopBookingBefore"`
	AvailableSeats    int       `json:"availableSeats"`
	Seats             []struct {
		SeatNumber    int     `json:"seatNumber"`
		Status        string  `json:"status"`
		PassengerName *string `json:"passengerName"`
	} `json:"seats"`
}

func decodeBus(t *testing.T, rec *httptest.ResponseRecorder) busBody {
	t.Helper()
	var b busBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&b))
	return b
}
