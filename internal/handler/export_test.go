package handler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adibus/fleet/internal/domain"
	"github.com/adibus/fleet/internal/handler"
)

func exportHandler(svc *mockManifestServicer) http.Handler {
	return newHTTPHandler(handler.Deps{Manifest: svc})
}

func manifestFixture() []domain.ManifestRow {
	id := uuid.New()
	dep := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	name := "Asha"
	base := domain.ManifestRow{
		BusID: id, BusNumber: "KA-01-1234", Route: "Bangalore-Chennai",
		BusStatus: domain.BusStatusActive, DepartureTime: dep, StopBookingBefore: 30,
	}
	first, second := base, base
	first.SeatNumber, first.SeatStatus, first.PassengerName = 1, domain.SeatStatusBooked, &name
	second.SeatNumber, second.SeatStatus = 2, domain.SeatStatusAvailable
	return []domain.ManifestRow{first, second}
}

func TestGetExport_DefaultJSON(t *testing.T) {
	svc := &mockManifestServicer{
		export: func(_ context.Context) ([]domain.ManifestRow, error) { return manifestFixture(), nil },
	}

	rec := do(exportHandler(svc), http.MethodGet, "/api/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	var rows []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Asha", rows[0]["passengerName"])
	_, hasName := rows[1]["passengerName"]
	assert.False(t, hasName, "unset passenger names are omitted")
}

func TestGetExport_EmptyPassengerNameIsKept(t *testing.T) {
	rows := manifestFixture()
	empty := ""
	rows[1].PassengerName = &empty
	svc := &mockManifestServicer{
		export: func(_ context.Context) ([]domain.ManifestRow, error) { return rows, nil },
	}

	rec := do(exportHandler(svc), http.MethodGet, "/api/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var out []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.Len(t, out, 2)
	name, ok := out[1]["passengerName"]
	require.True(t, ok)
	assert.Equal(t, "", name)
}

func TestGetExport_EmptyJSONIsArray(t *testing.T) {
	svc := &mockManifestServicer{
		export: func(_ context.Context) ([]domain.ManifestRow, error) { return []domain.ManifestRow{}, nil },
	}

	rec := do(exportHandler(svc), http.MethodGet, "/api/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetExport_CSV(t *testing.T) {
	rows := manifestFixture()
	svc := &mockManifestServicer{
		export: func(_ context.Context) ([]domain.ManifestRow, error) { return rows, nil },
	}

	rec := do(exportHandler(svc), http.MethodGet, "/api/export?format=csv", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one line per seat")
	assert.Equal(t, "bus_id", records[0][0])
	assert.Equal(t, "passenger_name", records[0][8])
	assert.Equal(t, rows[0].BusID.String(), records[1][0])
	assert.Equal(t, "2030-01-01T10:00:00Z", records[1][4])
	assert.Equal(t, "1", records[1][6])
	assert.Equal(t, "Asha", records[1][8])
	assert.Equal(t, "", records[2][8])
}

func TestGetExport_400_UnknownFormat(t *testing.T) {
	rec := do(exportHandler(&mockManifestServicer{}), http.MethodGet, "/api/export?format=xml", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetExport_500(t *testing.T) {
	svc := &mockManifestServicer{
		export: func(_ context.Context) ([]domain.ManifestRow, error) { return nil, errors.New("boom") },
	}

	rec := do(exportHandler(svc), http.MethodGet, "/api/export", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong!", decodeError(t, rec).Message)
}
