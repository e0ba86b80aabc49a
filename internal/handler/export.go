package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/adibus/fleet/internal/domain"
)

// csvHeaders is the first row of any CSV manifest.
var csvHeaders = []string{
	"bus_id", "bus_number", "route", "bus_status", "departure_time",
	"stop_booking_before", "seat_number", "seat_status", "passenger_name",
}

type manifestRowResponse struct {
	BusID             uuid.UUID         `json:"busId"`
	BusNumber         string            `json:"busNumber"`
	Route             string            `json:"route"`
	BusStatus         domain.BusStatus  `json:"busStatus"`
	DepartureTime     time.Time         `json:"departureTime"`
	StopBookingBefore int               `json:"stopBookingBefore"`
	SeatNumber        int               `json:"seatNumber"`
	SeatStatus        domain.SeatStatus `json:"seatStatus"`
	PassengerName     *string           `json:"passengerName,omitempty"`
}

// GetExport handles GET /api/export.
// The default is JSON; ?format=csv returns the same rows as CSV.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "format must be json or csv", Code: codeValidation})
		return
	}

	rows, err := s.manifest.Export(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	if format == "csv" {
		writeCSV(w, rows)
		return
	}
	out := make([]manifestRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToResponse(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows into a buffer first so Content-Length can be set.
func writeCSV(w http.ResponseWriter, rows []domain.ManifestRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer writes do not fail.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(rowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="manifest.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func rowToResponse(r domain.ManifestRow) manifestRowResponse {
	out := manifestRowResponse{
		BusID:             r.BusID,
		BusNumber:         r.BusNumber,
		Route:             r.Route,
		BusStatus:         r.BusStatus,
		DepartureTime:     r.DepartureTime.UTC(),
		StopBookingBefore: r.StopBookingBefore,
		SeatNumber:        r.SeatNumber,
		SeatStatus:        r.SeatStatus,
		PassengerName:     r.PassengerName,
	}
	return out
}

func rowToCSVRecord(r domain.ManifestRow) []string {
	var passengerName string
	if r.PassengerName != nil {
		passengerName = *r.PassengerName
	}
	return []string{
		r.BusID.String(),
		r.BusNumber,
		r.Route,
		string(r.BusStatus),
		r.DepartureTime.UTC().Format(time.RFC3339),
		strconv.Itoa(r.StopBookingBefore),
		strconv.Itoa(r.SeatNumber),
		string(r.SeatStatus),
		passengerName,
	}
}
