package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adibus/fleet/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestNewPaginationParams(t *testing.T) {
	tests := []struct {
		name        string
		page, limit *int
		want        domain.PaginationParams
	}{
		{"defaults", nil, nil, domain.PaginationParams{Page: 1, Limit: 20}},
		{"explicit", intPtr(3), intPtr(10), domain.PaginationParams{Page: 3, Limit: 10}},
		{"limit capped", nil, intPtr(500), domain.PaginationParams{Page: 1, Limit: domain.MaxPageLimit}},
		{"non-positive ignored", intPtr(0), intPtr(-4), domain.PaginationParams{Page: 1, Limit: 20}},
		{"huge page capped", intPtr(4611686018427387904), intPtr(100), domain.PaginationParams{Page: domain.MaxPage, Limit: 100}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.NewPaginationParams(tc.page, tc.limit))
		})
	}
}

func TestPaginationParams_Window(t *testing.T) {
	p := domain.PaginationParams{Page: 2, Limit: 4}
	assert.Equal(t, 4, p.Offset())

	start, end := p.Window(10)
	assert.Equal(t, 4, start)
	assert.Equal(t, 8, end)

	start, end = p.Window(6)
	assert.Equal(t, 4, start)
	assert.Equal(t, 6, end)

	start, end = p.Window(3)
	assert.Equal(t, 3, start)
	assert.Equal(t, 3, end)
}

func TestPaginationParams_HugePage(t *testing.T) {
	p := domain.NewPaginationParams(intPtr(math.MaxInt), intPtr(domain.MaxPageLimit))
	assert.Positive(t, p.Offset())

	start, end := p.Window(1)
	assert.Equal(t, 1, start)
	assert.Equal(t, 1, end)

	// Built directly, without NewPaginationParams.
	raw := domain.PaginationParams{Page: math.MaxInt, Limit: 50}
	assert.Equal(t, math.MaxInt, raw.Offset())
	start, end = raw.Window(3)
	assert.Equal(t, 3, start)
	assert.Equal(t, 3, end)
}
