package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstUpdateOnlyEstablishesBaseline(t *testing.T) {
	a := NewAggregator()

	// whatever the registers read, the first call must leave the total at zero
	total, err := a.Update("170124213128W", 12345.6, 789.0, 4321.0, 99.9)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestDeltaAccumulation(t *testing.T) {
	a := NewAggregator()

	_, err := a.Update("170124213128W", 5.0, 0.0, 0.0, 0.0)
	assert.NoError(t, err)

	// delivered sum 5.0 -> 6.5, returned sum 0.0 -> 0.5: net delta is exactly 1.0
	total, err := a.Update("170124213138W", 6.0, 0.5, 0.25, 0.25)
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, total, 1e-9)

	// a further import-only interval accumulates on top
	total, err = a.Update("170124213148W", 6.5, 0.5, 0.25, 0.25)
	assert.NoError(t, err)
	assert.InDelta(t, 1.5, total, 1e-9)
}

func TestExportExceedingImportGoesNegative(t *testing.T) {
	a := NewAggregator()

	_, err := a.Update("170124120000W", 10.0, 0.0, 20.0, 0.0)
	assert.NoError(t, err)

	total, err := a.Update("170124120010W", 10.1, 0.0, 21.0, 0.0)
	assert.NoError(t, err)
	assert.InDelta(t, -0.9, total, 1e-9)
}

func TestDayBoundaryResetsTotal(t *testing.T) {
	a := NewAggregator()

	_, err := a.Update("170124235950W", 100.0, 0.0, 0.0, 0.0)
	assert.NoError(t, err)
	total, err := a.Update("170124235959W", 103.0, 0.0, 0.0, 0.0)
	assert.NoError(t, err)
	assert.InDelta(t, 3.0, total, 1e-9)

	// crossing midnight: the total resets, then the delta across the boundary is applied
	total, err = a.Update("170125000009W", 104.0, 0.0, 0.0, 0.0)
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestShortTimestampIsAFormatError(t *testing.T) {
	a := NewAggregator()

	_, err := a.Update("170124213128W", 5.0, 0.0, 0.0, 0.0)
	assert.NoError(t, err)
	_, err = a.Update("170124213138W", 6.0, 0.0, 0.0, 0.0)
	assert.NoError(t, err)

	// too short to carry a day key: must fail without touching the day state
	total, err := a.Update("17012", 7.0, 0.0, 0.0, 0.0)
	assert.Error(t, err)
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.InDelta(t, 1.0, a.DayTotal(), 1e-9)
}
