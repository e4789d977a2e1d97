// Package gofat32test builds ready-to-use engines for tests, hiding
// disk-construction boilerplate behind a `t *testing.T` helper.
package gofat32test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kjhartley/gofat32"
	"github.com/kjhartley/gofat32/engine"
)

// FixedInstant is the timestamp every engine built by NewEngine reports,
// chosen for round packed-date/time arithmetic: 2024-01-02 03:04:06 (an
// even second, since packed time only stores seconds/2).
var FixedInstant = time.Date(2024, time.January, 2, 3, 4, 6, 0, time.Local)

// NewEngine builds a freshly initialized engine of the given geometry whose
// clock always reports FixedInstant, for deterministic timestamp
// assertions.
func NewEngine(t *testing.T, clusterBytes, clusterCount uint32) *engine.Engine {
	t.Helper()
	e, err := engine.New(clusterBytes, clusterCount, gofat32.FixedClock{Instant: FixedInstant})
	require.NoError(t, err)
	return e
}
