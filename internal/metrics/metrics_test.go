package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	Register()

	before := testutil.ToFloat64(httpRequests.WithLabelValues("/api/v1/bookings"))
	IncHTTP("/api/v1/bookings")
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("/api/v1/bookings")))

	before = testutil.ToFloat64(recordWrites.WithLabelValues("bookings", "create"))
	IncWrite("bookings", "create")
	assert.Equal(t, before+1, testutil.ToFloat64(recordWrites.WithLabelValues("bookings", "create")))

	before = testutil.ToFloat64(syncFailures.WithLabelValues("expenses"))
	IncSyncFailure("expenses")
	assert.Equal(t, before+1, testutil.ToFloat64(syncFailures.WithLabelValues("expenses")))

	before = testutil.ToFloat64(reportsGenerated)
	IncReport()
	assert.Equal(t, before+1, testutil.ToFloat64(reportsGenerated))
}
