package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInit_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(RequestsSubmitted.WithLabelValues("order"))
	RequestsSubmitted.WithLabelValues("order").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RequestsSubmitted.WithLabelValues("order")))

	views := testutil.ToFloat64(BookViews)
	BookViews.Inc()
	assert.Equal(t, views+1, testutil.ToFloat64(BookViews))
}
