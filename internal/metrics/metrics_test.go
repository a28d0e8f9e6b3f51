package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveJob(t *testing.T) {
	before := testutil.ToFloat64(JobErrors.WithLabelValues("test_job"))
	runs := testutil.ToFloat64(JobRuns.WithLabelValues("test_job"))

	ObserveJob("test_job", time.Now(), nil)
	ObserveJob("test_job", time.Now(), errors.New("boom"))

	assert.Equal(t, before+1, testutil.ToFloat64(JobErrors.WithLabelValues("test_job")))
	assert.Equal(t, runs+2, testutil.ToFloat64(JobRuns.WithLabelValues("test_job")))
}
