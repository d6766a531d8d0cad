package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSwipe(t *testing.T) {
	before := testutil.ToFloat64(SwipesTotal.WithLabelValues("like", "match"))
	RecordSwipe("like", "match")
	assert.Equal(t, before+1, testutil.ToFloat64(SwipesTotal.WithLabelValues("like", "match")))
}

func TestRecordUndo(t *testing.T) {
	before := testutil.ToFloat64(UndoTotal.WithLabelValues("rejected"))
	RecordUndo(false)
	assert.Equal(t, before+1, testutil.ToFloat64(UndoTotal.WithLabelValues("rejected")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordMatch()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "vibin_matches_total")
}
