package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncIngestRuns()
	s.IncIngestRuns()
	s.IncIngestFailures()
	s.IncUpserts("player", true)
	s.IncUpserts("player", false)
	s.IncUpserts("player", false)
	s.IncAPINoData("battlelog")

	assert.Equal(t, 2.0, testutil.ToFloat64(s.IngestRuns))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.IngestFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Upserts.WithLabelValues("player", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.Upserts.WithLabelValues("player", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.APINoData.WithLabelValues("battlelog")))
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.IncCommands("rankings")

	rr := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `brawlboss_commands_total{command="rankings"} 1`))
}

func TestMock(t *testing.T) {
	m := NewMock()
	m.IncUpserts("battle", true)
	m.IncUpserts("battle", false)
	m.IncAPINoData("club")

	assert.Equal(t, 2, m.Upserts("battle"))
	assert.Equal(t, 1, m.NewUpserts("battle"))
	assert.Equal(t, 1, m.APINoData("club"))
	assert.Equal(t, 0, m.APINoData("player"))
}
