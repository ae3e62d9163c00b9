package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quanta-tokenomics/internal/domain"
	"quanta-tokenomics/internal/observability"
	"quanta-tokenomics/internal/simulation"
	"quanta-tokenomics/internal/verification"
)

func newTestServer(t *testing.T, origins ...string) (*httptest.Server, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetrics("test", prometheus.NewRegistry())
	runner, err := simulation.NewRunner(simulation.RunnerOptions{Metrics: m})
	require.NoError(t, err)

	srv := NewServer(Options{
		Runner:         runner,
		Metrics:        m,
		Logger:         log.New(io.Discard, "", 0),
		AllowedOrigins: origins,
	})
	srv.newID = func() string { return "session-1" }

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, m
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := get(t, ts.URL+"/health")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestDefaultParameters(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := get(t, ts.URL+"/v1/parameters/default")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got DefaultsResponse
	decode(t, resp, &got)
	assert.Equal(t, domain.DefaultParameters(), got.Parameters)
	assert.Equal(t, domain.Fields(), got.Fields)
	assert.Len(t, got.Ranges, len(domain.Fields()))
}

func TestSimulate_PartialBodyOverridesDefaults(t *testing.T) {
	ts, m := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/simulate", `{"taoPrice": 500}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var sim domain.Simulation
	decode(t, resp, &sim)
	assert.NotEmpty(t, sim.ScenarioID)
	assert.Equal(t, 500.0, sim.Params.TaoPrice)
	assert.Equal(t, domain.DefaultParameters().TotalSignalGenerators, sim.Params.TotalSignalGenerators)
	assert.Len(t, sim.Tiers, 4)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/v1/simulate", "POST", "200")))
}

func TestSimulate_EmptyBodyUsesDefaults(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/simulate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sim domain.Simulation
	decode(t, resp, &sim)
	assert.Equal(t, domain.DefaultParameters(), sim.Params)
}

func TestSimulate_BadRequests(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"taoPrice":`},
		{"unknown field", `{"taoPrise": 300}`},
		{"unbalanced tiers", `{"loserPercent": 30}`},
		{"zero price", `{"taoPrice": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/v1/simulate", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var e errorResponse
			decode(t, resp, &e)
			assert.NotEmpty(t, e.Error)
		})
	}
}

func TestEpochAndMonthly(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/epoch", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var epoch domain.EpochResult
	decode(t, resp, &epoch)
	assert.Greater(t, epoch.EpochPool, 0.0)

	resp = postJSON(t, ts.URL+"/v1/monthly", `{"epochsPerDay": 24}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var monthly domain.MonthlyResult
	decode(t, resp, &monthly)
	assert.Equal(t, 720, monthly.EpochsPerMonth)
}

func TestRebalance(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/tiers/rebalance", `{"field":"topTierPercent","value":15}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got domain.TierSplit
	decode(t, resp, &got)
	assert.Equal(t, 15.0, got.TopTierPercent)
	assert.Equal(t, 15.0, got.LoserPercent)
	assert.True(t, got.IsBalanced())

	resp = postJSON(t, ts.URL+"/v1/tiers/rebalance", `{"field":"taoPrice","value":15}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPowerLaw(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := get(t, ts.URL+"/v1/power-law")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var points []domain.PowerLawPoint
	decode(t, resp, &points)
	assert.Len(t, points, domain.DefaultPowerLawRanks)

	resp = get(t, ts.URL+"/v1/power-law?gamma=0&n=4")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &points)
	require.Len(t, points, 4)
	assert.InDelta(t, 25, points[0].RewardPercent, 1e-9)

	assert.Equal(t, http.StatusBadRequest, get(t, ts.URL+"/v1/power-law?gamma=abc").StatusCode)
	assert.Equal(t, http.StatusBadRequest, get(t, ts.URL+"/v1/power-law?n=0").StatusCode)
}

func TestSupply(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := get(t, ts.URL+"/v1/supply?months=12")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got SupplyResponse
	decode(t, resp, &got)
	assert.Len(t, got.Points, 13)
	assert.Equal(t, domain.InitialSupply, got.Summary.StartSupply)

	assert.Equal(t, http.StatusBadRequest, get(t, ts.URL+"/v1/supply?months=-1").StatusCode)
}

func TestBudget(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := get(t, ts.URL+"/v1/budget/presets")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var presets []domain.BudgetScenario
	decode(t, resp, &presets)
	assert.Len(t, presets, 3)

	resp = postJSON(t, ts.URL+"/v1/budget", `{"preset":"balanced"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res domain.BudgetResult
	decode(t, resp, &res)
	assert.Equal(t, 202000.0, res.Calculation.TotalBudget)
	assert.Zero(t, res.Calculation.Savings)
	assert.Len(t, res.BurnCurve, domain.BurnCurveMonths)
	assert.NotEmpty(t, res.BudgetID)

	resp = postJSON(t, ts.URL+"/v1/budget", `{"preset":"luxury"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBurnCurve(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := get(t, ts.URL+"/v1/budget/burn-curve?preset=lean&dev=120")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var curve []domain.BurnCurvePoint
	decode(t, resp, &curve)
	assert.Len(t, curve, domain.BurnCurveMonths)

	assert.Equal(t, http.StatusBadRequest, get(t, ts.URL+"/v1/budget/burn-curve?dev=x").StatusCode)
	assert.Equal(t, http.StatusNotFound, get(t, ts.URL+"/v1/budget/burn-curve?preset=nope").StatusCode)
}

func TestReport(t *testing.T) {
	ts, m := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/report", `{"taoPrice": 450}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/markdown"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "# QUANTA Tokenomics Report")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportsGenerated))

	resp = postJSON(t, ts.URL+"/v1/report", `{"loserPercent": 1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportsGenerated))
}

func TestVerify(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/simulate", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sim domain.Simulation
	decode(t, resp, &sim)

	body, err := json.Marshal(sim)
	require.NoError(t, err)
	resp = postJSON(t, ts.URL+"/v1/verify", string(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res verification.Result
	decode(t, resp, &res)
	assert.True(t, res.Match)

	sim.Monthly.Rake *= 2
	body, err = json.Marshal(sim)
	require.NoError(t, err)
	resp = postJSON(t, ts.URL+"/v1/verify", string(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &res)
	assert.False(t, res.Match)
	require.Len(t, res.Divergences, 1)
	assert.Equal(t, "monthly.rake", res.Divergences[0].Field)
}

func TestNotFoundAndMethod(t *testing.T) {
	ts, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, get(t, ts.URL+"/v1/nothing").StatusCode)
	assert.Equal(t, http.StatusMethodNotAllowed, get(t, ts.URL+"/v1/simulate").StatusCode)
}

func TestCORS(t *testing.T) {
	ts, _ := newTestServer(t, "https://app.example")

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://app.example", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.ErrInvalidInput))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/live"
}

func readMessage(t *testing.T, conn *websocket.Conn) LiveMessage {
	t.Helper()
	var msg LiveMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestLive_EditFlow(t *testing.T) {
	ts, m := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readMessage(t, conn)
	require.Equal(t, MessageSnapshot, first.Type)
	assert.Equal(t, "session-1", first.SessionID)
	require.NotNil(t, first.Simulation)
	assert.Equal(t, domain.DefaultParameters(), first.Simulation.Params)

	// Tier edit rebalances
	require.NoError(t, conn.WriteJSON(LiveEdit{Field: domain.FieldTopTierPercent, Value: 15}))
	msg := readMessage(t, conn)
	require.Equal(t, MessageSnapshot, msg.Type)
	assert.Equal(t, 15.0, msg.Simulation.Params.LoserPercent)

	// Out-of-range value is clamped
	require.NoError(t, conn.WriteJSON(LiveEdit{Field: domain.FieldNetworkRakePercent, Value: 99}))
	msg = readMessage(t, conn)
	require.Equal(t, MessageSnapshot, msg.Type)
	assert.Equal(t, domain.ParameterRanges[domain.FieldNetworkRakePercent].Max, msg.Simulation.Params.NetworkRakePercent)
	assert.Equal(t, 15.0, msg.Simulation.Params.LoserPercent, "earlier edits persist")

	// Unknown field leaves state unchanged
	require.NoError(t, conn.WriteJSON(LiveEdit{Field: "bogus", Value: 1}))
	msg = readMessage(t, conn)
	assert.Equal(t, MessageError, msg.Type)
	assert.Contains(t, msg.Error, "unknown parameter field")

	// Malformed message
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	msg = readMessage(t, conn)
	assert.Equal(t, MessageError, msg.Type)

	// Reset
	require.NoError(t, conn.WriteJSON(LiveEdit{Reset: true}))
	msg = readMessage(t, conn)
	require.Equal(t, MessageSnapshot, msg.Type)
	assert.Equal(t, domain.DefaultParameters(), msg.Simulation.Params)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LiveSessions))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.LiveEdits.WithLabelValues("applied")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LiveEdits.WithLabelValues("rejected")))
}

func TestLive_SessionsAreIndependent(t *testing.T) {
	ts, _ := newTestServer(t)

	a, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer a.Close()
	b, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer b.Close()

	readMessage(t, a)
	readMessage(t, b)

	require.NoError(t, a.WriteJSON(LiveEdit{Field: domain.FieldTaoPrice, Value: 1000}))
	assert.Equal(t, 1000.0, readMessage(t, a).Simulation.Params.TaoPrice)

	require.NoError(t, b.WriteJSON(LiveEdit{Field: domain.FieldEpochsPerDay, Value: 2}))
	assert.Equal(t, domain.DefaultParameters().TaoPrice, readMessage(t, b).Simulation.Params.TaoPrice)
}

func TestLive_RejectsForeignOrigin(t *testing.T) {
	ts, _ := newTestServer(t, "https://app.example")

	header := http.Header{}
	header.Set("Origin", "https://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
