package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnu190806/emergency-supply-chain-management-system/dispatch"
	"github.com/vishnu190806/emergency-supply-chain-management-system/metrics"
)

func newTestServer(t *testing.T) (*httptest.Server, *dispatch.Queue) {
	t.Helper()
	queue := dispatch.NewQueue(dispatch.WithClock(func() time.Time {
		return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	}))
	prom, err := metrics.NewPromSink(prometheus.NewRegistry())
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(queue, prom))
	t.Cleanup(srv.Close)
	return srv, queue
}

func postJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestEnqueueAndList(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/requests", RequestPayload{
		ID:          "T1",
		SupplyType:  dispatch.CategoryMedicalKit,
		Quantity:    3,
		Timestamp:   "2025-01-01T12:00:00Z",
		Destination: "Test Camp",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	enq := decode[EnqueueResponse](t, resp)
	assert.Equal(t, "enqueued", enq.Status)
	assert.Greater(t, enq.ComputedPriority, 0.0)

	listResp, err := http.Get(srv.URL + "/api/queue")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	q := decode[QueueResponse](t, listResp)
	assert.Equal(t, 1, q.Size)
	require.Len(t, q.Items, 1)
	assert.Equal(t, "T1", q.Items[0].Request.ID)
	assert.Equal(t, enq.ComputedPriority, q.Items[0].Priority)
}

func TestListIsPopOrdered(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, p := range []RequestPayload{
		{ID: "low", SupplyType: dispatch.CategoryBlanket, Quantity: 1, Timestamp: "2025-01-01T12:00:00Z"},
		{ID: "high", SupplyType: dispatch.CategoryMedicalKit, Quantity: 1, Timestamp: "2025-01-01T12:00:00Z"},
		{ID: "mid", SupplyType: dispatch.CategoryWater, Quantity: 1, Timestamp: "2025-01-01T12:00:00Z"},
	} {
		resp := postJSON(t, srv.URL+"/api/requests", p)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	listResp, err := http.Get(srv.URL + "/api/queue")
	require.NoError(t, err)
	q := decode[QueueResponse](t, listResp)

	require.Len(t, q.Items, 3)
	assert.Equal(t, "high", q.Items[0].Request.ID)
	assert.Equal(t, "mid", q.Items[1].Request.ID)
	assert.Equal(t, "low", q.Items[2].Request.ID)
}

func TestDispatchNext(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/requests", RequestPayload{
		ID: "T2", SupplyType: dispatch.CategoryFood, Quantity: 1,
		Timestamp: "2025-01-01T11:00:00Z", Destination: "Test Camp 2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	dispResp, err := http.Post(srv.URL+"/api/dispatch", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, dispResp.StatusCode)

	d := decode[DispatchResponse](t, dispResp)
	assert.Equal(t, "T2", d.Dispatched.Request.ID)
}

func TestDispatchEmptyQueueIs404(t *testing.T) {
	srv, _ := newTestServer(t)

	for i := 0; i < 2; i++ {
		resp, err := http.Post(srv.URL+"/api/dispatch", "application/json", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		body := decode[map[string]string](t, resp)
		assert.Equal(t, "queue empty", body["error"])
	}
}

func TestEnqueueRejectsBadTimestamp(t *testing.T) {
	srv, queue := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/requests", RequestPayload{
		ID: "BAD1", SupplyType: dispatch.CategoryFood, Quantity: 1,
		Timestamp: "not-a-timestamp",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Contains(t, body["error"], "bad datetime format")

	// The failed add left the queue untouched
	assert.Equal(t, 0, queue.Len())
}

func TestEnqueueValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name    string
		payload RequestPayload
	}{
		{"missing id", RequestPayload{SupplyType: dispatch.CategoryFood, Quantity: 1}},
		{"zero quantity", RequestPayload{ID: "Q0", SupplyType: dispatch.CategoryFood}},
		{"bad expiry", RequestPayload{ID: "E1", SupplyType: dispatch.CategoryFood, Quantity: 1, ExpiryDate: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/requests", tt.payload)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			resp.Body.Close()
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/dispatch")
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/health", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		resp.Body.Close()
	}
}
