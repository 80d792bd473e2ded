package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vishnu190806/emergency-supply-chain-management-system/dispatch"
	"github.com/vishnu190806/emergency-supply-chain-management-system/metrics"
)

// QueueHandler exposes the dispatch queue over HTTP. Handlers stay thin:
// validation and normalization live in the dispatch package.
type QueueHandler struct {
	Queue *dispatch.Queue
	Prom  *metrics.PromSink
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// Enqueue handles POST /api/requests: validate, admit, return the computed
// priority.
func (h *QueueHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var payload RequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if payload.ID == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}
	if payload.Quantity <= 0 {
		writeError(w, r, http.StatusBadRequest, "quantity must be positive")
		return
	}

	req, err := dispatch.NewRequest(payload.ID, payload.SupplyType, payload.Quantity,
		payload.Timestamp, payload.ExpiryDate, payload.DistanceKM, payload.Destination,
		time.Now())
	if err != nil {
		if errors.Is(err, dispatch.ErrMalformedTimestamp) {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("bad datetime format: %v", err))
			return
		}
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	score := h.Queue.Add(req)
	h.Prom.RecordEnqueue(req.Category, h.Queue.Len())

	writeJSON(w, r, http.StatusOK, EnqueueResponse{
		Status:           "enqueued",
		ComputedPriority: score,
	})
}

// List handles GET /api/queue: a consistent snapshot in pop order.
func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	entries := h.Queue.Snapshot()
	res := QueueResponse{
		Size:  len(entries),
		Items: make([]EntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		res.Items = append(res.Items, toEntryResponse(e))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Dispatch handles POST /api/dispatch: pop the most urgent request. An
// empty queue is a 404, not a server error.
func (h *QueueHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	entry, ok := h.Queue.Pop()
	if !ok {
		writeError(w, r, http.StatusNotFound, "queue empty")
		return
	}
	h.Prom.RecordDispatch(entry.Request.Category, h.Queue.Len())

	writeJSON(w, r, http.StatusOK, DispatchResponse{Dispatched: toEntryResponse(entry)})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
