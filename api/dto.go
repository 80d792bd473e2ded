package api

import (
	"time"

	"github.com/vishnu190806/emergency-supply-chain-management-system/dispatch"
)

// RequestPayload is the wire form of an incoming supply request. Timestamps
// travel as ISO-8601 strings and are normalized at admission.
type RequestPayload struct {
	ID          string   `json:"id"`
	SupplyType  string   `json:"supply_type"`
	Quantity    int      `json:"quantity"`
	Timestamp   string   `json:"timestamp"`
	ExpiryDate  string   `json:"expiry_date,omitempty"`
	DistanceKM  *float64 `json:"distance_km,omitempty"`
	Destination string   `json:"destination,omitempty"`
}

// EnqueueResponse reports a successful admission.
type EnqueueResponse struct {
	Status           string  `json:"status"`
	ComputedPriority float64 `json:"computed_priority"`
}

// RequestResponse is the wire form of an admitted request.
type RequestResponse struct {
	ID          string     `json:"id"`
	SupplyType  string     `json:"supply_type"`
	Quantity    int        `json:"quantity"`
	Timestamp   time.Time  `json:"timestamp"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	DistanceKM  *float64   `json:"distance_km,omitempty"`
	Destination string     `json:"destination,omitempty"`
}

// EntryResponse is one queue entry with its admission score.
type EntryResponse struct {
	Priority  float64         `json:"priority"`
	Timestamp time.Time       `json:"timestamp"`
	Request   RequestResponse `json:"request"`
}

// QueueResponse is the full queue snapshot, highest priority first.
type QueueResponse struct {
	Size  int             `json:"size"`
	Items []EntryResponse `json:"items"`
}

// DispatchResponse wraps the entry removed by a dispatch call.
type DispatchResponse struct {
	Dispatched EntryResponse `json:"dispatched"`
}

func toEntryResponse(e dispatch.Entry) EntryResponse {
	return EntryResponse{
		Priority:  e.Score,
		Timestamp: e.Request.Submitted,
		Request: RequestResponse{
			ID:          e.Request.ID,
			SupplyType:  e.Request.Category,
			Quantity:    e.Request.Quantity,
			Timestamp:   e.Request.Submitted,
			ExpiryDate:  e.Request.Expiry,
			DistanceKM:  e.Request.DistanceKM,
			Destination: e.Request.Destination,
		},
	}
}
