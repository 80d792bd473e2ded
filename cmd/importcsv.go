package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vishnu190806/emergency-supply-chain-management-system/api"
	"github.com/vishnu190806/emergency-supply-chain-management-system/dispatch"
)

var apiURL string // Gateway endpoint requests are posted to

var importCmd = &cobra.Command{
	Use:   "importcsv <requests.csv>",
	Short: "Bulk-enqueue requests from a CSV file via the gateway API",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		n, err := importCSV(args[0], apiURL, http.DefaultClient, time.Now)
		if err != nil {
			logrus.Fatalf("import: %v", err)
		}
		logrus.Infof("imported %d requests", n)
	},
}

// importCSV reads a header CSV (id, supply_type, quantity, timestamp,
// expiry_date, distance_km, destination) and posts each row to the gateway.
// Missing IDs get a generated UUID, a blank timestamp defaults to now, an
// unparseable distance degrades to absent. Returns the number of rows
// accepted by the gateway.
func importCSV(path, url string, client *http.Client, now func() time.Time) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	accepted := 0
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return accepted, fmt.Errorf("line %d: %w", line, err)
		}

		payload := api.RequestPayload{
			ID:          field(row, "id"),
			SupplyType:  field(row, "supply_type"),
			Quantity:    1,
			Timestamp:   field(row, "timestamp"),
			ExpiryDate:  field(row, "expiry_date"),
			DistanceKM:  dispatch.ParseDistance(field(row, "distance_km")),
			Destination: field(row, "destination"),
		}
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if q := field(row, "quantity"); q != "" {
			if n, err := strconv.Atoi(q); err == nil && n > 0 {
				payload.Quantity = n
			}
		}
		if payload.Timestamp == "" {
			payload.Timestamp = now().UTC().Format(time.RFC3339)
		}

		body, err := json.Marshal(payload)
		if err != nil {
			return accepted, fmt.Errorf("line %d: %w", line, err)
		}
		resp, err := client.Post(url, "application/json", bytes.NewReader(body))
		if err != nil {
			return accepted, fmt.Errorf("line %d: post: %w", line, err)
		}
		msg, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			logrus.Warnf("line %d: rejected (%d): %s", line, resp.StatusCode, bytes.TrimSpace(msg))
			continue
		}
		logrus.Debugf("line %d: %s", line, bytes.TrimSpace(msg))
		accepted++
	}
	return accepted, nil
}

func init() {
	importCmd.Flags().StringVar(&apiURL, "api", "http://127.0.0.1:8000/api/requests", "Gateway enqueue endpoint")
	rootCmd.AddCommand(importCmd)
}
