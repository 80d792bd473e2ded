package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vishnu190806/emergency-supply-chain-management-system/sim"
)

var (
	// CLI flags for the sweep; defaults mirror a one-hour single-server
	// run with a 30 s mean service time.
	sweepRates  []float64 // Arrival rates in events per second
	horizon     float64   // Workload window in seconds
	serviceRate float64   // mu, services per second
	arrivalSeed int64     // Seed for arrival generation
	serviceSeed int64     // Seed for the service-time stream
	sweepFile   string    // Optional yaml sweep preset file
	outPath     string    // Optional CSV output for downstream plotting
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Compare priority dispatch against FIFO on a synthetic workload",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := sim.SweepConfig{
			Rates:       sweepRates,
			Horizon:     horizon,
			ServiceRate: serviceRate,
			ArrivalSeed: arrivalSeed,
			ServiceSeed: serviceSeed,
		}
		if sweepFile != "" {
			preset, err := loadSweepPreset(sweepFile)
			if err != nil {
				logrus.Fatalf("load sweep preset: %v", err)
			}
			cfg = preset
		}
		if len(cfg.Rates) == 0 {
			logrus.Fatal("no arrival rates given")
		}
		if cfg.ServiceRate <= 0 {
			logrus.Fatal("service rate must be positive")
		}

		points := sim.RunSweep(cfg)
		printSweep(points)

		if outPath != "" {
			if err := writeSweepCSV(outPath, points); err != nil {
				logrus.Fatalf("write %s: %v", outPath, err)
			}
			logrus.Infof("wrote %s", outPath)
		}
	},
}

// printSweep renders the per-rate comparison at the end of the sweep.
func printSweep(points []sim.SweepPoint) {
	fmt.Println("=== Priority vs FIFO ===")
	for _, p := range points {
		fmt.Printf("rate %.3f/s\n", p.Rate)
		fmt.Printf("  priority : %s\n", p.Priority)
		fmt.Printf("  fifo     : %s\n", p.FIFO)
	}
}

// writeSweepCSV emits one row per rate for the external plotting tooling.
func writeSweepCSV(path string, points []sim.SweepPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"rate",
		"priority_mean_wait", "priority_p95_wait", "priority_urgent_mean_wait", "priority_urgent_within_sl", "priority_completed",
		"fifo_mean_wait", "fifo_p95_wait", "fifo_urgent_mean_wait", "fifo_urgent_within_sl", "fifo_completed",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			formatFloat(p.Rate),
			formatFloat(p.Priority.MeanWait), formatFloat(p.Priority.P95Wait),
			formatFloat(p.Priority.MeanWaitUrgent), formatFloat(p.Priority.UrgentFraction),
			strconv.Itoa(p.Priority.Completed),
			formatFloat(p.FIFO.MeanWait), formatFloat(p.FIFO.P95Wait),
			formatFloat(p.FIFO.MeanWaitUrgent), formatFloat(p.FIFO.UrgentFraction),
			strconv.Itoa(p.FIFO.Completed),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func init() {
	simulateCmd.Flags().Float64SliceVar(&sweepRates, "rates", []float64{0.02, 0.03, 0.04, 0.05, 0.06}, "Arrival rates to sweep (events/sec)")
	simulateCmd.Flags().Float64Var(&horizon, "horizon", 3600, "Workload window (seconds)")
	simulateCmd.Flags().Float64Var(&serviceRate, "service-rate", 1.0/30.0, "Service rate mu (services/sec)")
	simulateCmd.Flags().Int64Var(&arrivalSeed, "arrival-seed", 123, "Seed for arrival generation")
	simulateCmd.Flags().Int64Var(&serviceSeed, "service-seed", 999, "Seed for the service-time stream")
	simulateCmd.Flags().StringVar(&sweepFile, "sweep-config", "", "Yaml sweep preset file (overrides rate/seed flags)")
	simulateCmd.Flags().StringVar(&outPath, "out", "", "CSV output path for sweep results")
	rootCmd.AddCommand(simulateCmd)
}
