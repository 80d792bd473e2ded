package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vishnu190806/emergency-supply-chain-management-system/api"
	"github.com/vishnu190806/emergency-supply-chain-management-system/config"
	"github.com/vishnu190806/emergency-supply-chain-management-system/dispatch"
	"github.com/vishnu190806/emergency-supply-chain-management-system/metrics"
)

var configPath string // Optional yaml/json config file

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the request gateway HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		// .env is optional; absence is not an error
		if err := godotenv.Load(); err == nil {
			logrus.Debug("loaded .env")
		}

		cfg := config.Default()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				logrus.Fatalf("load config %s: %v", configPath, err)
			}
			cfg = loaded
		}
		if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
			logrus.SetLevel(level)
		}

		sink, err := dispatch.NewFileSink(cfg.Audit.Path)
		if err != nil {
			logrus.Fatalf("open audit log: %v", err)
		}

		prom, err := metrics.NewPromSink(nil)
		if err != nil {
			logrus.Fatalf("register metrics: %v", err)
		}

		queue := dispatch.NewQueue(dispatch.WithAuditSink(sink))
		server := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: api.NewRouter(queue, prom),
		}

		go func() {
			logrus.Infof("gateway listening on %s (audit log %s)", cfg.Server.Addr, cfg.Audit.Path)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.Fatalf("serve: %v", err)
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		logrus.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logrus.Errorf("shutdown: %v", err)
		}
		if err := sink.Close(); err != nil {
			logrus.Errorf("close audit log: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "Path to yaml/json config file")
	rootCmd.AddCommand(serveCmd)
}
