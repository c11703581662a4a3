package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vitwit/mcpay"
	"github.com/vitwit/mcpay/config"
	"github.com/vitwit/mcpay/logger"
)

func main() {
	// Optional; the environment wins over the file.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mcpay: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewZapLogger(cfg.LogLevel)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := mcpay.New(cfg,
		mcpay.WithLogger(log),
		mcpay.WithPrometheus(reg),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mcpay: %v\n", err)
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "mcpay: %v\n", err)
		os.Exit(1)
	}
}
