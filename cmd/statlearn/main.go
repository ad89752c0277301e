// Command statlearn runs the logistic regression grid search and the model
// evaluation on the two synthetic datasets, logging reports as JSON.
//
// Usage:
//
//	statlearn -config experiment.yaml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/YuminosukeSato/statlearn/pkg/config"
	"github.com/YuminosukeSato/statlearn/pkg/log"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML experiment configuration")
	logLevel := flag.String("log-level", "", "override log_level from the configuration")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.SetupLogger("info")
		slog.Error("Failed to load configuration", log.ErrAttr(err))
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
		if err := cfg.Validate(); err != nil {
			log.SetupLogger("info")
			slog.Error("Invalid log level", log.ErrAttr(err))
			os.Exit(2)
		}
	}

	log.SetupLogger(cfg.LogLevel)
	provider := log.NewZerologProvider(log.ToLogLevel(cfg.LogLevel))
	provider.InstallWarningSink()
	log.SetProvider(provider)

	results, err := run(cfg)
	if err != nil {
		slog.Error("Experiment failed", log.ErrAttr(err))
		os.Exit(1)
	}
	for _, r := range results {
		fmt.Printf("dataset %s eta=%g eps=%g cv=%.4f %s\n", r.Name, r.BestEta, r.BestEps, r.CVScore, r.Report)
	}
}
