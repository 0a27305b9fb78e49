// Command findetect runs the dorsal fin detection pipeline, either as a
// one-shot CLI or as an HTTP service.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/finwatch/findetect/internal/adapters/driven/config/file"
	"github.com/finwatch/findetect/internal/adapters/driven/detector/httpdetect"
	"github.com/finwatch/findetect/internal/adapters/driven/storage/factory"
	"github.com/finwatch/findetect/internal/adapters/driven/storage/sqlite"
	"github.com/finwatch/findetect/internal/adapters/driving/cli"
	"github.com/finwatch/findetect/internal/core/ports/driven"
	"github.com/finwatch/findetect/internal/core/services"
	"github.com/finwatch/findetect/internal/logger"
	"github.com/finwatch/findetect/internal/normalisers/jpeg"
)

// Build-time variables set via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore(os.Getenv("FINDETECT_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Run history is optional: commands still work without it
	var runs driven.RunStore
	store, err := sqlite.NewStore(configStore.GetString("storage.data_dir"))
	if err != nil {
		logger.Warn("Run history unavailable: %v", err)
	} else {
		defer store.Close()
		runs = store.RunStore()
	}

	// Commands that never reach the detector (version, runs, serve
	// startup) must work without an endpoint; detection calls then
	// fail per request instead.
	var detector driven.Detector
	client, err := httpdetect.NewClient(httpdetect.Config{
		Endpoint: detectorEndpoint(configStore),
		Timeout:  time.Duration(configStore.GetInt("detector.timeout_seconds")) * time.Second,
		Rate:     configStore.GetFloat("detector.rate"),
	})
	if err != nil {
		logger.Warn("Detector unavailable: %v", err)
		detector = httpdetect.Unavailable()
	} else {
		detector = client
	}

	blobFactory := factory.NewEnvFactory(configStore.GetStringSlice("storage.allowed_envs"))

	processor := services.NewProcessService(
		blobFactory,
		detector,
		jpeg.New(),
		runs,
		defaultEnv(configStore, "storage.conn_env_in"),
		defaultEnv(configStore, "storage.conn_env_out"),
	)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Processor: processor,
		RunStore:  runs,
		Config:    configStore,
	})

	return cli.Execute()
}

// detectorEndpoint prefers the environment over the config file so
// deployments can inject the model URL without a config write.
func detectorEndpoint(cfg *file.ConfigStore) string {
	if endpoint := os.Getenv("FIN_DETECTOR_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	return cfg.GetString("detector.endpoint")
}

// defaultEnv resolves a connection env var name from config, falling
// back to the Azure Functions default.
func defaultEnv(cfg *file.ConfigStore, key string) string {
	if name := cfg.GetString(key); name != "" {
		return name
	}
	return "AzureWebJobsStorage"
}
