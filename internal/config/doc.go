// Package config provides 12-factor configuration management for trichroma.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Channel: shared-memory channel name
//   - Run: defaults for the run orchestrator
//   - Metrics: diagnostics HTTP listener
//   - Logging: log level and output format
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Channel %s with %d generators\n", cfg.Channel.Name, cfg.Run.Generators)
//
// Environment Variables:
//   - TRICHROMA_CHANNEL, TRICHROMA_GENERATORS
//   - TRICHROMA_METRICS_ADDR
//   - TRICHROMA_LOG_LEVEL, TRICHROMA_LOG_FORMAT
package config
