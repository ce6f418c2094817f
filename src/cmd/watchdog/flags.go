// FILE: src/cmd/watchdog/flags.go
package main

import (
	"flag"
	"fmt"
	"os"
)

// Command-line flags
var (
	configFile  = flag.String("config", "", "Config file path")
	showVersion = flag.Bool("version", false, "Show version information")
	skipInstall = flag.Bool("skip-install", false, "Skip cache install, only activate and report")

	logOutput = flag.String("log-output", "", "Log output: stdout, stderr, none (overrides config)")
	logLevel  = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
)

func init() {
	flag.Usage = customUsage
}

func customUsage() {
	fmt.Fprintf(os.Stderr, "Watchdog - Client Telemetry Agent & Asset Cache Worker\n\n")
	fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Options:\n")

	fmt.Fprintf(os.Stderr, "\nGeneral:\n")
	fmt.Fprintf(os.Stderr, "  -config string\n\tConfig file path\n")
	fmt.Fprintf(os.Stderr, "  -version\n\tShow version information\n")
	fmt.Fprintf(os.Stderr, "  -skip-install\n\tSkip cache install, only activate and report\n")

	fmt.Fprintf(os.Stderr, "\nLogging:\n")
	fmt.Fprintf(os.Stderr, "  -log-output string\n\tLog output: stdout, stderr, none (overrides config)\n")
	fmt.Fprintf(os.Stderr, "  -log-level string\n\tLog level: debug, info, warn, error (overrides config)\n")

	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  # Install and activate the configured cache generation\n")
	fmt.Fprintf(os.Stderr, "  %s --config /etc/watchdog.toml\n\n", os.Args[0])

	fmt.Fprintf(os.Stderr, "  # Activate only, with debug logging\n")
	fmt.Fprintf(os.Stderr, "  %s --skip-install --log-level debug\n\n", os.Args[0])

	fmt.Fprintf(os.Stderr, "Environment Variables:\n")
	fmt.Fprintf(os.Stderr, "  WATCHDOG_CONFIG_FILE  Config file path\n")
	fmt.Fprintf(os.Stderr, "  WATCHDOG_CONFIG_DIR   Config directory\n")
}

func parseFlags() error {
	flag.Parse()

	if *logOutput != "" {
		switch *logOutput {
		case "stdout", "stderr", "none":
		default:
			return fmt.Errorf("invalid log-output: %s (valid: stdout, stderr, none)", *logOutput)
		}
	}

	if *logLevel != "" {
		switch *logLevel {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("invalid log-level: %s (valid: debug, info, warn, error)", *logLevel)
		}
	}

	return nil
}
