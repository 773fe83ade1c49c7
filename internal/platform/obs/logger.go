package obs

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Configure sets up the process-wide logger. Logs go to stderr so they never
// interleave with console telemetry written to stdout.
func Configure(level, format string) error {
	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	log.SetOutput(os.Stderr)
	log.SetLevel(lvl)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("configure logger: unknown format %q", format)
	}

	return nil
}
