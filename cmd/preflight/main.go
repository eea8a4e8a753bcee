// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hamed0406/healthlogger/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		fail("config invalid: " + err.Error())
	}
	ok("API_ADDR=" + cfg.Addr)
	ok("API_BASE=" + cfg.APIBase)
	ok("DISPLAY_TZ=" + cfg.DisplayTZ)

	// Spaces inside a key usually mean a copy/paste accident.
	raw := os.Getenv("REPORT_API_KEYS")
	if strings.Contains(strings.TrimSpace(raw), " ") {
		warn("REPORT_API_KEYS contains spaces; use comma-separated with no spaces, e.g. key1,key2")
	}

	switch {
	case len(cfg.ReportAPIKeys) == 0:
		warn("REPORT_API_KEYS empty; POST /status is open to anyone.")
	case cfg.APIKey == "":
		warn("API_KEY empty; the probe client will get 401 from /status.")
	default:
		found := false
		for _, k := range cfg.ReportAPIKeys {
			if k == cfg.APIKey {
				found = true
			}
		}
		if !found {
			fail("API_KEY is not one of REPORT_API_KEYS (reports will 401).")
		}
		ok("API_KEY accepted by REPORT_API_KEYS")
	}

	if cfg.DatabaseURL == "" {
		warn("DATABASE_URL empty; API will use the in-memory store (logs lost on restart).")
	} else {
		ok("DATABASE_URL present")
	}

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; CORS allows any origin.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	if cfg.HTTPTimeout == 0 {
		warn("HTTP_TIMEOUT_MS=0; a hung /health call blocks the probe until the server answers.")
	}
	if cfg.ReportRPM == 0 {
		warn("REPORT_RPM=0; /status is not rate limited.")
	}

	ok("preflight passed")
}
