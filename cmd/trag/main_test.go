package main

import (
	"context"
	"log/slog"
	"testing"
)

func TestInitLoggingLevelFromEnv(t *testing.T) {
	cases := []struct {
		name    string
		env     string
		debugOn bool
		infoOn  bool
		warnOn  bool
		errorOn bool
	}{
		{name: "debug", env: "debug", debugOn: true, infoOn: true, warnOn: true, errorOn: true},
		{name: "warn", env: "warn", debugOn: false, infoOn: false, warnOn: true, errorOn: true},
		{name: "error", env: "error", debugOn: false, infoOn: false, warnOn: false, errorOn: true},
		{name: "default", env: "", debugOn: false, infoOn: true, warnOn: true, errorOn: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TRAG_LOG_LEVEL", tc.env)
			initLogging()
			h := slog.Default().Handler()
			ctx := context.Background()
			if got := h.Enabled(ctx, slog.LevelDebug); got != tc.debugOn {
				t.Fatalf("debug enabled=%v want %v", got, tc.debugOn)
			}
			if got := h.Enabled(ctx, slog.LevelInfo); got != tc.infoOn {
				t.Fatalf("info enabled=%v want %v", got, tc.infoOn)
			}
			if got := h.Enabled(ctx, slog.LevelWarn); got != tc.warnOn {
				t.Fatalf("warn enabled=%v want %v", got, tc.warnOn)
			}
			if got := h.Enabled(ctx, slog.LevelError); got != tc.errorOn {
				t.Fatalf("error enabled=%v want %v", got, tc.errorOn)
			}
		})
	}
}
