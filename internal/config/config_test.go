package config

import (
	"log/slog"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TEMPLATES_SHEET", "Templates v3")
	t.Setenv("ID_WIDTH", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TemplatesSheet != "Templates v3" {
		t.Fatalf("sheet=%q", cfg.TemplatesSheet)
	}
	if cfg.ResultTypesSheet != "Result Types" {
		t.Fatalf("result types sheet=%q", cfg.ResultTypesSheet)
	}
	if cfg.IDWidth != 4 {
		t.Fatalf("width=%d", cfg.IDWidth)
	}
}

func TestSlogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: " WARN ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "", want: slog.LevelInfo},
		{in: "verbose", want: slog.LevelInfo},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := (Config{LogLevel: tc.in}).SlogLevel(); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestRequire(t *testing.T) {
	var cfg Config
	if err := cfg.Require("OUTPUT_DIR", " "); err == nil {
		t.Fatal("expected error")
	}
	if err := cfg.Require("OUTPUT_DIR", "out"); err != nil {
		t.Fatal(err)
	}
}
