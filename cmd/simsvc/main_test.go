package main

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"battlesim/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "sim.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestConfigure_LogsConfigErrors(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		override func(*config.SimConfig)
		msg      string
	}{
		{"unreadable yaml", "arena: [", nil, "load config"},
		{"rounds over cap", "rules:\n  max_rounds: 5000\n", nil, "load config"},
		{"bad override", "", func(c *config.SimConfig) { c.Batch.GroupCount = -1 }, "invalid configuration"},
		{"bad log level", "log:\n  level: loud\n", nil, "build logger"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			cfg, log, ok := configure(zap.New(core), writeConfig(t, c.body), c.override)
			if ok || cfg != nil || log != nil {
				t.Fatalf("configure accepted a bad config")
			}
			entries := logs.FilterMessage(c.msg).All()
			if len(entries) != 1 || entries[0].Level != zapcore.ErrorLevel {
				t.Fatalf("logged=%v want one %q error", logs.All(), c.msg)
			}
			if _, has := entries[0].ContextMap()["error"]; !has {
				t.Fatalf("error field missing: %v", entries[0].ContextMap())
			}
		})
	}
}

func TestConfigure_AppliesOverrides(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg, log, ok := configure(zap.New(core), writeConfig(t, "batch:\n  battles: 7\n"), func(c *config.SimConfig) {
		c.Batch.Seed = 99
	})
	if !ok {
		t.Fatalf("configure failed: %v", logs.All())
	}
	defer log.Sync()
	if cfg.Batch.Battles != 7 || cfg.Batch.Seed != 99 {
		t.Fatalf("battles=%d seed=%d want 7/99", cfg.Batch.Battles, cfg.Batch.Seed)
	}
	if logs.Len() != 0 {
		t.Fatalf("unexpected logs: %v", logs.All())
	}
}
