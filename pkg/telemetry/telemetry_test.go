// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"testing"

	"github.com/Stevenfgonzalez/HHAC/pkg/errors"
)

func TestConfigEnabled(t *testing.T) {
	cases := map[string]bool{
		"":       false,
		"none":   false,
		"stdout": true,
		"otlp":   true,
	}
	for exporter, want := range cases {
		cfg := Config{Exporter: exporter}
		if got := cfg.Enabled(); got != want {
			t.Errorf("Enabled(%q) = %v, want %v", exporter, got, want)
		}
	}
}

func TestInitDisabledLeavesNoopGlobals(t *testing.T) {
	for _, exporter := range []string{"", ExporterNone} {
		shutdown, err := Init(context.Background(), "hhac-council", "test", Config{Exporter: exporter})
		if err != nil {
			t.Fatalf("Init(%q) failed: %v", exporter, err)
		}
		if shutdown == nil {
			t.Fatalf("Init(%q) must return a shutdown func", exporter)
		}
		if err := shutdown(context.Background()); err != nil {
			t.Errorf("disabled shutdown must be a no-op, got %v", err)
		}
	}
}

func TestInitUnknownExporter(t *testing.T) {
	_, err := Init(context.Background(), "hhac-council", "test", Config{Exporter: "jaeger"})
	if err == nil {
		t.Fatal("expected error for unknown exporter")
	}
	if errors.AsCouncilError(err).Code != errors.CodeConfig {
		t.Errorf("expected config error code, got %s", errors.AsCouncilError(err).Code)
	}
}

func TestInitOTLPRequiresEndpoint(t *testing.T) {
	_, err := Init(context.Background(), "hhac-council", "test", Config{Exporter: ExporterOTLP})
	if err == nil {
		t.Fatal("expected error for missing otlp endpoint")
	}
	if errors.AsCouncilError(err).Code != errors.CodeConfig {
		t.Errorf("expected config error code, got %s", errors.AsCouncilError(err).Code)
	}
}
