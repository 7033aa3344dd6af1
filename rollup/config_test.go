package rollup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethpandaops/rollup-node/payload"
)

const testConfig = `
l2_chain_id: 10
block_time: 2
genesis:
  l1:
    hash: "0x438335a20d98863a4c0c97999eb2481921ccd28553eac6f913af7c12aec04108"
    number: 17422590
  l2:
    hash: "0xdbf6a80fef073de06add9b0d14026d6e5a86c85f6d102c36d3d8e9cf89c2afd3"
    number: 105235063
  l2_time: 1686068903
canyon_time: 1704992401
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rollup.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.L2ChainID != 10 || cfg.BlockTime != 2 {
		t.Fatalf("unexpected chain params: %+v", cfg)
	}

	if cfg.Genesis.L1.Number != 17422590 || cfg.Genesis.L2.Number != 105235063 {
		t.Fatalf("unexpected genesis numbers: %+v", cfg.Genesis)
	}

	if cfg.Genesis.L1.Hash[0] != 0x43 || cfg.Genesis.L2.Hash[0] != 0xdb {
		t.Fatalf("unexpected genesis hashes: %+v", cfg.Genesis)
	}

	if cfg.CanyonTime == nil || *cfg.CanyonTime != 1704992401 {
		t.Fatalf("unexpected canyon time: %v", cfg.CanyonTime)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	content := strings.Replace(testConfig, "canyon_time:", "canyon_tyme:", 1)

	if _, err := LoadConfig(writeConfig(t, content)); err == nil {
		t.Fatalf("expected an error for an unknown key")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		message string
	}{
		{
			name:    "missing block time",
			mutate:  func(s string) string { return strings.Replace(s, "block_time: 2", "block_time: 0", 1) },
			message: "block_time",
		},
		{
			name:    "missing chain id",
			mutate:  func(s string) string { return strings.Replace(s, "l2_chain_id: 10", "l2_chain_id: 0", 1) },
			message: "l2_chain_id",
		},
		{
			name: "malformed hash",
			mutate: func(s string) string {
				return strings.Replace(s, "0x438335a20d98863a4c0c97999eb2481921ccd28553eac6f913af7c12aec04108", "0x4383", 1)
			},
			message: "hash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.mutate(testConfig)))
			if err == nil {
				t.Fatalf("expected an error")
			}

			if !strings.Contains(err.Error(), tt.message) {
				t.Fatalf("error %q does not mention %q", err, tt.message)
			}
		})
	}
}

func TestPayloadVersionSelection(t *testing.T) {
	canyon := uint64(1000)
	cfg := &Config{CanyonTime: &canyon}

	tests := []struct {
		timestamp uint64
		version   payload.PayloadVersion
	}{
		{timestamp: 0, version: payload.PayloadV0},
		{timestamp: 999, version: payload.PayloadV0},
		{timestamp: 1000, version: payload.PayloadV1},
		{timestamp: 5000, version: payload.PayloadV1},
	}

	for _, tt := range tests {
		if got := cfg.PayloadVersion(tt.timestamp); got != tt.version {
			t.Fatalf("payload version at %d: got %s want %s", tt.timestamp, got, tt.version)
		}
	}

	noCanyon := &Config{}
	if got := noCanyon.PayloadVersion(1 << 60); got != payload.PayloadV0 {
		t.Fatalf("expected v0 with no canyon time, got %s", got)
	}
}
