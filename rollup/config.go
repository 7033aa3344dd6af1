package rollup

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/ethpandaops/rollup-node/payload"
)

// Genesis anchors the L2 chain: the L1 block the chain starts deriving from,
// the L2 genesis block, and the L2 genesis timestamp.
type Genesis struct {
	L1     BlockID `yaml:"l1"`
	L2     BlockID `yaml:"l2"`
	L2Time uint64  `yaml:"l2_time"`
}

// Config is the rollup chain configuration loaded at startup. Fork
// activation times are timestamps; a nil time means the fork never
// activates on this chain.
type Config struct {
	L2ChainID uint64  `yaml:"l2_chain_id"`
	BlockTime uint64  `yaml:"block_time"`
	Genesis   Genesis `yaml:"genesis"`

	// CanyonTime activates the withdrawals fork; payloads at or after it
	// use the Capella-style layout.
	CanyonTime *uint64 `yaml:"canyon_time,omitempty"`
}

// LoadConfig reads and validates a rollup config file. Unknown keys are
// rejected so a typo in a fork name cannot silently disable the fork.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rollup config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing rollup config %s: %w", path, err)
	}

	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid rollup config %s: %w", path, err)
	}

	return cfg, nil
}

// Check validates the config for internal consistency.
func (c *Config) Check() error {
	if c.L2ChainID == 0 {
		return errors.New("l2_chain_id must be set")
	}

	if c.BlockTime == 0 {
		return errors.New("block_time must be set")
	}

	if c.Genesis.L1.Hash == (common.Hash{}) {
		return errors.New("genesis.l1.hash must be set")
	}

	if c.Genesis.L2.Hash == (common.Hash{}) {
		return errors.New("genesis.l2.hash must be set")
	}

	if c.Genesis.L1.Hash == c.Genesis.L2.Hash {
		return errors.New("genesis.l1 and genesis.l2 must be distinct blocks")
	}

	return nil
}

// IsCanyon reports whether the withdrawals fork is active at the given L2
// block timestamp.
func (c *Config) IsCanyon(timestamp uint64) bool {
	return c.CanyonTime != nil && timestamp >= *c.CanyonTime
}

// PayloadVersion returns the payload wire layout for an L2 block at the
// given timestamp. The payload itself does not carry its version; this is
// the single place the fork schedule is mapped onto the codec.
func (c *Config) PayloadVersion(timestamp uint64) payload.PayloadVersion {
	if c.IsCanyon(timestamp) {
		return payload.PayloadV1
	}

	return payload.PayloadV0
}
