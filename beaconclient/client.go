// Package beaconclient talks to an L1 consensus-layer node over the standard
// beacon HTTP API. The rollup node uses it to resolve beacon slots from L1
// block timestamps and to retrieve the blob sidecars referenced by batcher
// transactions.
package beaconclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/attestantio/go-eth2-client/spec/deneb"
	"github.com/sirupsen/logrus"
)

const (
	genesisPath  = "eth/v1/beacon/genesis"
	specPath     = "eth/v1/config/spec"
	sidecarsPath = "eth/v1/beacon/blob_sidecars"
)

// ChainSpec carries the beacon chain parameters the rollup node consumes.
// The spec endpoint returns many more fields; they are ignored.
type ChainSpec struct {
	SecondsPerSlot uint64
}

// chainTiming is the memoized (genesis_time, seconds_per_slot) pair. It is
// published atomically as a whole so concurrent callers observe either both
// values or neither.
type chainTiming struct {
	genesisTime    uint64
	secondsPerSlot uint64
}

// Client is a long-lived beacon API client safe for concurrent use. It
// performs no retries and applies no implicit timeout: deadlines and
// cancellation come from the caller's context, and an aborted context aborts
// the in-flight HTTP request.
type Client struct {
	baseURL *url.URL
	client  *http.Client
	log     logrus.FieldLogger

	timing atomic.Pointer[chainTiming]
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport used for beacon requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithLogger replaces the client's logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a beacon client for the node at addr (scheme://host[:port]).
func New(addr string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(addr, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid beacon address %q: %w", addr, err)
	}

	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid beacon address %q: unsupported scheme %q", addr, base.Scheme)
	}

	c := &Client{
		baseURL: base,
		client:  http.DefaultClient,
		log:     logrus.WithField("component", "beacon_client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// get performs a single GET against the beacon node and decodes the JSON
// response envelope into out. endpoint is the metrics label, elem the path
// segments under the base URL.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any, elem ...string) error {
	u := c.baseURL.JoinPath(elem...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("building beacon %s request: %w", endpoint, err)
	}

	req.Header.Set("Accept", "application/json")
	requestsTotal.WithLabelValues(endpoint).Inc()

	resp, err := c.client.Do(req)
	if err != nil {
		requestFailures.WithLabelValues(endpoint, "transport").Inc()
		return fmt.Errorf("beacon %s request: %w", endpoint, err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		requestFailures.WithLabelValues(endpoint, "status").Inc()
		return &HTTPStatusError{Status: resp.StatusCode, Endpoint: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		requestFailures.WithLabelValues(endpoint, "decode").Inc()
		return fmt.Errorf("%w: beacon %s response: %v", ErrDecode, endpoint, err)
	}

	return nil
}

// GenesisTime returns the beacon chain genesis timestamp. A cached value from
// an earlier SlotFromTime is reused; otherwise one HTTP request is made.
func (c *Client) GenesisTime(ctx context.Context) (uint64, error) {
	if t := c.timing.Load(); t != nil {
		return t.genesisTime, nil
	}

	return c.fetchGenesisTime(ctx)
}

func (c *Client) fetchGenesisTime(ctx context.Context) (uint64, error) {
	var resp struct {
		Data struct {
			GenesisTime json.RawMessage `json:"genesis_time"`
		} `json:"data"`
	}

	if err := c.get(ctx, "genesis", nil, &resp, genesisPath); err != nil {
		return 0, err
	}

	genesisTime, err := parseUintValue(resp.Data.GenesisTime)
	if err != nil {
		return 0, fmt.Errorf("%w: genesis_time: %v", ErrDecode, err)
	}

	return genesisTime, nil
}

// Spec fetches the beacon chain spec. The result is not cached here:
// SlotFromTime keeps its own immutable copy of the fields it needs.
func (c *Client) Spec(ctx context.Context) (*ChainSpec, error) {
	var resp struct {
		Data struct {
			SecondsPerSlot json.RawMessage `json:"SECONDS_PER_SLOT"`
		} `json:"data"`
	}

	if err := c.get(ctx, "spec", nil, &resp, specPath); err != nil {
		return nil, err
	}

	secondsPerSlot, err := parseUintValue(resp.Data.SecondsPerSlot)
	if err != nil {
		return nil, fmt.Errorf("%w: SECONDS_PER_SLOT: %v", ErrDecode, err)
	}

	if secondsPerSlot == 0 {
		return nil, fmt.Errorf("%w: SECONDS_PER_SLOT is zero", ErrDecode)
	}

	return &ChainSpec{SecondsPerSlot: secondsPerSlot}, nil
}

// SlotFromTime maps an L1 timestamp to its beacon slot. The first successful
// call fetches genesis and spec and publishes both values at once; later
// calls never touch the network. Two racing cold-cache callers may both
// fetch, in which case one publication wins and the results are identical.
func (c *Client) SlotFromTime(ctx context.Context, timestamp uint64) (uint64, error) {
	timing := c.timing.Load()
	if timing == nil {
		genesisTime, err := c.fetchGenesisTime(ctx)
		if err != nil {
			return 0, err
		}

		spec, err := c.Spec(ctx)
		if err != nil {
			return 0, err
		}

		timing = &chainTiming{genesisTime: genesisTime, secondsPerSlot: spec.SecondsPerSlot}
		if !c.timing.CompareAndSwap(nil, timing) {
			timing = c.timing.Load()
		} else {
			c.log.WithFields(logrus.Fields{
				"genesis_time":     timing.genesisTime,
				"seconds_per_slot": timing.secondsPerSlot,
			}).Debug("cached beacon chain timing")
		}
	}

	if timestamp < timing.genesisTime {
		return 0, fmt.Errorf("%w: %d < %d", ErrBeforeGenesis, timestamp, timing.genesisTime)
	}

	return (timestamp - timing.genesisTime) / timing.secondsPerSlot, nil
}

// BlobSidecars retrieves the blob sidecars of the given beacon block. blockID
// is a decimal slot number or a 0x-prefixed block root. With a non-empty
// indices list only the sidecars at those blob indices are requested;
// otherwise all sidecars of the block are returned. Sidecar contents are
// forwarded verbatim; KZG verification is the caller's concern.
func (c *Client) BlobSidecars(ctx context.Context, blockID string, indices []uint64) ([]*deneb.BlobSidecar, error) {
	var query url.Values

	if len(indices) > 0 {
		parts := make([]string, 0, len(indices))
		for _, index := range indices {
			parts = append(parts, strconv.FormatUint(index, 10))
		}

		query = url.Values{"indices": []string{strings.Join(parts, ",")}}
	}

	var resp struct {
		Data []*deneb.BlobSidecar `json:"data"`
	}

	if err := c.get(ctx, "blob_sidecars", query, &resp, sidecarsPath, blockID); err != nil {
		return nil, err
	}

	return resp.Data, nil
}

// parseUintValue decodes a beacon API numeric quantity, which may arrive as
// a decimal string or a bare JSON number.
func parseUintValue(raw json.RawMessage) (uint64, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0, fmt.Errorf("missing value")
	}

	return strconv.ParseUint(s, 10, 64)
}
