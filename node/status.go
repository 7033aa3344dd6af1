package node

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/rollup-node/beaconclient"
)

// BeaconStatus periodically resolves the current beacon slot and logs it. It
// doubles as a liveness probe of the L1 beacon endpoint: its first tick warms
// the client's genesis/spec cache for the derivation pipeline.
type BeaconStatus struct {
	log      logrus.FieldLogger
	client   *beaconclient.Client
	interval time.Duration
}

func NewBeaconStatus(log logrus.FieldLogger, client *beaconclient.Client, interval time.Duration) *BeaconStatus {
	return &BeaconStatus{
		log:      log.WithField("service", "beacon_status"),
		client:   client,
		interval: interval,
	}
}

func (s *BeaconStatus) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			slot, err := s.client.SlotFromTime(ctx, uint64(time.Now().Unix()))
			if err != nil {
				s.log.WithError(err).Warn("failed to resolve current beacon slot")
				continue
			}

			s.log.WithField("slot", slot).Debug("beacon chain tick")
		}
	}
}
