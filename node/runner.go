// Package node owns the lifecycle of the rollup node's long-lived
// components.
package node

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Service is a long-lived component. Run blocks until the context is
// cancelled or the service fails; returning the context's error counts as a
// clean shutdown.
type Service interface {
	Run(ctx context.Context) error
}

type namedService struct {
	name    string
	service Service
}

// Runner executes registered services under a shared scope: the first
// failure cancels every sibling, and cancelling the caller's context winds
// all of them down cleanly.
type Runner struct {
	log      logrus.FieldLogger
	services []namedService
}

func NewRunner(log logrus.FieldLogger) *Runner {
	return &Runner{log: log}
}

// Register adds a service. Registration order is only used for logging;
// services run concurrently.
func (r *Runner) Register(name string, service Service) {
	r.services = append(r.services, namedService{name: name, service: service})
}

// Run blocks until every service has returned. It returns the first service
// failure, or nil when shutdown was triggered by the caller's context.
func (r *Runner) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	for _, s := range r.services {
		r.log.WithField("service", s.name).Info("starting service")

		group.Go(func() error {
			err := s.service.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, ctx.Err()) {
				r.log.WithField("service", s.name).WithError(err).Error("service failed")
				return fmt.Errorf("service %s: %w", s.name, err)
			}

			r.log.WithField("service", s.name).Info("service stopped")

			return nil
		})
	}

	return group.Wait()
}
