package startup

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
)

// Dependency is an external resource the service needs before it can serve
// traffic. A dependency names the other dependencies that must be started
// before it.
type Dependency interface {
	GetName() string
	DependsOn() []string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type status int

const (
	statusPending status = iota
	statusStarted
	statusStopped
	statusFailed
)

// Orchestrator starts dependencies in registration order, resolving
// DependsOn edges first. A failed attempt is retried with fibonacci backoff;
// dependencies that already started are not started again. Stop walks the
// started dependencies in reverse.
type Orchestrator struct {
	logger       ectologger.Logger
	dependencies []Dependency
	statuses     map[string]status
	started      []Dependency
	maxAttempts  int
}

func NewOrchestrator(logger ectologger.Logger, maxAttempts int) *Orchestrator {
	return &Orchestrator{
		logger:      logger,
		statuses:    make(map[string]status),
		maxAttempts: maxAttempts,
	}
}

func (o *Orchestrator) AddDependency(dependency Dependency) {
	o.dependencies = append(o.dependencies, dependency)
}

func (o *Orchestrator) Start(ctx context.Context) error {
	var lastErr error

	a, b := 1, 1
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		lastErr = nil
		for _, dependency := range o.dependencies {
			if err := o.startDependency(ctx, dependency); err != nil {
				lastErr = err
				break
			}
		}
		if lastErr == nil {
			return nil
		}

		if attempt >= o.maxAttempts {
			break
		}

		o.logger.WithError(lastErr).Warnf("Startup attempt %d/%d failed, retrying in %d seconds", attempt, o.maxAttempts, a)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(a) * time.Second):
		}
		a, b = b, a+b
	}

	return fmt.Errorf("startup failed after %d attempts: %w", o.maxAttempts, lastErr)
}

func (o *Orchestrator) startDependency(ctx context.Context, dependency Dependency) error {
	name := dependency.GetName()
	if o.statuses[name] == statusStarted {
		return nil
	}

	for _, parentName := range dependency.DependsOn() {
		if o.statuses[parentName] == statusStarted {
			continue
		}
		parent := o.find(parentName)
		if parent == nil {
			return fmt.Errorf("dependency '%s' requires unknown dependency '%s'", name, parentName)
		}
		if err := o.startDependency(ctx, parent); err != nil {
			return err
		}
	}

	o.logger.WithField("dependency", name).Infof("Starting dependency '%s'", name)
	if err := dependency.Start(ctx); err != nil {
		o.statuses[name] = statusFailed
		o.logger.WithError(err).WithField("dependency", name).Errorf("Failed to start dependency '%s'", name)
		return err
	}

	o.statuses[name] = statusStarted
	o.started = append(o.started, dependency)
	return nil
}

func (o *Orchestrator) find(name string) Dependency {
	for _, dependency := range o.dependencies {
		if dependency.GetName() == name {
			return dependency
		}
	}
	return nil
}

// Stop stops the started dependencies in reverse start order. Every
// dependency gets a stop attempt; the first error is returned.
func (o *Orchestrator) Stop(ctx context.Context) error {
	var firstErr error
	for i := len(o.started) - 1; i >= 0; i-- {
		dependency := o.started[i]
		name := dependency.GetName()
		o.logger.WithField("dependency", name).Infof("Stopping dependency '%s'", name)
		if err := dependency.Stop(ctx); err != nil {
			o.logger.WithError(err).WithField("dependency", name).Errorf("Failed to stop dependency '%s'", name)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		o.statuses[name] = statusStopped
	}
	o.started = nil
	return firstErr
}
