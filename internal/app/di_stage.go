package app

import (
	"fmt"
	"time"

	"github.com/allisson/sixseal/internal/metrics"
	"github.com/allisson/sixseal/internal/stage"
)

// MetricsProvider returns the OpenTelemetry/Prometheus metrics provider.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business operation metrics recorder.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}

		c.businessMetrics, err = metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// StageRunner builds a staging workflow runner from the configured defaults.
// progress may be nil for headless contexts; timeout zero means no per-batch
// limit. Runners are cheap and carry no shared state, so a fresh one is built
// per call rather than memoized.
func (c *Container) StageRunner(progress stage.Progress, timeout time.Duration) *stage.Runner {
	opts := stage.Options{
		MaxConcurrency:   c.config.StageMaxConcurrency,
		BatchSize:        c.config.StageBatchSize,
		IndexLockRetries: c.config.StageIndexLockRetries,
		RetryBackoff:     c.config.StageRetryBackoff,
		AddCommand:       c.config.StageAddCommand,
		Timeout:          timeout,
		TelemetryPrefix:  c.config.StageTelemetryPrefix,
	}

	var telemetry stage.Telemetry
	if business, err := c.BusinessMetrics(); err == nil {
		telemetry = metrics.NewStageTelemetry(business)
	}

	return stage.NewRunner(opts, nil, progress, telemetry)
}
