// Package metadata decides whether the process runs on Google Compute
// Engine or a derivative platform that serves the GCE metadata protocol.
package metadata

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudmesa/gcpadc/internal/envprobe"
	"github.com/cloudmesa/gcpadc/pkg/errors"
	"github.com/cloudmesa/gcpadc/pkg/logger"
)

// Environment variables controlling the probe.
const (
	// CheckOverrideEnvVar short-circuits the probe: "1" forces an on-GCE
	// answer, "0" forces off-GCE. Any other value falls back to the real
	// probe.
	CheckOverrideEnvVar = "GOOGLE_GCE_CHECK_OVERRIDE"

	// HostEnvVar overrides the metadata server host, mirroring the
	// variable the Google client libraries honor.
	HostEnvVar = "GCE_METADATA_HOST"
)

const (
	defaultHost    = "metadata.google.internal"
	defaultTimeout = 500 * time.Millisecond

	flavorHeader = "Metadata-Flavor"
	flavorValue  = "Google"
)

// Prober answers whether the current process can reach the GCE metadata
// service. Implementations must treat probe failure as a plain "no".
type Prober interface {
	OnComputeEngine(ctx context.Context) bool
}

// Detector probes the metadata server over HTTP with a bounded timeout.
// Failure for any reason (DNS, refused connection, timeout, wrong
// response) counts as "not on GCE"; unavailability is never escalated.
type Detector struct {
	env     envprobe.Lookup
	client  *http.Client
	timeout time.Duration
	logger  logger.Logger
}

// DetectorOption customizes a Detector.
type DetectorOption func(*Detector)

// WithEnv supplies the environment lookup used for the override and host
// variables.
func WithEnv(env envprobe.Lookup) DetectorOption {
	return func(d *Detector) {
		d.env = env
	}
}

// WithTimeout bounds a single probe attempt.
func WithTimeout(timeout time.Duration) DetectorOption {
	return func(d *Detector) {
		d.timeout = timeout
	}
}

// WithHTTPClient replaces the HTTP client used for probing.
func WithHTTPClient(client *http.Client) DetectorOption {
	return func(d *Detector) {
		d.client = client
	}
}

// WithLogger attaches a logger for probe diagnostics.
func WithLogger(log logger.Logger) DetectorOption {
	return func(d *Detector) {
		d.logger = log
	}
}

// NewDetector creates a Detector with the process environment, a default
// HTTP client, and a 500ms probe timeout.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{
		env:     envprobe.OS(),
		client:  &http.Client{},
		timeout: defaultTimeout,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OnComputeEngine implements Prober. The override variable is consulted
// first so tests and air-gapped environments can pin the answer.
func (d *Detector) OnComputeEngine(ctx context.Context) bool {
	if v, ok := d.env(CheckOverrideEnvVar); ok {
		switch v {
		case "1":
			return true
		case "0":
			return false
		}
	}

	if err := d.probe(ctx); err != nil {
		d.logger.Debug("metadata server probe failed", logger.Error(err))
		return false
	}
	return true
}

// probe performs one bounded request against the metadata server root.
// The Metadata-Flavor response header is the authoritative signal; a
// response without it came from something else squatting on the address.
func (d *Detector) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	host := defaultHost
	if v, ok := d.env(HostEnvVar); ok && v != "" {
		host = v
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/", host), nil)
	if err != nil {
		return errors.Wrap(
			errors.ErrMetadataProbeUnavailable,
			err,
			"failed to create metadata probe request",
		)
	}
	req.Header.Set(flavorHeader, flavorValue)

	resp, err := d.client.Do(req)
	if err != nil {
		return errors.Wrap(
			errors.ErrMetadataProbeUnavailable,
			err,
			"metadata server unreachable",
		).WithField("host", host)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New(
			errors.ErrMetadataProbeUnavailable,
			"metadata server returned an unexpected status",
		).WithField("host", host).WithField("status", resp.StatusCode)
	}
	if resp.Header.Get(flavorHeader) != flavorValue {
		return errors.New(
			errors.ErrMetadataProbeUnavailable,
			"response did not come from the metadata server",
		).WithField("host", host)
	}

	return nil
}
