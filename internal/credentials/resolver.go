package credentials

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloudmesa/gcpadc/internal/adcfile"
	"github.com/cloudmesa/gcpadc/internal/envprobe"
	"github.com/cloudmesa/gcpadc/internal/metadata"
	"github.com/cloudmesa/gcpadc/pkg/errors"
	"github.com/cloudmesa/gcpadc/pkg/logger"
	"github.com/cloudmesa/gcpadc/pkg/metrics"
)

// Mechanism labels used in metrics and trace attributes.
const (
	mechanismEnvVar        = "env_var"
	mechanismWellKnownFile = "well_known_file"
	mechanismMetadata      = "metadata_server"
	mechanismNone          = "none"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

const (
	probeResultOnGCE  = "on_gce"
	probeResultOffGCE = "off_gce"
)

const instrumentationName = "github.com/cloudmesa/gcpadc/internal/credentials"

// Resolver discovers Application Default Credentials. The zero value is not
// usable; construct with NewResolver.
type Resolver struct {
	env     envprobe.Lookup
	prober  metadata.Prober
	logger  logger.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithEnvironment replaces the process environment lookup. Tests use this to
// run resolutions in parallel without touching real environment variables.
func WithEnvironment(env envprobe.Lookup) ResolverOption {
	return func(r *Resolver) {
		r.env = env
	}
}

// WithProber replaces the Compute Engine detector.
func WithProber(p metadata.Prober) ResolverOption {
	return func(r *Resolver) {
		r.prober = p
	}
}

// WithLogger sets the resolver logger.
func WithLogger(log logger.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = log
	}
}

// WithMetrics enables resolution metrics.
func WithMetrics(m *metrics.Metrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithTracer replaces the default tracer.
func WithTracer(t trace.Tracer) ResolverOption {
	return func(r *Resolver) {
		r.tracer = t
	}
}

// NewResolver creates a resolver. Without options it reads the process
// environment and probes the real metadata server.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		env:    envprobe.OS(),
		logger: logger.Nop(),
		tracer: otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(r)
	}
	// The default prober inherits the configured env lookup so the
	// GOOGLE_GCE_CHECK_OVERRIDE variable is read the same way as the rest
	// of the chain.
	if r.prober == nil {
		r.prober = metadata.NewDetector(
			metadata.WithEnv(r.env),
			metadata.WithLogger(r.logger),
		)
	}
	return r
}

// log annotates the resolver logger with the trace context in ctx so log
// lines correlate with the resolution span.
func (r *Resolver) log(ctx context.Context) logger.Logger {
	return r.logger.WithContext(ctx)
}

// Default resolves Application Default Credentials with the process
// environment and the real metadata server.
func Default(ctx context.Context, opts ...Option) (Credential, error) {
	return NewResolver().Resolve(ctx, opts...)
}

// Resolve walks the Application Default Credentials chain: the
// GOOGLE_APPLICATION_CREDENTIALS override, then the gcloud well-known file,
// then the Compute Engine metadata server. Options apply to the service
// account or Compute Engine credential a resolution may produce.
func (r *Resolver) Resolve(ctx context.Context, opts ...Option) (Credential, error) {
	ctx, span := r.tracer.Start(ctx, "adc.resolve")
	defer span.End()
	timer := metrics.NewTimer()

	cred, mechanism, err := r.resolve(ctx, opts)
	span.SetAttributes(attribute.String("adc.mechanism", mechanism))
	if r.metrics != nil {
		r.metrics.RecordResolutionDuration(mechanism, timer.ObserveDuration())
	}
	if err != nil {
		r.recordResolution(mechanism, outcomeError)
		r.recordFileError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	r.recordResolution(mechanism, outcomeSuccess)
	r.log(ctx).Debug("application default credentials resolved",
		logger.String("mechanism", mechanism),
		logger.String("credential_type", string(cred.Kind())),
	)
	return cred, nil
}

func (r *Resolver) resolve(ctx context.Context, opts []Option) (Credential, string, error) {
	payload, mechanism, err := r.loadFromChain(ctx)
	if err != nil {
		return nil, mechanism, err
	}
	if payload != nil {
		cred, err := r.credentialFromPayload(ctx, payload, opts)
		return cred, mechanism, err
	}

	if r.probeComputeEngine(ctx) {
		return NewComputeEngine("", opts...), mechanismMetadata, nil
	}
	return nil, mechanismNone, noCredentialsError()
}

// ResolveServiceAccount resolves a service account credential from the file
// steps of the chain. There is no Compute Engine fallback, and a
// credentials file of any other type is rejected even when it is valid.
func (r *Resolver) ResolveServiceAccount(ctx context.Context, opts ...Option) (*ServiceAccount, error) {
	ctx, span := r.tracer.Start(ctx, "adc.resolve_service_account")
	defer span.End()
	timer := metrics.NewTimer()

	sa, mechanism, err := r.resolveServiceAccount(ctx, opts)
	span.SetAttributes(attribute.String("adc.mechanism", mechanism))
	if r.metrics != nil {
		r.metrics.RecordResolutionDuration(mechanism, timer.ObserveDuration())
	}
	if err != nil {
		r.recordResolution(mechanism, outcomeError)
		r.recordFileError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	r.recordResolution(mechanism, outcomeSuccess)
	r.log(ctx).Debug("service account credentials resolved",
		logger.String("mechanism", mechanism),
		logger.String("client_email", sa.ClientEmail),
	)
	return sa, nil
}

func (r *Resolver) resolveServiceAccount(ctx context.Context, opts []Option) (*ServiceAccount, string, error) {
	payload, mechanism, err := r.loadFromChain(ctx)
	if err != nil {
		return nil, mechanism, err
	}
	if payload == nil {
		return nil, mechanismNone, noServiceAccountError()
	}

	doc, err := r.classify(ctx, payload)
	if err != nil {
		return nil, mechanism, err
	}
	if doc.Kind() != adcfile.KindServiceAccount {
		return nil, mechanism, unsupportedTypeError(doc)
	}
	sa, err := NewServiceAccountFromDocument(doc, opts...)
	return sa, mechanism, err
}

// loadFromChain runs the file steps of the chain. A nil payload with nil
// error means no file mechanism applied and the caller decides what comes
// next.
//
// The two steps fail differently on a missing file: an explicit
// GOOGLE_APPLICATION_CREDENTIALS path that cannot be opened is a
// configuration error and propagates, while an absent well-known file just
// means gcloud never wrote one.
func (r *Resolver) loadFromChain(ctx context.Context) (*adcfile.Payload, string, error) {
	if path, ok := r.env(adcfile.CredentialsEnvVar); ok && path != "" {
		payload, err := r.loadFile(ctx, path, adcfile.EnvVarSource(path))
		return payload, mechanismEnvVar, err
	}

	if path := adcfile.WellKnownPath(r.env); path != "" {
		payload, err := r.loadFile(ctx, path, adcfile.WellKnownSource(path))
		if err != nil {
			if errors.Is(err, errors.ErrCredentialFileNotFound) {
				r.log(ctx).Debug("well-known credentials file absent",
					logger.String("path", path),
				)
				return nil, mechanismNone, nil
			}
			return nil, mechanismWellKnownFile, err
		}
		return payload, mechanismWellKnownFile, nil
	}

	return nil, mechanismNone, nil
}

func (r *Resolver) loadFile(ctx context.Context, path string, src adcfile.Source) (*adcfile.Payload, error) {
	_, span := r.tracer.Start(ctx, "adc.load_file",
		trace.WithAttributes(attribute.String("adc.path", path)),
	)
	defer span.End()

	payload, err := adcfile.Load(path, src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return payload, nil
}

func (r *Resolver) classify(ctx context.Context, payload *adcfile.Payload) (*adcfile.Document, error) {
	_, span := r.tracer.Start(ctx, "adc.classify")
	defer span.End()

	doc, err := adcfile.Classify(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("adc.credential_type", doc.CredentialType()))
	return doc, nil
}

func (r *Resolver) credentialFromPayload(ctx context.Context, payload *adcfile.Payload, opts []Option) (Credential, error) {
	doc, err := r.classify(ctx, payload)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc, opts)
}

func (r *Resolver) probeComputeEngine(ctx context.Context) bool {
	ctx, span := r.tracer.Start(ctx, "adc.metadata_probe")
	defer span.End()
	timer := metrics.NewTimer()

	onGCE := r.prober.OnComputeEngine(ctx)

	result := probeResultOffGCE
	if onGCE {
		result = probeResultOnGCE
	}
	span.SetAttributes(attribute.Bool("adc.on_gce", onGCE))
	if r.metrics != nil {
		r.metrics.RecordMetadataProbe(result, timer.ObserveDuration())
	}
	return onGCE
}

func (r *Resolver) recordResolution(mechanism, outcome string) {
	if r.metrics != nil {
		r.metrics.RecordResolution(mechanism, outcome)
	}
}

// recordFileError classifies a fatal chain failure for metrics.
func (r *Resolver) recordFileError(err error) {
	if r.metrics == nil {
		return
	}
	var reason string
	switch errors.GetCode(err) {
	case errors.ErrCredentialFileNotFound:
		reason = "not_found"
	case errors.ErrCredentialFileUnreadable:
		reason = "unreadable"
	case errors.ErrCredentialMalformed:
		reason = "malformed"
	case errors.ErrCredentialTypeUnsupported:
		reason = "unsupported_type"
	case errors.ErrCredentialMissingField:
		reason = "missing_field"
	default:
		return
	}
	r.metrics.RecordCredentialFileError(reason)
}

// noCredentialsError is the terminal failure when no chain mechanism
// applied.
func noCredentialsError() *errors.Error {
	return errors.New(
		errors.ErrNoCredentials,
		"Could not automatically determine credentials",
	).WithDetail("set GOOGLE_APPLICATION_CREDENTIALS or sign in with gcloud auth application-default login; see https://cloud.google.com/docs/authentication/adc")
}

func noServiceAccountError() *errors.Error {
	return errors.New(
		errors.ErrNoCredentials,
		"No service account credentials found at the default paths",
	).WithDetail("checked the GOOGLE_APPLICATION_CREDENTIALS environment variable and the gcloud application default credentials file")
}
