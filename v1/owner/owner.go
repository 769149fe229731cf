package owner

import (
	"go.opentelemetry.io/otel"

	"github.com/mirkobrombin/go-warden/v1/metrics"
)

var tracer = otel.Tracer("github.com/mirkobrombin/go-warden/v1/owner")

// noCopy triggers go vet's copylocks check on owner values. An owner is a
// capability token; a copy would duplicate the token while sharing its
// ledger.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Option configures owner acquisition.
type Option func(*config)

type config struct {
	traceEnabled bool
}

// WithTracing enables OpenTelemetry spans on blocking acquisitions.
func WithTracing() Option {
	return func(c *config) { c.traceEnabled = true }
}

// Metrics reports how many views an owner has served.
type Metrics struct {
	RoBorrows uint64
	RwBorrows uint64
}

// violate records the abort in the violations counter and panics with err.
func violate(err error) {
	metrics.ViolationCounter.Inc()
	panic(err)
}
