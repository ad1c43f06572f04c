package health

import "context"

// DBPinger checks selection store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CatalogSizer reports the number of loaded recipes.
type CatalogSizer interface {
	Len() int
}

// BreakerReporter reports a circuit breaker state ("closed", "half-open", "open").
type BreakerReporter interface {
	BreakerState() string
}
