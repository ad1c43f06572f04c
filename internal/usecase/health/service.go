package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the service cannot recommend.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names.
const (
	CheckCatalog = "catalog"
	CheckStore   = "store"
	CheckPoster  = "poster"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	catalog CatalogSizer
	db      DBPinger
	poster  BreakerReporter
}

// New creates a Service. db and poster can be nil.
func New(catalog CatalogSizer, db DBPinger, poster BreakerReporter) *Service {
	return &Service{catalog: catalog, db: db, poster: poster}
}

// Check runs health checks against all components.
// An empty catalog is unhealthy; store or poster failures only degrade.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.catalog == nil || s.catalog.Len() == 0 {
		checks[CheckCatalog] = CheckError
	} else {
		checks[CheckCatalog] = CheckOK
	}

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks[CheckStore] = CheckError
		} else {
			checks[CheckStore] = CheckOK
		}
	}

	if s.poster != nil {
		if s.poster.BreakerState() == "open" {
			checks[CheckPoster] = CheckError
		} else {
			checks[CheckPoster] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks[CheckCatalog] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}
