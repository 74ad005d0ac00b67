package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component (cache, widener) is failing; search still works.
	Degraded Status = "degraded"
	// Unhealthy indicates no corpus can be served.
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

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	corpus  CorpusChecker
	cache   CachePinger
	widener WidenerChecker
}

// New creates a Service. cache and widener can be nil when not configured.
func New(corpus CorpusChecker, cache CachePinger, widener WidenerChecker) *Service {
	return &Service{corpus: corpus, cache: cache, widener: widener}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	checks["corpus"] = result(s.corpus.Ready(ctx))
	if checks["corpus"] == CheckError {
		status = Unhealthy
	}

	if s.cache != nil {
		checks["cache"] = result(s.cache.Ping(ctx))
	}
	if s.widener != nil {
		checks["widener"] = result(s.widener.HealthCheck(ctx))
	}

	if status == Healthy {
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
