package health

import "context"

// CorpusChecker reports whether a corpus can be served.
type CorpusChecker interface {
	Ready(ctx context.Context) error
}

// CachePinger checks shared cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// WidenerChecker checks query widener provider availability.
type WidenerChecker interface {
	HealthCheck(ctx context.Context) error
}
