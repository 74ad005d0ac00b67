package domain

import "context"

// QueryWidener rewrites a short query into a longer list of related terms.
// Implementations return the original query together with a non-nil error on failure.
type QueryWidener interface {
	Widen(ctx context.Context, query string) (string, error)
}
