package domain

import "errors"

var (
	// ErrInvalidRequest signals a malformed search request (query too long, bad paging input).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrCorpusUnavailable signals that no corpus source could be loaded.
	ErrCorpusUnavailable = errors.New("corpus unavailable")
	// ErrRankingFailed signals an unexpected failure inside the ranking engine.
	ErrRankingFailed = errors.New("ranking failed")
	// ErrWidenerFailed signals a query widening provider failure.
	ErrWidenerFailed = errors.New("query widener failed")
)
