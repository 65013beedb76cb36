package coursegen

import "fmt"

// ParseError describes model output that could not be decoded. It is logged
// and replaced by the skeleton curriculum; callers of Generate never see it.
type ParseError struct {
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse curriculum: %v (input %q)", e.Err, e.Snippet)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EnrichmentError records a lookup that blew up outside the adapters' own
// fallbacks. Enrich turns it into an empty resource list.
type EnrichmentError struct {
	Lookup string
	Cause  any
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrichment lookup %s failed: %v", e.Lookup, e.Cause)
}
