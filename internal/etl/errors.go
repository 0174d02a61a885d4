package etl

import "fmt"

// FetchKind classifies a fetch failure and selects its retry track.
type FetchKind int

const (
	FetchTransport   FetchKind = iota // timeout or connection failure
	FetchRateLimited                  // HTTP 429
	FetchServer                       // HTTP 500/502/503
	FetchClient                       // any other HTTP error status, no retry
	FetchExhausted                    // retry budget spent
)

func (k FetchKind) String() string {
	switch k {
	case FetchTransport:
		return "transport"
	case FetchRateLimited:
		return "rate-limited"
	case FetchServer:
		return "server"
	case FetchClient:
		return "client"
	case FetchExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// FetchError reports a failed page fetch with enough context to log and
// decide whether the page is worth retrying.
type FetchError struct {
	Kind   FetchKind
	Period int
	Page   int
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s (period %d, page %d, status %d): %v",
			e.Kind, e.Period, e.Page, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s (period %d, page %d): %v", e.Kind, e.Period, e.Page, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// LoadError reports a rejected insert. Chunks committed before the failure
// stay committed; the run must stop and be investigated rather than retried
// blindly.
type LoadError struct {
	Table     string
	Committed int
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load into %s failed after %d committed rows: %v", e.Table, e.Committed, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
