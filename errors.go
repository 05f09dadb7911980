package dnsresolver

import (
	"errors"
	"fmt"

	multierror "github.com/hashicorp/go-multierror"
)

// ErrInvalidArgument is returned synchronously, before any I/O, when a
// caller supplies a value outside its documented domain: an unsupported
// typeRestriction to Resolve. It corresponds to the source's
// ProgrammerError (§7) — callers should not retry.
var ErrInvalidArgument = errors.New("dnsresolver: invalid argument")

// NoRecordError reports that a query type had no answers: either an
// authoritative empty answer section from the name server, or a still
// valid negative cache entry.
type NoRecordError struct {
	Name      string
	Type      RecordType
	FromCache bool
}

func (e *NoRecordError) Error() string {
	if e.FromCache {
		return fmt.Sprintf("dnsresolver: no records for %s (cached result)", e.Name)
	}
	return fmt.Sprintf("dnsresolver: no records returned for %s", e.Name)
}

// ResolutionError reports a query that failed for a reason surfaced by
// the DNS transaction itself: a non-zero response code, a message that
// was not a RESPONSE, truncation that persisted over TCP, or exhaustion
// of the attempts budget.
type ResolutionError struct {
	Name  string
	Type  RecordType
	Rcode int // zero if not applicable
	Err   error
}

func (e *ResolutionError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("dnsresolver: resolve %s: %v", e.Name, e.Err)
	case e.Rcode != 0:
		return fmt.Sprintf("dnsresolver: resolve %s: server returned rcode %d", e.Name, e.Rcode)
	default:
		return fmt.Sprintf("dnsresolver: resolve %s failed", e.Name)
	}
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// AggregateResolutionError is returned by Resolver.Resolve when both the
// A and AAAA sub-queries fail. It wraps both underlying causes.
type AggregateResolutionError struct {
	Name string
	errs *multierror.Error
}

func newAggregateError(name string, causes ...error) error {
	me := &multierror.Error{}
	for _, c := range causes {
		if c != nil {
			me = multierror.Append(me, c)
		}
	}
	if len(me.Errors) == 0 {
		return nil
	}
	return &AggregateResolutionError{Name: name, errs: me}
}

func (e *AggregateResolutionError) Error() string {
	return fmt.Sprintf("dnsresolver: all query attempts failed for %s: %v", e.Name, e.errs)
}

// Unwrap exposes both causes to errors.Is and errors.As.
func (e *AggregateResolutionError) Unwrap() []error { return e.errs.Errors }

// WrappedErrors returns the underlying causes, mirroring
// hashicorp/go-multierror's own convention.
func (e *AggregateResolutionError) WrappedErrors() []error { return e.errs.WrappedErrors() }
