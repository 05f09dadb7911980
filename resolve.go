package dnsresolver

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/dnsstub/dnsresolver/config"
)

// Resolve implements the resolve pipeline of §4.1: a literal IP address
// is returned verbatim without touching the cache or the network; a name
// present in the hosts table is returned from it, also without network
// I/O; otherwise the name is normalized and dispatched to Query, either
// for a single explicit typeRestriction or, when typeRestriction is nil,
// in parallel for A and AAAA with the results concatenated.
//
// typeRestriction, when non-nil, must be TypeA or TypeAAAA; any other
// value, including TypePTR, is rejected with ErrInvalidArgument before
// any I/O, as the source's ProgrammerError check does.
func (r *Resolver) Resolve(ctx context.Context, name string, typeRestriction *RecordType) ([]Record, error) {
	if typeRestriction != nil {
		switch *typeRestriction {
		case TypeA, TypeAAAA:
		default:
			return nil, fmt.Errorf("%w: unsupported record type %d", ErrInvalidArgument, *typeRestriction)
		}
	}

	if ip := net.ParseIP(name); ip != nil {
		return literalRecords(name, ip, typeRestriction)
	}

	cfg, err := r.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	if typeRestriction != nil {
		normalized, err := normalizeForType(name, *typeRestriction)
		if err != nil {
			return nil, err
		}
		if recs := hostsLookup(cfg, normalized, typeRestriction); recs != nil {
			return recs, nil
		}
		return r.Query(ctx, normalized, *typeRestriction)
	}

	normalized, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	if recs := hostsLookup(cfg, normalized, nil); recs != nil {
		return recs, nil
	}

	return r.resolveParallel(ctx, normalized)
}

// literalRecords returns the literal itself, unchanged, as a single Record
// whose type follows ip's address family, restricted to typeRestriction's
// family when one is given. A literal of the wrong family for an explicit
// typeRestriction yields NoRecordError, the same as an authoritative empty
// answer would.
func literalRecords(literal string, ip net.IP, typeRestriction *RecordType) ([]Record, error) {
	recordType := TypeA
	v4 := ip.To4()
	if v4 == nil {
		recordType = TypeAAAA
	}

	if typeRestriction != nil && *typeRestriction != recordType {
		return nil, &NoRecordError{Name: literal, Type: *typeRestriction}
	}

	return []Record{{Data: literal, Type: recordType}}, nil
}

// hostsLookup consults cfg.KnownHosts, returning nil when name is absent
// so the caller falls through to the query engine. An explicit
// typeRestriction looks up only that table; nil looks up both A and AAAA
// and concatenates whichever are present.
func hostsLookup(cfg *config.Config, name string, typeRestriction *RecordType) []Record {
	if typeRestriction != nil {
		table, ok := cfg.KnownHosts[*typeRestriction]
		if !ok {
			return nil
		}
		addr, ok := table[name]
		if !ok {
			return nil
		}
		return []Record{{Data: addr, Type: *typeRestriction}}
	}

	var records []Record
	for _, t := range []RecordType{TypeA, TypeAAAA} {
		table, ok := cfg.KnownHosts[t]
		if !ok {
			continue
		}
		if addr, ok := table[name]; ok {
			records = append(records, Record{Data: addr, Type: t})
		}
	}
	if len(records) == 0 {
		return nil
	}
	return records
}

// resolveParallel queries A and AAAA concurrently for name and
// concatenates their records A-then-AAAA, regardless of which finishes
// first. It fails only when both fail, returning an
// AggregateResolutionError wrapping both causes.
func (r *Resolver) resolveParallel(ctx context.Context, name string) ([]Record, error) {
	type result struct {
		records []Record
		err     error
	}

	types := []RecordType{TypeA, TypeAAAA}
	results := make([]result, len(types))

	var wg sync.WaitGroup
	wg.Add(len(types))
	for i, t := range types {
		i, t := i, t
		go func() {
			defer wg.Done()
			recs, err := r.Query(ctx, name, t)
			results[i] = result{records: recs, err: err}
		}()
	}
	wg.Wait()

	var records []Record
	var causes []error
	for _, res := range results {
		if res.err != nil {
			causes = append(causes, res.err)
			continue
		}
		records = append(records, res.records...)
	}

	if len(records) == 0 {
		return nil, newAggregateError(name, causes...)
	}

	return records, nil
}
