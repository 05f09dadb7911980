package dnsresolver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/miekg/dns"

	"github.com/dnsstub/dnsresolver/transport"
)

// negativeCacheTTLCeiling bounds how long a negative (no-data) answer is
// cached, per RFC 2308 §7.1.
const negativeCacheTTLCeiling = 300 * time.Second

// Query runs the query engine of §4.2 for a single (name, recordType)
// pair: NormalizeForType, then a cache lookup, followed on miss by a
// round of nameserver rotation with UDP-to-TCP upgrade on truncation,
// ending in cache population. Resolve already normalizes before calling
// Query, but normalizeForType is idempotent, so Query normalizes again
// itself rather than trust every caller to have done so — it is a
// first-class entry point in its own right (§6).
func (r *Resolver) Query(ctx context.Context, name string, recordType RecordType) ([]Record, error) {
	name, err := normalizeForType(name, recordType)
	if err != nil {
		return nil, err
	}

	key := cacheKey(name, recordType)

	if raw, ok := r.answerCache().Get(key); ok {
		records, err := decodeCachedResult(name, recordType, raw)
		if err != nil {
			return nil, err
		}
		return records, nil
	}

	cfg, err := r.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if len(cfg.Nameservers) == 0 {
		return nil, &ResolutionError{Name: name, Type: recordType, Err: fmt.Errorf("dnsresolver: no nameservers configured")}
	}

	registry := r.registryFor(cfg)

	q := dns.Question{Name: dns.Fqdn(name), Qtype: recordType, Qclass: dns.ClassINET}

	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	net_ := "udp"
	serverIdx := 0

	for attempt := 0; attempt < attempts; attempt++ {
		uri := net_ + "://" + cfg.Nameservers[serverIdx%len(cfg.Nameservers)]

		srv, err := registry.Get(uri)
		if err != nil {
			lastErr = err
			registry.Evict(uri)
			serverIdx++
			r.logger().Debug("dns exchange failed to connect", "server", uri, "err", err)
			continue
		}
		if !srv.Alive() {
			registry.Evict(uri)
			lastErr = &transport.Error{Addr: uri, Err: fmt.Errorf("server not alive")}
			serverIdx++
			continue
		}

		start := time.Now()
		msg, err := srv.Ask(ctx, q)
		elapsed := time.Since(start)

		if err != nil {
			lastErr = err
			registry.Evict(uri)
			serverIdx++
			r.logger().Debug("dns exchange failed", "server", uri, "net", net_, "elapsed", elapsed, "err", err)
			continue
		}

		r.logger().Debug("dns exchange", "server", uri, "net", net_, "elapsed", elapsed, "rcode", msg.Rcode, "truncated", msg.Truncated)

		if msg.Truncated && net_ != "tcp" {
			// Upgrade to TCP against the same nameserver and retry
			// without consuming an attempt: decrementing the counter
			// here means the loop's attempt++ restores it for the next
			// (TCP) iteration.
			net_ = "tcp"
			attempt--
			continue
		}

		if !msg.Response {
			return nil, &ResolutionError{Name: name, Type: recordType, Err: fmt.Errorf("dnsresolver: reply was not a response message")}
		}

		if msg.Truncated {
			// Truncated again, now over TCP: fatal, per the recovery
			// policy (only UDP truncation and transport errors recover
			// locally).
			return nil, &ResolutionError{Name: name, Type: recordType, Err: fmt.Errorf("dnsresolver: truncated response over tcp")}
		}

		if msg.Rcode != dns.RcodeSuccess {
			return nil, &ResolutionError{Name: name, Type: recordType, Rcode: msg.Rcode}
		}

		return r.populateCache(key, name, recordType, msg)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("dnsresolver: attempts exhausted")
	}
	return nil, &ResolutionError{Name: name, Type: recordType, Err: lastErr}
}

// cacheKey returns the cache key for a (name, recordType) pair, in the
// bit-exact format the cache's keyspace is defined by.
func cacheKey(name string, recordType RecordType) string {
	return fmt.Sprintf("amphp.dns.%s#%d", name, recordType)
}

// populateCache decodes msg's answer section into Records of
// recordType, stores a JSON-encoded snapshot of their Data values under
// key with a TTL taken from the answers (or, on an empty answer
// section, a synthesized negative-cache TTL capped at
// negativeCacheTTLCeiling), and returns the decoded Records.
func (r *Resolver) populateCache(key, name string, recordType RecordType, msg *dns.Msg) ([]Record, error) {
	var (
		records []Record
		values  []string
		minTTL  time.Duration
	)

	for _, rr := range msg.Answer {
		if recordType != TypeAny && rr.Header().Rrtype != recordType {
			continue
		}
		ttl := time.Duration(rr.Header().Ttl) * time.Second
		if len(values) == 0 || ttl < minTTL {
			minTTL = ttl
		}
		value := rrValue(rr)
		values = append(values, value)
		records = append(records, Record{Data: value, Type: rr.Header().Rrtype, TTL: ttlPtr(ttl)})
	}

	if len(values) == 0 {
		minTTL = negativeCacheTTLCeiling
	}

	raw, err := json.Marshal(values)
	if err == nil {
		r.answerCache().Set(key, raw, minTTL)
	}

	if len(records) == 0 {
		return nil, &NoRecordError{Name: name, Type: recordType}
	}

	return records, nil
}

// decodeCachedResult reconstitutes the Records stored by populateCache.
// The cache only retains each record's decoded Data, not its absolute
// expiry, so every reconstituted Record has a nil TTL; see DESIGN.md for
// the rationale.
func decodeCachedResult(name string, recordType RecordType, raw []byte) ([]Record, error) {
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("dnsresolver: corrupt cache entry for %s: %w", name, err)
	}

	if len(values) == 0 {
		return nil, &NoRecordError{Name: name, Type: recordType, FromCache: true}
	}

	records := make([]Record, 0, len(values))
	for _, v := range values {
		records = append(records, Record{Data: v, Type: recordType})
	}
	return records, nil
}
