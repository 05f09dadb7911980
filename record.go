package dnsresolver

import (
	"time"

	"github.com/miekg/dns"
)

// RecordType is a 16-bit DNS record type. The query engine treats any
// value in [0, 65535] as opaque and passes it through to the wire
// question unexamined; A, AAAA, PTR, and the * wildcard are the only
// values it special-cases (§3). Go's type system already excludes values
// outside that range, so the ProgrammerError the source raises for an
// out-of-range type (§7) has no runtime counterpart here.
type RecordType = uint16

// The four record types the core distinguishes by name.
const (
	TypeA    RecordType = dns.TypeA
	TypeAAAA RecordType = dns.TypeAAAA
	TypePTR  RecordType = dns.TypePTR
	TypeAny  RecordType = dns.TypeANY
)

// Record is a single decoded answer.
type Record struct {
	// Data is the already-decoded textual form appropriate to Type: a
	// dotted-quad for A, colon-hex for AAAA, a label string for
	// PTR/CNAME, and so on.
	Data string

	// Type is this record's DNS record type.
	Type RecordType

	// TTL is the remaining lifetime of this record. It is nil for
	// records that were synthesized (literal IPs, hosts-table entries)
	// or reconstituted from the answer cache, which does not retain
	// absolute expiry; see decodeCachedResult and DESIGN.md.
	TTL *time.Duration
}

func ttlPtr(d time.Duration) *time.Duration {
	return &d
}
