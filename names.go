package dnsresolver

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

// normalizeName lowercases s, strips a single trailing dot, and rejects
// names that would violate RFC 1035 length limits (§4.1 step 3). The
// result is used for the hosts lookup, the cache key, and the wire
// question alike, so the same logical name queried in different case
// hits the same cache entry.
func normalizeName(s string) (string, error) {
	s = strings.ToLower(s)
	if s != "." {
		s = strings.TrimSuffix(s, ".")
	}

	if len(s) > 253 {
		return "", fmt.Errorf("dnsresolver: name too long: %q", s)
	}

	for _, label := range strings.Split(s, ".") {
		if len(label) > 63 {
			return "", fmt.Errorf("dnsresolver: label too long: %q", label)
		}
	}

	return s, nil
}

// arpaName returns the reverse-lookup domain for ip: the dotted
// d.c.b.a.in-addr.arpa form for IPv4, or the nibble-reversed ip6.arpa form
// for IPv6, matching the teacher's dns.go arpaName/arpaName4/arpaName6.
func arpaName(ip net.IP) string {
	if v4 := ip.To4(); v4 != nil {
		return arpaName4(v4)
	}
	return arpaName6(ip.To16())
}

func arpaName4(ip net.IP) string {
	labels := make([]string, 0, 5)
	for i := 3; i >= 0; i-- {
		labels = append(labels, strconv.Itoa(int(ip[i])))
	}
	labels = append(labels, "in-addr.arpa")
	return strings.Join(labels, ".")
}

func arpaName6(ip net.IP) string {
	labels := make([]string, 0, 33)
	for i := 15; i >= 0; i-- {
		b := ip[i]
		labels = append(labels, strconv.FormatUint(uint64(b&0xF), 16))
		labels = append(labels, strconv.FormatUint(uint64(b>>4), 16))
	}
	labels = append(labels, "ip6.arpa")
	return strings.Join(labels, ".")
}

// normalizeForType implements the NormalizeForType step of §4.2: PTR
// queries against an IP literal are rewritten to their reverse-arpa form,
// A/AAAA queries are name-normalized, and every other type passes through
// unchanged.
func normalizeForType(name string, recordType RecordType) (string, error) {
	switch recordType {
	case TypePTR:
		if ip := net.ParseIP(name); ip != nil {
			return arpaName(ip), nil
		}
		return name, nil
	case TypeA, TypeAAAA:
		return normalizeName(name)
	default:
		return name, nil
	}
}

// rrValue returns a resource record's data with its header stripped, the
// same way the teacher's dns.go rrValue does.
func rrValue(rr dns.RR) string {
	return strings.TrimPrefix(rr.String(), rr.Header().String())
}
