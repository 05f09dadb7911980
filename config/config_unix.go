//go:build !windows
// +build !windows

package config

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// Default returns a Loader that discovers nameservers, attempts, and
// timeout from /etc/resolv.conf using the codec's own
// dns.ClientConfigFromFile (as the teacher's discoverRootServers does in
// root_nix.go), and known hosts from /etc/hosts.
func Default() Loader {
	return LoaderFunc(loadDefault)
}

func loadDefault(_ context.Context) (*Config, error) {
	cc, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil {
		return nil, fmt.Errorf("config: read /etc/resolv.conf: %w", err)
	}

	nameservers := make([]string, 0, len(cc.Servers))
	for _, s := range cc.Servers {
		nameservers = append(nameservers, net.JoinHostPort(s, cc.Port))
	}

	hosts, err := loadHosts("/etc/hosts")
	if err != nil {
		hosts = map[uint16]map[string]string{
			dns.TypeA:    {},
			dns.TypeAAAA: {},
		}
	}

	return &Config{
		Nameservers: nameservers,
		Attempts:    cc.Attempts,
		Timeout:     time.Duration(cc.Timeout) * time.Second,
		KnownHosts:  hosts,
		Search:      cc.Search,
		Ndots:       cc.Ndots,
	}, nil
}

// loadHosts parses an RFC 952 / hosts(5) style file: one address per line
// followed by one or more whitespace-separated aliases, '#' starting a
// comment to end of line. This format is trivial enough, and out of this
// core's scope per spec, that it does not warrant a parsing dependency;
// see DESIGN.md.
func loadHosts(path string) (map[uint16]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := map[uint16]map[string]string{
		dns.TypeA:    {},
		dns.TypeAAAA: {},
	}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		ip := net.ParseIP(fields[0])
		if ip == nil {
			continue
		}

		rtype := dns.TypeA
		if ip.To4() == nil {
			rtype = dns.TypeAAAA
		}

		for _, name := range fields[1:] {
			out[rtype][normalizeHostName(name)] = fields[0]
		}
	}

	return out, sc.Err()
}

func normalizeHostName(name string) string {
	name = strings.ToLower(name)
	return strings.TrimSuffix(name, ".")
}
