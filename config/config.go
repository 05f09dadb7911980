// Package config describes the resolved system configuration a Resolver
// consults, and the Loader collaborator that produces it. Parsing
// /etc/resolv.conf and /etc/hosts (or their platform equivalents) is
// explicitly a collaborator's concern, not the query engine's; Loader is
// the seam between the two.
package config

import (
	"context"
	"time"
)

// Config is the read-only configuration the query engine and resolve
// pipeline consult. It is produced once per Resolver by a Loader and never
// mutated afterward.
type Config struct {
	// Nameservers is the non-empty, ordered list of "host:port" recursive
	// servers a query rotates across.
	Nameservers []string

	// Attempts is the total number of tries across the Nameservers
	// rotation for a single query.
	Attempts int

	// Timeout bounds a single request/response round trip.
	Timeout time.Duration

	// KnownHosts maps a record type (A or AAAA) to a name -> address
	// table, as parsed from the system hosts file. Names are lowercase
	// with no trailing dot.
	KnownHosts map[uint16]map[string]string

	// Search and Ndots are carried through from the system configuration.
	// Neither is consulted by the query engine or resolve pipeline.
	Search []string
	Ndots  int
}

// Loader produces a Config. It is the query engine's only collaborator for
// system-specific DNS configuration and hosts-file discovery; platform
// selection (Unix vs Windows sources) is the Loader's concern.
type Loader interface {
	Load(ctx context.Context) (*Config, error)
}

// LoaderFunc adapts a function to a Loader.
type LoaderFunc func(ctx context.Context) (*Config, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) (*Config, error) { return f(ctx) }
