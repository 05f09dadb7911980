//go:build !windows
// +build !windows

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miekg/dns"
)

func TestLoadHostsParsesAddressesAndAliases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hosts")

	content := "127.0.0.1 localhost Localhost.\n" +
		"::1 localhost\n" +
		"# a comment\n" +
		"192.0.2.10 example.test  www.example.test # trailing comment\n" +
		"not-an-ip broken\n"

	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	hosts, err := loadHosts(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", hosts[dns.TypeA]["localhost"])
	assert.Equal(t, "::1", hosts[dns.TypeAAAA]["localhost"])
	assert.Equal(t, "192.0.2.10", hosts[dns.TypeA]["example.test"])
	assert.Equal(t, "192.0.2.10", hosts[dns.TypeA]["www.example.test"])
	assert.Empty(t, hosts[dns.TypeA]["broken"])
}

func TestLoadHostsMissingFile(t *testing.T) {
	_, err := loadHosts("/nonexistent/hosts/file")
	assert.Error(t, err)
}
