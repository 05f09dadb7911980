package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miekg/dns"

	"github.com/dnsstub/dnsresolver/config"
)

func TestLoaderFuncAdaptsAFunction(t *testing.T) {
	called := false
	l := config.LoaderFunc(func(ctx context.Context) (*config.Config, error) {
		called = true
		return &config.Config{Nameservers: []string{"127.0.0.1:53"}}, nil
	})

	cfg, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, []string{"127.0.0.1:53"}, cfg.Nameservers)
}

func TestCodecParsesResolvConfAttempts(t *testing.T) {
	dir := t.TempDir()

	resolvConf := filepath.Join(dir, "resolv.conf")
	require.NoError(t, os.WriteFile(resolvConf, []byte("nameserver 127.0.0.1\noptions attempts:2 timeout:1\n"), 0o644))

	cc, err := dns.ClientConfigFromFile(resolvConf)
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1"}, cc.Servers)
	assert.Equal(t, 2, cc.Attempts)
}
