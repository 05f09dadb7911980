//go:build windows

package config

import (
	"context"
	"errors"
)

// Default returns a Loader that fails: automatic discovery of the
// operating system's resolver configuration is not implemented on
// Windows; callers on this platform must supply their own config.Loader.
func Default() Loader {
	return LoaderFunc(func(_ context.Context) (*Config, error) {
		return nil, errors.New("config: automatic discovery is not implemented on windows; supply a config.Loader")
	})
}
