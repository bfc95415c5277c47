package config

import (
	"fmt"
	"os"
	"time"
)

// CtlAdapter holds the daemon endpoint used by syncctl.
type CtlAdapter struct {
	HTTPAddress    string
	RequestTimeout time.Duration
}

// CtlConfig is the syncctl view of [StructuredConfig].
type CtlConfig struct {
	Adapter  CtlAdapter
	LogLevel string
	// Args are the subcommand and its arguments.
	Args []string
}

// GetCtlConfig builds and validates the syncctl configuration from os.Args.
func GetCtlConfig() (*CtlConfig, error) {
	return LoadCtlConfig(os.Args[0], os.Args[1:])
}

// LoadCtlConfig is GetCtlConfig with explicit arguments. Only the fields
// relevant to syncctl are mapped, and vault settings are not validated.
func LoadCtlConfig(name string, args []string) (*CtlConfig, error) {
	cfg, err := newConfigBuilder().
		withFlags(name, args).
		withEnv().
		withFile().
		withDefaults().
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	ctlCfg := &CtlConfig{
		Adapter: CtlAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		LogLevel: cfg.Log.Level,
		Args:     cfg.Args,
	}

	return ctlCfg, ctlCfg.validate()
}
