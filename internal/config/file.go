package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of the config file. The same tags serve
// JSON and YAML.
type fileConfig struct {
	Vault struct {
		Path       string `json:"path" yaml:"path"`
		StateDir   string `json:"state_dir" yaml:"state_dir"`
		DeviceName string `json:"device_name" yaml:"device_name"`
		ID         string `json:"id" yaml:"id"`
	} `json:"vault" yaml:"vault"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"db" yaml:"db"`
	} `json:"storage" yaml:"storage"`

	Peer struct {
		Disabled            bool     `json:"disabled" yaml:"disabled"`
		Addresses           []string `json:"addresses" yaml:"addresses"`
		HeartbeatInterval   Duration `json:"heartbeat_interval" yaml:"heartbeat_interval"`
		SuspicionMultiplier int      `json:"suspicion_multiplier" yaml:"suspicion_multiplier"`
		PageSize            int      `json:"page_size" yaml:"page_size"`
		ShutdownTimeout     Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
		DialTimeout         Duration `json:"dial_timeout" yaml:"dial_timeout"`
		RedialInterval      Duration `json:"redial_interval" yaml:"redial_interval"`
	} `json:"peer" yaml:"peer"`

	SharedFolder struct {
		Disabled         bool     `json:"disabled" yaml:"disabled"`
		Root             string   `json:"root" yaml:"root"`
		PresenceInterval Duration `json:"presence_interval" yaml:"presence_interval"`
		SyncInterval     Duration `json:"sync_interval" yaml:"sync_interval"`
		StaleAfter       Duration `json:"stale_after" yaml:"stale_after"`
		Compress         bool     `json:"compress" yaml:"compress"`
	} `json:"shared_folder" yaml:"shared_folder"`

	Log struct {
		Level string `json:"level" yaml:"level"`
		File  string `json:"file" yaml:"file"`
	} `json:"log" yaml:"log"`

	Server struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"server" yaml:"server"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"adapter" yaml:"adapter"`
}

// parseFile reads a JSON or YAML config file. ".yaml" and ".yml" select YAML;
// anything else is decoded as JSON.
func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	}

	return &StructuredConfig{
		Vault: Vault{
			Path:       fc.Vault.Path,
			StateDir:   fc.Vault.StateDir,
			DeviceName: fc.Vault.DeviceName,
			ID:         fc.Vault.ID,
		},
		Storage: Storage{
			DB: DB{DSN: fc.Storage.DB.DSN},
		},
		Peer: Peer{
			Disabled:            fc.Peer.Disabled,
			Addresses:           fc.Peer.Addresses,
			HeartbeatInterval:   time.Duration(fc.Peer.HeartbeatInterval),
			SuspicionMultiplier: fc.Peer.SuspicionMultiplier,
			PageSize:            fc.Peer.PageSize,
			ShutdownTimeout:     time.Duration(fc.Peer.ShutdownTimeout),
			DialTimeout:         time.Duration(fc.Peer.DialTimeout),
			RedialInterval:      time.Duration(fc.Peer.RedialInterval),
		},
		SharedFolder: SharedFolder{
			Disabled:         fc.SharedFolder.Disabled,
			Root:             fc.SharedFolder.Root,
			PresenceInterval: time.Duration(fc.SharedFolder.PresenceInterval),
			SyncInterval:     time.Duration(fc.SharedFolder.SyncInterval),
			StaleAfter:       time.Duration(fc.SharedFolder.StaleAfter),
			Compress:         fc.SharedFolder.Compress,
		},
		Log: Log{
			Level: fc.Log.Level,
			File:  fc.Log.File,
		},
		Server: Server{
			HTTPAddress:    fc.Server.HTTPAddress,
			RequestTimeout: time.Duration(fc.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    fc.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(fc.Adapter.RequestTimeout),
		},
	}, nil
}

// Duration is a time.Duration that decodes from strings like "1h" or "30s"
// in both JSON and YAML. Bare numbers are nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var n int64
	if node.Tag == "!!int" {
		if err := node.Decode(&n); err != nil {
			return err
		}
		*d = Duration(time.Duration(n))
		return nil
	}

	tmp, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(tmp)
	return nil
}
