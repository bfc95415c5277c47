package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds a host and port parsed from "host:port".
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses args with a dedicated FlagSet.
//
// Flags:
//
//	-vault vault directory
//	-state-dir state directory (default <vault>/.vaultsync)
//	-device-name device name announced to peers
//	-vault-id join an existing vault id
//	-dsn state database DSN ("memory" for in-memory)
//	-peers comma separated ws:// peer URLs
//	-no-peers disable the peer protocol
//	-heartbeat heartbeat interval (e.g. "5s")
//	-page-size events per EVENTS_RESPONSE page
//	-shared-root shared folder root (default: vault)
//	-no-shared-folder disable the shared-folder transport
//	-compress-exports write zstd-compressed exports
//	-a HTTP API address in format [host]:[port]
//	-request-timeout API request timeout
//	-daemon daemon base URL for syncctl
//	-log-level zerolog level
//	-log-file log file path
//	-c/-config JSON or YAML config file
func parseFlags(name string, args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	var (
		serverAddress   NetAddress
		vaultPath       string
		stateDir        string
		deviceName      string
		vaultID         string
		dsn             string
		peers           string
		noPeers         bool
		heartbeat       time.Duration
		pageSize        int
		sharedRoot      string
		noSharedFolder  bool
		compressExports bool
		requestTimeout  time.Duration
		daemonAddress   string
		logLevel        string
		logFile         string
		configFilePath  string
	)

	fs.StringVar(&vaultPath, "vault", "", "Vault directory")
	fs.StringVar(&stateDir, "state-dir", "", "State directory (default <vault>/.vaultsync)")
	fs.StringVar(&deviceName, "device-name", "", "Device name announced to peers")
	fs.StringVar(&vaultID, "vault-id", "", "Join an existing vault id")
	fs.StringVar(&dsn, "dsn", "", "State database DSN")
	fs.StringVar(&peers, "peers", "", "Comma separated ws:// peer URLs")
	fs.BoolVar(&noPeers, "no-peers", false, "Disable the peer protocol")
	fs.DurationVar(&heartbeat, "heartbeat", 0, "Heartbeat interval (e.g. 5s)")
	fs.IntVar(&pageSize, "page-size", 0, "Events per response page")
	fs.StringVar(&sharedRoot, "shared-root", "", "Shared folder root (default: vault)")
	fs.BoolVar(&noSharedFolder, "no-shared-folder", false, "Disable the shared-folder transport")
	fs.BoolVar(&compressExports, "compress-exports", false, "Write zstd-compressed exports")
	fs.Var(&serverAddress, "a", "HTTP API address host:port")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "API request timeout (e.g. 30s)")
	fs.StringVar(&daemonAddress, "daemon", "", "Daemon base URL for syncctl")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&logFile, "log-file", "", "Log file path")
	fs.StringVar(&configFilePath, "c", "", "JSON or YAML config file path")
	fs.StringVar(&configFilePath, "config", "", "JSON or YAML config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Vault: Vault{
			Path:       vaultPath,
			StateDir:   stateDir,
			DeviceName: deviceName,
			ID:         vaultID,
		},
		Storage: Storage{
			DB: DB{DSN: dsn},
		},
		Peer: Peer{
			Disabled:          noPeers,
			Addresses:         splitList(peers),
			HeartbeatInterval: heartbeat,
			PageSize:          pageSize,
		},
		SharedFolder: SharedFolder{
			Disabled: noSharedFolder,
			Root:     sharedRoot,
			Compress: compressExports,
		},
		Log: Log{
			Level: logLevel,
			File:  logFile,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress: daemonAddress,
		},
		ConfigFilePath: configFilePath,
		Args:           fs.Args(),
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// String returns "host:port", or "" when the address is unset.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses "host:port". The host must be an IP address or "localhost";
// an empty host listens on all interfaces.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
