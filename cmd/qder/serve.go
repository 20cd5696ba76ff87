package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/remiblancher/qder/internal/api/server"
)

// Serve command flags
var (
	servePort    int
	serveHost    string
	serveTLSCert string
	serveTLSKey  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the qder REST API server.

Every request is recorded in the audit log when --audit-log is set.

Environment variables:
  QDER_PORT       Port to listen on
  QDER_HOST       Host to bind to
  QDER_TLS_CERT   TLS certificate file
  QDER_TLS_KEY    TLS private key file

Examples:
  # Plain HTTP on the default port
  qder serve

  # With TLS and an audit log
  qder serve --port 8443 --tls-cert server.crt --tls-key server.key --audit-log audit.jsonl`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: 8080)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: all interfaces)")
	serveCmd.Flags().StringVar(&serveTLSCert, "tls-cert", "", "TLS certificate file")
	serveCmd.Flags().StringVar(&serveTLSKey, "tls-key", "", "TLS private key file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := serveConfig()
	if err != nil {
		return err
	}
	s := server.New(cfg, version)
	s.Out = cmd.OutOrStdout()
	return s.Start()
}

// serveConfig merges flags, environment and defaults.
func serveConfig() (*server.Config, error) {
	applyServeEnvVars()

	cfg := server.DefaultConfig()
	if servePort != 0 {
		cfg.Port = servePort
	}
	cfg.Host = serveHost
	cfg.TLSCert = serveTLSCert
	cfg.TLSKey = serveTLSKey
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyServeEnvVars() {
	if servePort == 0 {
		if v := os.Getenv("QDER_PORT"); v != "" {
			if p, err := strconv.Atoi(v); err == nil {
				servePort = p
			}
		}
	}
	if serveHost == "" {
		serveHost = os.Getenv("QDER_HOST")
	}
	if serveTLSCert == "" {
		serveTLSCert = os.Getenv("QDER_TLS_CERT")
	}
	if serveTLSKey == "" {
		serveTLSKey = os.Getenv("QDER_TLS_KEY")
	}
}
