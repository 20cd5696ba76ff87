// Command qder encodes object identifiers, certificate bodies and CRLs in
// DER, and serves the same operations over a REST API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/remiblancher/qder/internal/audit"
)

// Build-time variables (set with -ldflags -X)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var auditLogPath string

func main() {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails
	if cerr := audit.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "qder",
	Short: "qder - DER encoder and object identifier toolkit",
	Long: `qder encodes and decodes ASN.1 object identifiers and builds DER
TBSCertificate and TBSCertList structures from YAML templates.

Examples:
  # Encode an OID as a complete DER element
  qder oid encode 1.2.840.10045.4.3.2 --mode element

  # Decode OID content octets
  qder oid decode 2a8648ce3d040302

  # Regroup 8-bit bytes into 7-bit groups
  qder repack ffff --from 8 --to 7

  # Encode and self-sign a certificate template
  qder tbs encode --template server.yaml --sign --format pem

  # Serve the REST API
  qder serve --port 8080`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Check for audit log path from environment if not set via flag
		if auditLogPath == "" {
			auditLogPath = os.Getenv("QDER_AUDIT_LOG")
		}

		// Initialize audit logging
		if auditLogPath != "" {
			if err := audit.InitFile(auditLogPath); err != nil {
				return fmt.Errorf("failed to initialize audit log: %w", err)
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		// Close audit log
		return audit.Close()
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&auditLogPath, "audit-log", "",
		"Path to audit log file (or set QDER_AUDIT_LOG env var)")

	rootCmd.AddCommand(oidCmd)      // qder oid ...
	rootCmd.AddCommand(repackCmd)   // qder repack
	rootCmd.AddCommand(tbsCmd)      // qder tbs ...
	rootCmd.AddCommand(crlCmd)      // qder crl ...
	rootCmd.AddCommand(templateCmd) // qder template ...
	rootCmd.AddCommand(serveCmd)    // qder serve
	rootCmd.AddCommand(auditCmd)    // qder audit ...
}
