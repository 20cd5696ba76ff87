package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/remiblancher/qder/internal/codec"
)

var crlCmd = &cobra.Command{
	Use:   "crl",
	Short: "TBSCertList operations",
}

var crlEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a TBSCertList from a YAML template",
	Long: `Build a version 2 TBSCertList from a YAML CRL template and write its DER
encoding.

Example template:
  signature_algorithm: ecdsa-with-SHA256
  issuer: { CN: Root CA }
  next_update: 7d
  crl_number: 12
  revoked:
    - { serial: "0x1F", reason: keyCompromise }

Examples:
  qder crl encode --template crl.yaml
  qder crl encode --template crl.yaml --out crl.tbs`,
	Args: cobra.NoArgs,
	RunE: runCRLEncode,
}

var (
	crlTemplate string
	crlOutput   string
	crlFormat   string
)

func init() {
	crlEncodeCmd.Flags().StringVarP(&crlTemplate, "template", "t", "", "CRL template file, or builtin:<name> (required)")
	_ = crlEncodeCmd.MarkFlagRequired("template")
	crlEncodeCmd.Flags().StringVarP(&crlOutput, "out", "o", "", "Output file (default: stdout)")
	crlEncodeCmd.Flags().StringVar(&crlFormat, "format", "", "Output format: hex, base64, der, pem (default: hex on stdout, der in a file)")

	crlCmd.AddCommand(crlEncodeCmd)
}

func runCRLEncode(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(crlFormat, crlOutput)
	if err != nil {
		return err
	}
	tmpl, err := loadCRLTemplate(crlTemplate)
	if err != nil {
		return err
	}
	res, err := codec.EncodeCRL(tmpl, time.Time{})
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, crlOutput, res.DER, format, "TBS CERTLIST"); err != nil {
		return err
	}

	if crlOutput != "" {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Encoded TBSCertList (%d bytes)\n", len(res.DER))
		fmt.Fprintf(w, "  Issuer:       %s\n", res.List.Issuer)
		fmt.Fprintf(w, "  This update:  %s\n", res.List.ThisUpdate.UTC().Format(time.RFC3339))
		if !res.List.NextUpdate.IsZero() {
			fmt.Fprintf(w, "  Next update:  %s\n", res.List.NextUpdate.UTC().Format(time.RFC3339))
		}
		fmt.Fprintf(w, "  Revoked:      %d\n", len(res.List.RevokedCertificates))
		fmt.Fprintf(w, "  Output:       %s\n", crlOutput)
	}
	return nil
}
