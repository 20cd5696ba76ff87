package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remiblancher/qder/internal/codec"
	"github.com/remiblancher/qder/pkg/oid"
)

var oidCmd = &cobra.Command{
	Use:   "oid",
	Short: "Object identifier operations",
	Long: `Encode, decode and look up ASN.1 object identifiers.

OIDs can be given in dotted-decimal form (2.5.4.3) or by registered name
(CN, serverAuth, ML-DSA-65). Arcs of any size are supported.

Modes:
  content   Base-128 content octets only (default)
  element   Complete DER element: tag 0x06, length, content
  cbor      RFC 9090 CBOR tag 111 wrapping the content octets`,
}

var oidEncodeCmd = &cobra.Command{
	Use:   "encode <oid>",
	Short: "Encode an OID",
	Long: `Encode an OID and print its bytes.

Examples:
  qder oid encode 1.2.840.113549.1.1.11
  qder oid encode serverAuth --mode element --format base64`,
	Args: cobra.ExactArgs(1),
	RunE: runOIDEncode,
}

var oidDecodeCmd = &cobra.Command{
	Use:   "decode <data>",
	Short: "Decode an OID",
	Long: `Decode OID bytes given as hex (spaces and colons allowed) or base64.

Examples:
  qder oid decode 2a864886f70d01010b
  qder oid decode 06:03:55:04:03 --mode element
  qder oid decode 2G9IKwYBBQUHAwE= --encoding base64 --mode cbor`,
	Args: cobra.ExactArgs(1),
	RunE: runOIDDecode,
}

var oidLookupCmd = &cobra.Command{
	Use:   "lookup <name|oid>",
	Short: "Resolve a registered name or dotted OID",
	Args:  cobra.ExactArgs(1),
	RunE:  runOIDLookup,
}

var oidListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered OID names",
	Args:  cobra.NoArgs,
	RunE:  runOIDList,
}

var (
	oidMode     string
	oidFormat   string
	oidEncoding string
)

func init() {
	oidEncodeCmd.Flags().StringVar(&oidMode, "mode", "content", "Encoding mode: content, element, cbor")
	oidEncodeCmd.Flags().StringVar(&oidFormat, "format", "hex", "Output format: hex, base64, der")

	oidDecodeCmd.Flags().StringVar(&oidMode, "mode", "content", "Input mode: content, element, cbor")
	oidDecodeCmd.Flags().StringVar(&oidEncoding, "encoding", "", "Input encoding: hex, base64 (default: auto)")

	oidCmd.AddCommand(oidEncodeCmd)
	oidCmd.AddCommand(oidDecodeCmd)
	oidCmd.AddCommand(oidLookupCmd)
	oidCmd.AddCommand(oidListCmd)
}

func runOIDEncode(cmd *cobra.Command, args []string) error {
	mode, err := codec.ParseMode(oidMode)
	if err != nil {
		return err
	}
	format, err := codec.ParseFormat(oidFormat)
	if err != nil {
		return err
	}
	if format == codec.FormatPEM {
		return fmt.Errorf("pem output is not available for OIDs")
	}
	res, err := codec.EncodeOID(args[0], mode)
	if err != nil {
		return err
	}
	out, err := codec.Render(res.Bytes, format, "")
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runOIDDecode(cmd *cobra.Command, args []string) error {
	mode, err := codec.ParseMode(oidMode)
	if err != nil {
		return err
	}
	data, err := codec.DecodeInput(args[0], oidEncoding)
	if err != nil {
		return err
	}
	res, err := codec.DecodeOID(data, mode)
	if err != nil {
		return err
	}
	printOID(cmd, res)
	return nil
}

func runOIDLookup(cmd *cobra.Command, args []string) error {
	res, err := codec.LookupOID(args[0])
	if err != nil {
		return err
	}
	printOID(cmd, res)
	fmt.Fprintf(cmd.OutOrStdout(), "  Content: %x\n", res.Bytes)
	return nil
}

func runOIDList(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	for _, name := range oid.Names() {
		o, _ := oid.Lookup(name)
		fmt.Fprintf(w, "%-26s %s\n", name, o)
	}
	return nil
}

func printOID(cmd *cobra.Command, res *codec.OIDResult) {
	w := cmd.OutOrStdout()
	if res.Name != "" {
		fmt.Fprintf(w, "%s (%s)\n", res.OID, res.Name)
	} else {
		fmt.Fprintln(w, res.OID)
	}
	arcs := res.OID.Arcs()
	text := make([]string, len(arcs))
	for i, a := range arcs {
		text[i] = a.String()
	}
	fmt.Fprintf(w, "  Arcs:    %s\n", strings.Join(text, " "))
}
