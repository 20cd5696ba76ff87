package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remiblancher/qder/internal/codec"
	"github.com/remiblancher/qder/internal/template"
	"github.com/remiblancher/qder/templates"
)

// builtinPrefix selects an embedded template in --template.
const builtinPrefix = "builtin:"

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Built-in template operations",
	Long: `List and show the templates embedded in qder.

Any built-in template can be passed to tbs encode or crl encode as
--template builtin:<name>.

Examples:
  qder template list
  qder template show ecdsa/server > server.yaml
  qder tbs encode --template builtin:pqc/ml-dsa-65-ca --sign`,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, name := range templates.Names() {
			kind := "certificate"
			if templates.IsCRL(name) {
				kind = "crl"
			}
			fmt.Fprintf(w, "%-20s %s\n", name, kind)
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a built-in template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := templates.Read(args[0])
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
}

// loadTemplate loads a certificate template from a file or, with the
// builtin: prefix, from the embedded set.
func loadTemplate(ref string) (*template.Template, error) {
	name, ok := strings.CutPrefix(ref, builtinPrefix)
	if !ok {
		return codec.LoadTemplate(ref)
	}
	if templates.IsCRL(name) {
		return nil, fmt.Errorf("%s is a CRL template", name)
	}
	data, err := templates.Read(name)
	if err != nil {
		return nil, err
	}
	return codec.ParseTemplate(data)
}

// loadCRLTemplate is loadTemplate for CRL templates.
func loadCRLTemplate(ref string) (*template.CRLTemplate, error) {
	name, ok := strings.CutPrefix(ref, builtinPrefix)
	if !ok {
		return codec.LoadCRLTemplate(ref)
	}
	if !templates.IsCRL(name) {
		return nil, fmt.Errorf("%s is not a CRL template", name)
	}
	data, err := templates.Read(name)
	if err != nil {
		return nil, err
	}
	return codec.ParseCRLTemplate(data)
}
