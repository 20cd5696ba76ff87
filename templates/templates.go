// Package templates provides embedded certificate and CRL templates.
//
// The templates are ready to encode and are embedded in the binary for
// convenience. Users can also copy and customize them.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// FS contains all embedded template YAML files.
// Templates are organized in subdirectories:
//   - ecdsa/     - ECDSA P-256 and P-384 certificates
//   - ed25519/   - Ed25519 certificates
//   - pqc/       - Post-quantum (ML-DSA) certificates
//   - crl/       - CRL templates
//
//go:embed all:ecdsa all:ed25519 all:pqc all:crl
var FS embed.FS

// Names returns the embedded template names ("ecdsa/server"), sorted.
func Names() []string {
	var names []string
	_ = fs.WalkDir(FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".yaml" {
			return err
		}
		names = append(names, strings.TrimSuffix(p, ".yaml"))
		return nil
	})
	sort.Strings(names)
	return names
}

// Read returns the YAML body of the named template.
func Read(name string) ([]byte, error) {
	data, err := FS.ReadFile(strings.TrimSuffix(name, ".yaml") + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown built-in template %q", name)
	}
	return data, nil
}

// IsCRL reports whether the named template describes a CRL.
func IsCRL(name string) bool {
	return strings.HasPrefix(name, "crl/")
}
