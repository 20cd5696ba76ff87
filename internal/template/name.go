package template

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/remiblancher/qder/pkg/oid"
	"github.com/remiblancher/qder/pkg/x509der"
)

// NameTemplate is a distinguished name in YAML. Two forms are accepted:
//
//	subject:                     # mapping: one RDN per key, in order
//	  CN: example
//	  C: { value: FR, encoding: printable }
//
//	subject:                     # sequence: each mapping is one RDN
//	  - { CN: example }
//	  - { OU: a, O: b }          # multi-valued RDN
type NameTemplate struct {
	RDNs [][]AttributeTemplate

	// Attributes lists every attribute in order, across RDNs.
	Attributes []AttributeTemplate
}

// AttributeTemplate is one attribute: a registry name (CN, O, C,
// emailAddress ...) or dotted OID, with an optional string encoding.
type AttributeTemplate struct {
	Type     string `yaml:"-"`
	Value    string `yaml:"value"`
	Encoding string `yaml:"encoding,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *NameTemplate) UnmarshalYAML(node *yaml.Node) error {
	n.RDNs, n.Attributes = nil, nil
	switch node.Kind {
	case yaml.MappingNode:
		attrs, err := decodeAttributes(node)
		if err != nil {
			return err
		}
		for _, a := range attrs {
			n.RDNs = append(n.RDNs, []AttributeTemplate{a})
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			if item.Kind != yaml.MappingNode {
				return fmt.Errorf("RDN %d must be a mapping", i)
			}
			attrs, err := decodeAttributes(item)
			if err != nil {
				return err
			}
			if len(attrs) == 0 {
				return fmt.Errorf("RDN %d is empty", i)
			}
			n.RDNs = append(n.RDNs, attrs)
		}
	default:
		return fmt.Errorf("name must be a mapping or a sequence of mappings")
	}
	for _, rdn := range n.RDNs {
		n.Attributes = append(n.Attributes, rdn...)
	}
	return nil
}

func decodeAttributes(node *yaml.Node) ([]AttributeTemplate, error) {
	attrs := make([]AttributeTemplate, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		a := AttributeTemplate{Type: key}
		switch val.Kind {
		case yaml.ScalarNode:
			a.Value = val.Value
		case yaml.MappingNode:
			if err := val.Decode(&a); err != nil {
				return nil, fmt.Errorf("invalid attribute %q: %w", key, err)
			}
			a.Type = key
		default:
			return nil, fmt.Errorf("invalid attribute %q: must be string or object", key)
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

// Name resolves attribute types and checks that the result encodes. field
// names the template field in errors.
func (n *NameTemplate) Name(field string) (x509der.Name, error) {
	name := x509der.Name{}
	for _, rdn := range n.RDNs {
		r := make(x509der.RDN, 0, len(rdn))
		for _, a := range rdn {
			t, err := oid.Resolve(a.Type)
			if err != nil {
				return nil, NewValidationError(field+"."+a.Type, a.Value, "unknown attribute type")
			}
			enc := x509der.StringEncoding(a.Encoding)
			if _, ok := enc.Tag(); a.Encoding != "" && !ok {
				return nil, NewValidationError(field+"."+a.Type+".encoding", a.Encoding, "must be utf8, printable, ia5, t61 or bmp")
			}
			r = append(r, x509der.Attribute{Type: t, Value: a.Value, Encoding: enc})
		}
		name = append(name, r)
	}
	if _, err := name.Encode(); err != nil {
		return nil, NewValidationError(field, "", err.Error())
	}
	return name, nil
}
