package oid

// MarshalText implements encoding.TextMarshaler using the dotted form.
func (o *ObjectIdentifier) MarshalText() ([]byte, error) {
	if o == nil || len(o.der) == 0 {
		return nil, NewError("text", "", ErrEmpty)
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts the same
// syntax as Parse and is used when decoding JSON and YAML documents.
// The receiver must be a zero value; identifiers are immutable once set.
func (o *ObjectIdentifier) UnmarshalText(text []byte) error {
	if len(o.der) != 0 {
		return NewError("text", o.String(), ErrAlreadySet)
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	o.der = parsed.der
	o.str.Store(parsed.str.Load())
	return nil
}
