package codec

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/remiblancher/qder/internal/audit"
	"github.com/remiblancher/qder/internal/keys"
	"github.com/remiblancher/qder/internal/template"
	"github.com/remiblancher/qder/pkg/oid"
	"github.com/remiblancher/qder/pkg/x509der"
)

var (
	// ErrNoSigningKey is returned when signing is requested for a template
	// that reads its public key from a file.
	ErrNoSigningKey = errors.New("no private key to sign with")

	// ErrSignatureMismatch is returned when the template's signature
	// algorithm does not match the generated key.
	ErrSignatureMismatch = errors.New("signature algorithm does not match key")
)

// bodySource names templates that did not come from a file.
const bodySource = "-"

// LoadTemplate reads a certificate template from path.
func LoadTemplate(path string) (*template.Template, error) {
	t, err := template.LoadFromFile(path)
	return t, logTemplate(path, err)
}

// ParseTemplate parses a certificate template from YAML bytes.
func ParseTemplate(data []byte) (*template.Template, error) {
	t, err := template.LoadFromBytes(data)
	return t, logTemplate(bodySource, err)
}

// LoadCRLTemplate reads a CRL template from path.
func LoadCRLTemplate(path string) (*template.CRLTemplate, error) {
	t, err := template.LoadCRLFromFile(path)
	return t, logTemplate(path, err)
}

// ParseCRLTemplate parses a CRL template from YAML bytes.
func ParseCRLTemplate(data []byte) (*template.CRLTemplate, error) {
	t, err := template.LoadCRLFromBytes(data)
	return t, logTemplate(bodySource, err)
}

func logTemplate(path string, err error) error {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	if aerr := audit.LogTemplateLoaded(path, err == nil, reason); aerr != nil {
		return aerr
	}
	return err
}

// TBSOptions controls EncodeTBS.
type TBSOptions struct {
	Now    time.Time
	Random io.Reader

	// Sign self-signs the result with the key the template generated.
	Sign bool
}

// TBSResult is an encoded TBSCertificate.
type TBSResult struct {
	TBS         *x509der.TBSCertificate
	DER         []byte
	Certificate []byte // set when signed
	Key         *keys.KeyPair
}

// EncodeTBS builds and encodes a TBSCertificate from t.
func EncodeTBS(t *template.Template, opts TBSOptions) (*TBSResult, error) {
	res, err := encodeTBS(t, opts)
	if err != nil {
		if aerr := audit.LogTBSEncoded("", "", "", 0, false); aerr != nil {
			return nil, aerr
		}
		return nil, err
	}

	tbs := res.TBS
	size := len(res.DER)
	if res.Certificate != nil {
		size = len(res.Certificate)
	}
	if err := audit.LogTBSEncoded(fmt.Sprintf("0x%X", tbs.SerialNumber), tbs.Subject.String(),
		algorithmName(tbs.Signature.Algorithm), size, true); err != nil {
		return nil, err
	}
	return res, nil
}

func encodeTBS(t *template.Template, opts TBSOptions) (*TBSResult, error) {
	built, err := t.Build(template.BuildOptions{Now: opts.Now, Random: opts.Random})
	if err != nil {
		return nil, err
	}
	der, err := built.TBS.Encode()
	if err != nil {
		return nil, err
	}
	res := &TBSResult{TBS: built.TBS, DER: der, Key: built.Key}
	if !opts.Sign {
		return res, nil
	}

	if built.Key == nil {
		return nil, ErrNoSigningKey
	}
	want, err := built.Key.Algorithm.SignatureAlgorithm()
	if err != nil {
		return nil, err
	}
	if !want.Algorithm.Equal(built.TBS.Signature.Algorithm) {
		return nil, fmt.Errorf("%w: %s key with %s", ErrSignatureMismatch,
			built.Key.Algorithm, algorithmName(built.TBS.Signature.Algorithm))
	}
	sig, err := built.Key.Sign(der)
	if err != nil {
		return nil, err
	}
	if res.Certificate, err = x509der.AssembleCertificate(der, *built.TBS.Signature, sig); err != nil {
		return nil, err
	}
	return res, nil
}

// CRLResult is an encoded TBSCertList.
type CRLResult struct {
	List *x509der.TBSCertList
	DER  []byte
}

// EncodeCRL builds and encodes a TBSCertList from t. A zero now means
// time.Now.
func EncodeCRL(t *template.CRLTemplate, now time.Time) (*CRLResult, error) {
	if now.IsZero() {
		now = time.Now()
	}
	list, err := t.Build(now)
	var der []byte
	if err == nil {
		der, err = list.Encode()
	}
	if err != nil {
		if aerr := audit.LogCRLEncoded("", 0, 0, false); aerr != nil {
			return nil, aerr
		}
		return nil, err
	}
	if err := audit.LogCRLEncoded(list.Issuer.String(), len(list.RevokedCertificates), len(der), true); err != nil {
		return nil, err
	}
	return &CRLResult{List: list, DER: der}, nil
}

func algorithmName(o *oid.ObjectIdentifier) string {
	if name, ok := oid.Name(o); ok {
		return name
	}
	return o.String()
}
