package signing

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pkcs12"
)

// Signer signs log extracts with a station's PKCS#12 certificate. The
// certificate bytes are opaque to the rest of the core; only this package
// knows how to open them.
type Signer struct {
	key  *rsa.PrivateKey
	cert *x509.Certificate
}

// NewSigner opens a PKCS#12 blob with the given password.
func NewSigner(p12Data []byte, password string) (*Signer, error) {
	key, cert, err := pkcs12.Decode(p12Data, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decode p12 certificate: %w", err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("p12 certificate does not contain an RSA key")
	}

	return &Signer{key: rsaKey, cert: cert}, nil
}

// Sign produces a base64 RSA-SHA256 detached signature over payload.
func (s *Signer) Sign(payload []byte) (string, error) {
	digest := sha256.Sum256(payload)

	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("failed to sign payload: %w", err)
	}

	return base64.StdEncoding.EncodeToString(sig), nil
}

// CertificatePEMSubject returns the certificate's subject for audit logs.
func (s *Signer) CertificatePEMSubject() string {
	return s.cert.Subject.String()
}

// ContentHash is the sha256 hex digest of the pre-signature payload,
// persisted on upload jobs for auditability.
func ContentHash(payload []byte) string {
	digest := sha256.Sum256(payload)
	return hex.EncodeToString(digest[:])
}
