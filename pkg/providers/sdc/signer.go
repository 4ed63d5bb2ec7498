package sdc

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
)

const signatureAlgorithm = "rsa-sha256"

// requestSigner adds CloudAPI's HTTP Signature authorization to a request.
// The signed string is the request's Date header.
type requestSigner struct {
	keyID  string
	signer ssh.AlgorithmSigner
	now    func() time.Time
}

func newRequestSigner(login, privateKeyPath string) (*requestSigner, error) {
	privateKeyBytes, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(privateKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	if signer.PublicKey().Type() != ssh.KeyAlgoRSA {
		return nil, fmt.Errorf("unsupported key type %s: only RSA keys can sign CloudAPI requests", signer.PublicKey().Type())
	}
	algSigner, ok := signer.(ssh.AlgorithmSigner)
	if !ok {
		return nil, fmt.Errorf("key does not support %s signatures", signatureAlgorithm)
	}

	return &requestSigner{
		keyID:  fmt.Sprintf("/%s/keys/%s", login, ssh.FingerprintLegacyMD5(signer.PublicKey())),
		signer: algSigner,
		now:    time.Now,
	}, nil
}

func (s *requestSigner) sign(req *http.Request) error {
	date := s.now().UTC().Format(http.TimeFormat)
	sig, err := s.signer.SignWithAlgorithm(rand.Reader, []byte(date), ssh.KeyAlgoRSASHA256)
	if err != nil {
		return fmt.Errorf("failed to sign request: %w", err)
	}

	req.Header.Set("Date", date)
	req.Header.Set("Authorization", fmt.Sprintf(
		`Signature keyId="%s",algorithm="%s" %s`,
		s.keyID,
		signatureAlgorithm,
		base64.StdEncoding.EncodeToString(sig.Blob),
	))
	return nil
}
