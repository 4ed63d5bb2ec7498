package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
)

// CreateRSAPrivateKeyOnDisk writes a fresh PKCS#1 PEM key to a temp file.
func CreateRSAPrivateKeyOnDisk() (*rsa.PrivateKey, string, func()) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	path, cleanup, err := WriteStringToTempFile(string(pem.EncodeToMemory(block)))
	if err != nil {
		panic(err)
	}
	return key, path, cleanup
}
