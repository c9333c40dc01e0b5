package app

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSelfSigned(t *testing.T) (certFile, keyFile string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "namegen-test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		DNSNames:              []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	if err := os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600); err != nil {
		t.Fatal(err)
	}
	return certFile, keyFile
}

func TestTLSServerConfig(t *testing.T) {
	certFile, keyFile := writeSelfSigned(t)

	cfg, err := TLSOptions{CertFile: certFile, KeyFile: keyFile}.serverConfig()
	if err != nil {
		t.Fatalf("server config: %v", err)
	}
	if cfg.MinVersion != tls.VersionTLS12 || len(cfg.Certificates) != 1 || cfg.ClientCAs != nil {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	cfg, err = TLSOptions{CertFile: certFile, KeyFile: keyFile, ClientCAFile: certFile, RequireClientCert: true}.serverConfig()
	if err != nil {
		t.Fatalf("mtls config: %v", err)
	}
	if cfg.ClientAuth != tls.RequireAndVerifyClientCert || cfg.ClientCAs == nil {
		t.Fatalf("client auth not enforced: %+v", cfg)
	}
}

func TestTLSServerConfigErrors(t *testing.T) {
	certFile, keyFile := writeSelfSigned(t)
	cases := map[string]TLSOptions{
		"missing key":        {CertFile: certFile},
		"unreadable pair":    {CertFile: certFile, KeyFile: certFile},
		"client ca required": {CertFile: certFile, KeyFile: keyFile, RequireClientCert: true},
		"client ca empty":    {CertFile: certFile, KeyFile: keyFile, RequireClientCert: true, ClientCAFile: keyFile},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := opts.serverConfig(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	if (TLSOptions{}).Enabled() {
		t.Fatal("empty options must not enable tls")
	}
}
