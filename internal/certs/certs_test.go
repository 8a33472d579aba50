package certs

import (
	"crypto/x509"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadGenerates(t *testing.T) {
	store := NewStore(t.TempDir())

	cert, err := store.Load()
	require.NoError(t, err)
	require.NotEmpty(t, cert.Certificate)

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	assert.NoError(t, leaf.VerifyHostname("localhost"))
	assert.True(t, leaf.NotAfter.After(time.Now().Add(300*24*time.Hour)))

	certFile, keyFile := store.Paths()
	for _, f := range []string{certFile, keyFile} {
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestStore_LoadReuses(t *testing.T) {
	store := NewStore(t.TempDir())

	first, err := store.Load()
	require.NoError(t, err)
	second, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, first.Certificate[0], second.Certificate[0])
}

func TestStore_RegeneratesCorruptPair(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load()
	require.NoError(t, err)

	certFile, _ := store.Paths()
	require.NoError(t, os.WriteFile(certFile, []byte("not a certificate"), 0o600))

	cert, err := store.Load()
	require.NoError(t, err)
	require.NotEmpty(t, cert.Certificate)
	_, err = x509.ParseCertificate(cert.Certificate[0])
	assert.NoError(t, err)
}
