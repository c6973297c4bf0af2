package tool

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSelfSignedCertificate(t *testing.T) {
	dir := t.TempDir()
	keyFilename := filepath.Join(dir, "key.pem")
	certFilename := filepath.Join(dir, "cert.pem")

	require.NoError(t, EnsureSelfSignedCertificate("test", keyFilename, certFilename, []string{"localhost", "127.0.0.1"}))

	_, err := tls.LoadX509KeyPair(certFilename, keyFilename)
	require.NoError(t, err)

	before, err := os.ReadFile(certFilename)
	require.NoError(t, err)

	// existing files are kept
	require.NoError(t, EnsureSelfSignedCertificate("test", keyFilename, certFilename, nil))
	after, err := os.ReadFile(certFilename)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
