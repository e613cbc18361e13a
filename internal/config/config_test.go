package config

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/poofware/estate-service/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRSAPublicKey(t *testing.T) {
	key := testhelpers.NewRSAKey(t)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	pub, err := ParseRSAPublicKey(base64.StdEncoding.EncodeToString(pemBytes))
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(pub))
}

func TestParseRSAPublicKeyRejectsGarbage(t *testing.T) {
	_, err := ParseRSAPublicKey("")
	require.Error(t, err)

	_, err = ParseRSAPublicKey("not base64!")
	require.Error(t, err)

	_, err = ParseRSAPublicKey(base64.StdEncoding.EncodeToString([]byte("no pem here")))
	require.Error(t, err)
}
