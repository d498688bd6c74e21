package utils

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	digest := Sha256Hash([]byte("unlock seed=01 now=1234"))
	sig := SignDigest(priv, digest)

	require.NoError(t, VerifySignature(priv.PubKey(), digest, sig))

	// 换个摘要必须失败
	other := Sha256Hash([]byte("tampered"))
	require.ErrorIs(t, VerifySignature(priv.PubKey(), other, sig), ErrBadSignature)
}

func TestDeriveAddressStable(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	addr := DeriveAddress(priv.PubKey())
	require.True(t, strings.HasPrefix(addr, "0x"))
	require.Len(t, addr, 2+40)
	require.Equal(t, addr, DeriveAddress(priv.PubKey()))
}

func TestParsePubKeyRoundTrip(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	pubHex := hex.EncodeToString(priv.PubKey().SerializeCompressed())
	pub, err := ParsePubKey(pubHex)
	require.NoError(t, err)
	require.Equal(t, DeriveAddress(priv.PubKey()), DeriveAddress(pub))

	_, err = ParsePubKey("zz")
	require.Error(t, err)
}

func TestShortID(t *testing.T) {
	a := ShortID([]byte("ix-payload"))
	b := ShortID([]byte("ix-payload"))
	require.Equal(t, a, b)
	require.Len(t, a, 16)
	require.NotEqual(t, a, ShortID([]byte("other")))
}
