package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// 三方多签：聚合签名用聚合公钥一次校验
func TestBLSMultisigRoundTrip(t *testing.T) {
	msg := []byte("withdraw seed=02 value=40")

	var pubs [][]byte
	var sigs [][]byte
	for i := 0; i < 3; i++ {
		priv, pub := NewBLSKeyPair()
		raw, err := pub.MarshalBinary()
		require.NoError(t, err)
		pubs = append(pubs, raw)

		sig, err := BLSSign(priv, msg)
		require.NoError(t, err)
		sigs = append(sigs, sig)
	}

	aggSig, err := BLSAggregateSignatures(sigs)
	require.NoError(t, err)

	require.NoError(t, VerifyBLSMultisig(pubs, msg, aggSig))

	// 消息被篡改必须失败
	require.ErrorIs(t, VerifyBLSMultisig(pubs, []byte("tampered"), aggSig), ErrBadSignature)

	// 缺一个签名人必须失败
	partial, err := BLSAggregateSignatures(sigs[:2])
	require.NoError(t, err)
	require.ErrorIs(t, VerifyBLSMultisig(pubs, msg, partial), ErrBadSignature)
}

// 多签身份地址只取决于公钥集合
func TestDeriveMultisigAddressStable(t *testing.T) {
	var pubs [][]byte
	for i := 0; i < 2; i++ {
		_, pub := NewBLSKeyPair()
		raw, err := pub.MarshalBinary()
		require.NoError(t, err)
		pubs = append(pubs, raw)
	}

	addr1, err := DeriveMultisigAddress(pubs)
	require.NoError(t, err)
	addr2, err := DeriveMultisigAddress(pubs)
	require.NoError(t, err)
	require.Equal(t, addr1, addr2)
	require.True(t, strings.HasPrefix(addr1, "0x"))
	require.Len(t, addr1, 2+40)

	// 换一组公钥地址不同
	_, pub := NewBLSKeyPair()
	raw, err := pub.MarshalBinary()
	require.NoError(t, err)
	addr3, err := DeriveMultisigAddress([][]byte{raw})
	require.NoError(t, err)
	require.NotEqual(t, addr1, addr3)
}

func TestAggregateRejectsEmptySet(t *testing.T) {
	_, err := DeriveMultisigAddress(nil)
	require.Error(t, err)
}
