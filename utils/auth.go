package utils

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

// 单签名身份：secp256k1 公钥 → keccak256(pubUncompressed[1:]) 后 20 字节地址。
// 多签身份见 bls.go，两者对托管核心完全透明：核心只比较一个身份地址。

var ErrBadSignature = errors.New("signature verification failed")

// ParsePubKey 解析压缩/非压缩格式的 secp256k1 公钥（十六进制）
func ParsePubKey(pubHex string) (*btcec.PublicKey, error) {
	raw, err := hex.DecodeString(pubHex)
	if err != nil {
		return nil, fmt.Errorf("decode pubkey hex: %w", err)
	}
	pub, err := btcec.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("parse pubkey: %w", err)
	}
	return pub, nil
}

// DeriveAddress 以太坊风格地址推导: keccak256(pubUncompressed[1:]) 最后20字节
func DeriveAddress(pub *secp256k1.PublicKey) string {
	// uncompressed 公钥 (首字节0x04 + 32字节X + 32字节Y = 65字节)
	pubUncompressed := pub.SerializeUncompressed()

	hash := sha3.NewLegacyKeccak256()
	// 跳过首字节 0x04，剩余 64 字节是 X、Y
	hash.Write(pubUncompressed[1:])
	digest := hash.Sum(nil)

	// 取后20字节作为地址
	return "0x" + hex.EncodeToString(digest[12:])
}

// VerifySignature 校验 DER 编码的 ECDSA 签名（digest 为 32 字节摘要）
func VerifySignature(pub *secp256k1.PublicKey, digest, sigDER []byte) error {
	sig, err := dcrecdsa.ParseDERSignature(sigDER)
	if err != nil {
		return fmt.Errorf("parse signature: %w", err)
	}
	if !sig.Verify(digest, pub) {
		return ErrBadSignature
	}
	return nil
}

// SignDigest 用私钥对 32 字节摘要做 DER 签名（测试与 CLI 用）
func SignDigest(priv *secp256k1.PrivateKey, digest []byte) []byte {
	return dcrecdsa.Sign(priv, digest).Serialize()
}
