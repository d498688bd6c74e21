package utils

import (
	"encoding/hex"
	"fmt"

	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/pairing/bn256"
	"go.dedis.ch/kyber/v3/sign/bls"
	"golang.org/x/crypto/sha3"
)

// 多签身份：N 个 BLS 公钥聚合成一个公钥点，身份地址由聚合点推导。
// 聚合签名在同一消息上可用聚合公钥一次校验，
// 因此托管核心看到的永远只是"一个身份 + 一个签名"，不感知签名人数量。

// blsSuite bn256 曲线的 BLS suite（与签名方约定一致）
var blsSuite = bn256.NewSuite()

// ParseBLSPublicKey 反序列化 G2 公钥点
func ParseBLSPublicKey(raw []byte) (kyber.Point, error) {
	p := blsSuite.G2().Point()
	if err := p.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("unmarshal bls pubkey: %w", err)
	}
	return p, nil
}

// AggregateBLSPublicKeys 聚合一组序列化公钥
func AggregateBLSPublicKeys(raws [][]byte) (kyber.Point, error) {
	if len(raws) == 0 {
		return nil, fmt.Errorf("no bls public keys given")
	}
	points := make([]kyber.Point, 0, len(raws))
	for i, raw := range raws {
		p, err := ParseBLSPublicKey(raw)
		if err != nil {
			return nil, fmt.Errorf("pubkey %d: %w", i, err)
		}
		points = append(points, p)
	}
	return bls.AggregatePublicKeys(blsSuite, points...), nil
}

// DeriveMultisigAddress 由聚合公钥推导身份地址（keccak256 后 20 字节）
// 公钥集合相同则地址相同，与顺序无关的要求由调用方排序保证。
func DeriveMultisigAddress(raws [][]byte) (string, error) {
	agg, err := AggregateBLSPublicKeys(raws)
	if err != nil {
		return "", err
	}
	aggRaw, err := agg.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("marshal aggregated pubkey: %w", err)
	}

	hash := sha3.NewLegacyKeccak256()
	hash.Write(aggRaw)
	digest := hash.Sum(nil)
	return "0x" + hex.EncodeToString(digest[12:]), nil
}

// VerifyBLSMultisig 用聚合公钥校验同一消息上的聚合签名
func VerifyBLSMultisig(raws [][]byte, msg, sig []byte) error {
	agg, err := AggregateBLSPublicKeys(raws)
	if err != nil {
		return err
	}
	if err := bls.Verify(blsSuite, agg, msg, sig); err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	return nil
}

// BLSSign 单个参与方对消息签名（测试与 CLI 用）
func BLSSign(priv kyber.Scalar, msg []byte) ([]byte, error) {
	return bls.Sign(blsSuite, priv, msg)
}

// BLSAggregateSignatures 聚合同一消息上的多个签名
func BLSAggregateSignatures(sigs [][]byte) ([]byte, error) {
	return bls.AggregateSignatures(blsSuite, sigs...)
}

// NewBLSKeyPair 生成 BLS 密钥对（测试与 CLI 用）
func NewBLSKeyPair() (kyber.Scalar, kyber.Point) {
	return bls.NewKeyPair(blsSuite, blsSuite.RandomStream())
}
