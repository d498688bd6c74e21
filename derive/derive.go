// derive/derive.go
// 托管账户地址推导：给定角色标签 + seed key，确定性推导出唯一地址。
// 任何调用方都可以独立重算并校验，推导输入包含角色标签，
// 因此同一 seed key 下三个角色的地址互不碰撞。
package derive

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Role 托管账户角色标签，参与地址推导
type Role string

const (
	RoleVesting    Role = "VESTING"    // 归属计划记录
	RoleVault      Role = "VAULT"      // 锁仓金库（程序控制）
	RoleDistribute Role = "DISTRIBUTE" // 已解锁待领取账户（受益人控制）
)

// programTag 程序命名空间，确保本引擎推导出的地址不会与外部键空间混淆
const programTag = "vesting-engine/v1"

// AddressSize 地址字节数（keccak256 摘要的后 20 字节）
const AddressSize = 20

// SeedKeySize seed key 字节数
const SeedKeySize = 32

var (
	// ErrInvalidAccountDerivation 调用方提供的账户与期望推导地址/所有者不符
	ErrInvalidAccountDerivation = errors.New("invalid account derivation")
	// ErrInvalidRole 未知的角色标签
	ErrInvalidRole = errors.New("invalid role tag")
)

// Address 20 字节地址
type Address [AddressSize]byte

// SeedKey 调用方选定的 32 字节唯一键
type SeedKey [SeedKeySize]byte

// Hex 输出 0x 前缀的十六进制地址
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero 是否为零地址
func (a Address) IsZero() bool {
	return a == Address{}
}

// Hex 输出 0x 前缀的十六进制 seed key
func (s SeedKey) Hex() string {
	return "0x" + hex.EncodeToString(s[:])
}

// ParseAddress 解析 0x 前缀（可省略）的十六进制地址
func ParseAddress(s string) (Address, error) {
	var a Address
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return a, fmt.Errorf("parse address %q: %w", s, err)
	}
	if len(raw) != AddressSize {
		return a, fmt.Errorf("parse address %q: want %d bytes, got %d", s, AddressSize, len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// ParseSeedKey 解析 0x 前缀（可省略）的十六进制 seed key
func ParseSeedKey(s string) (SeedKey, error) {
	var k SeedKey
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return k, fmt.Errorf("parse seed key %q: %w", s, err)
	}
	if len(raw) != SeedKeySize {
		return k, fmt.Errorf("parse seed key %q: want %d bytes, got %d", s, SeedKeySize, len(raw))
	}
	copy(k[:], raw)
	return k, nil
}

// validRole 角色标签白名单
func validRole(role Role) bool {
	switch role {
	case RoleVesting, RoleVault, RoleDistribute:
		return true
	}
	return false
}

// keccakAddress 对输入做 keccak256，取后 20 字节作为地址（以太坊风格）
func keccakAddress(parts ...[]byte) Address {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	digest := h.Sum(nil)

	var a Address
	copy(a[:], digest[12:])
	return a
}

// ProgramID 程序自身的身份地址，作为金库账户的转账权限所有者
func ProgramID() Address {
	return keccakAddress([]byte(programTag), []byte("PROGRAM"))
}

// Derive 推导某角色在给定 seed key 下的唯一地址
func Derive(role Role, seed SeedKey) (Address, error) {
	if !validRole(role) {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return keccakAddress([]byte(programTag), []byte(role), seed[:]), nil
}

// MustDerive Derive 的 panic 版本，仅用于角色标签为编译期常量的场景
func MustDerive(role Role, seed SeedKey) Address {
	a, err := Derive(role, seed)
	if err != nil {
		panic(err)
	}
	return a
}

// Check 校验调用方提供的地址是否与期望推导一致。
// 每条指令收到的每个托管账户都必须经过这里，防止被替换为别的归属计划的账户。
func Check(role Role, seed SeedKey, got Address) error {
	want, err := Derive(role, seed)
	if err != nil {
		return err
	}
	if !bytes.Equal(want[:], got[:]) {
		return fmt.Errorf("%w: role %s expected %s, got %s", ErrInvalidAccountDerivation, role, want.Hex(), got.Hex())
	}
	return nil
}

// CheckHex Check 的十六进制入参版本，供指令层直接使用
func CheckHex(role Role, seed SeedKey, gotHex string) (Address, error) {
	got, err := ParseAddress(gotHex)
	if err != nil {
		return Address{}, fmt.Errorf("%w: role %s: %v", ErrInvalidAccountDerivation, role, err)
	}
	if err := Check(role, seed, got); err != nil {
		return Address{}, err
	}
	return got, nil
}
