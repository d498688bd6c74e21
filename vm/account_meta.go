package vm

import (
	"encoding/json"
	"fmt"

	"vesting/derive"
	"vesting/keys"
)

// ============================================
// 托管账户元数据
// create 时写入一次，记录账户角色与转账权限所有者；
// 此后每条指令都要重推导地址并核对所有者/币种，两者不符均按推导错误处理
// ============================================

// AccountMeta 托管账户的角色与权限归属
type AccountMeta struct {
	Address string `json:"address"`
	Role    string `json:"role"`     // VAULT / DISTRIBUTE
	Owner   string `json:"owner"`    // 转账权限所有者身份地址
	Mint    string `json:"mint"`     // 托管币种
	SeedKey string `json:"seed_key"` // 所属归属计划
}

// GetAccountMeta 读取托管账户元数据，不存在返回 (nil, nil)
func GetAccountMeta(sv StateView, addr string) (*AccountMeta, error) {
	data, exists, err := sv.Get(keys.KeyAccountMeta(addr))
	if err != nil {
		return nil, err
	}
	if !exists || len(data) == 0 {
		return nil, nil
	}
	var meta AccountMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse account meta %s: %w", addr, err)
	}
	return &meta, nil
}

// AccountMetaWriteOp 生成元数据写入操作
func AccountMetaWriteOp(meta *AccountMeta) WriteOp {
	data, _ := json.Marshal(meta)
	return WriteOp{
		Key:      keys.KeyAccountMeta(meta.Address),
		Value:    data,
		Category: CategoryMeta,
	}
}

// checkCustodyAccount 校验调用方提供的托管账户：
// 1. 地址与 (role, seed) 的推导一致
// 2. 元数据存在且所有者、币种与期望一致
// 所有不符都归入 derive.ErrInvalidAccountDerivation 一类
func checkCustodyAccount(sv StateView, role derive.Role, seed derive.SeedKey, suppliedHex, wantOwner, wantMint string) (string, error) {
	addr, err := derive.CheckHex(role, seed, suppliedHex)
	if err != nil {
		return "", err
	}

	meta, err := GetAccountMeta(sv, addr.Hex())
	if err != nil {
		return "", err
	}
	if meta == nil {
		return "", fmt.Errorf("%w: %s account %s not initialized", derive.ErrInvalidAccountDerivation, role, addr.Hex())
	}
	if meta.Role != string(role) {
		return "", fmt.Errorf("%w: account %s has role %s, want %s", derive.ErrInvalidAccountDerivation, addr.Hex(), meta.Role, role)
	}
	if wantOwner != "" && meta.Owner != wantOwner {
		return "", fmt.Errorf("%w: account %s owned by %s, want %s", derive.ErrInvalidAccountDerivation, addr.Hex(), meta.Owner, wantOwner)
	}
	if wantMint != "" && meta.Mint != wantMint {
		return "", fmt.Errorf("%w: account %s holds mint %s, want %s", derive.ErrInvalidAccountDerivation, addr.Hex(), meta.Mint, wantMint)
	}
	return addr.Hex(), nil
}
