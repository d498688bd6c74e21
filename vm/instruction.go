package vm

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"vesting/utils"
)

// ========== 指令定义 ==========

const (
	KindCreateVesting = "create_vesting"
	KindFund          = "fund"
	KindUnlock        = "unlock"
	KindWithdraw      = "withdraw"
)

// 签名方案
const (
	AuthSchemeSecp256k1   = "secp256k1"
	AuthSchemeBLSMultisig = "bls-multisig"
)

// AuthEnvelope 签名信封：入口层据此校验签名并推导签名身份。
// 单签用 secp256k1 ECDSA；多签用 BLS 聚合，身份地址来自聚合公钥，
// 托管核心只见到一个身份地址，不感知签名人数量。
type AuthEnvelope struct {
	Scheme    string   `json:"scheme"`
	PubKeys   []string `json:"pub_keys"`  // 十六进制公钥列表
	Signature string   `json:"signature"` // 十六进制签名
}

// CreateVestingArgs 建立归属计划
type CreateVestingArgs struct {
	Beneficiary string `json:"beneficiary"`
	Mint        string `json:"mint"`
	SeedKey     string `json:"seed_key"`
	Creator     string `json:"creator"`
	Amount      string `json:"amount"`
	Start       uint64 `json:"start"`
	Cliff       uint64 `json:"cliff"`
	Duration    uint64 `json:"duration"`

	// 调用方提供的三个推导账户，指令内重推导并核对
	Vesting    string `json:"vesting"`
	Vault      string `json:"vault"`
	Distribute string `json:"distribute"`
}

// FundArgs 入金：从签名人自己的余额转入金库，出资方即签名身份
type FundArgs struct {
	SeedKey string `json:"seed_key"`
	Vault   string `json:"vault"`
	Amount  string `json:"amount"`
}

// UnlockArgs 解锁：任何人可调用（只会加速向受益人释放）
type UnlockArgs struct {
	SeedKey    string `json:"seed_key"`
	Vesting    string `json:"vesting"`
	Vault      string `json:"vault"`
	Distribute string `json:"distribute"`
	// Now 由执行器在指令开始时从时间源读取一次写入，
	// 指令提交方不得自带时间（DecodeInstruction 拒绝非零值）
	Now uint64 `json:"now,omitempty"`
}

// WithdrawArgs 领取：仅受益人身份可调用
type WithdrawArgs struct {
	SeedKey     string `json:"seed_key"`
	Vesting     string `json:"vesting"`
	Distribute  string `json:"distribute"`
	Destination string `json:"destination"`
	Amount      string `json:"amount"`
}

// Instruction 一条待执行指令（create / fund / unlock / withdraw 四选一）
type Instruction struct {
	ID     string `json:"id"`
	Kind   string `json:"kind,omitempty"`
	Signer string `json:"signer,omitempty"` // 签名身份地址，由入口层校验签名后填充

	Auth *AuthEnvelope `json:"auth,omitempty"`

	Create   *CreateVestingArgs `json:"create,omitempty"`
	Fund     *FundArgs          `json:"fund,omitempty"`
	Unlock   *UnlockArgs        `json:"unlock,omitempty"`
	Withdraw *WithdrawArgs      `json:"withdraw,omitempty"`
}

// DefaultKindFn 默认的KindFn实现：优先看 Kind 字段，否则按填充的参数推断
func DefaultKindFn(ix *Instruction) (string, error) {
	if ix == nil {
		return "", ErrNilInstruction
	}
	if ix.Kind != "" {
		return ix.Kind, nil
	}
	switch {
	case ix.Create != nil:
		return KindCreateVesting, nil
	case ix.Fund != nil:
		return KindFund, nil
	case ix.Unlock != nil:
		return KindUnlock, nil
	case ix.Withdraw != nil:
		return KindWithdraw, nil
	}
	return "", fmt.Errorf("cannot infer ix kind: %s", ix.ID)
}

// SigningDigest 签名摘要：对去掉签名信封后的指令做 sha256
func (ix *Instruction) SigningDigest() ([]byte, error) {
	shadow := *ix
	shadow.Auth = nil
	shadow.Signer = ""
	data, err := json.Marshal(&shadow)
	if err != nil {
		return nil, err
	}
	return utils.Sha256Hash(data), nil
}

// VerifyAuth 校验签名信封并返回签名身份地址。
// 信封缺失时返回错误；嵌入方自行完成鉴权时可直接设置 Signer 跳过本函数。
func (ix *Instruction) VerifyAuth() (string, error) {
	if ix.Auth == nil {
		return "", fmt.Errorf("missing auth envelope")
	}
	digest, err := ix.SigningDigest()
	if err != nil {
		return "", err
	}
	sig, err := hex.DecodeString(ix.Auth.Signature)
	if err != nil {
		return "", fmt.Errorf("decode signature: %w", err)
	}

	switch ix.Auth.Scheme {
	case AuthSchemeSecp256k1:
		if len(ix.Auth.PubKeys) != 1 {
			return "", fmt.Errorf("secp256k1 auth wants exactly 1 pubkey, got %d", len(ix.Auth.PubKeys))
		}
		pub, err := utils.ParsePubKey(ix.Auth.PubKeys[0])
		if err != nil {
			return "", err
		}
		if err := utils.VerifySignature(pub, digest, sig); err != nil {
			return "", err
		}
		return utils.DeriveAddress(pub), nil

	case AuthSchemeBLSMultisig:
		raws := make([][]byte, 0, len(ix.Auth.PubKeys))
		for i, p := range ix.Auth.PubKeys {
			raw, err := hex.DecodeString(p)
			if err != nil {
				return "", fmt.Errorf("decode bls pubkey %d: %w", i, err)
			}
			raws = append(raws, raw)
		}
		if err := utils.VerifyBLSMultisig(raws, digest, sig); err != nil {
			return "", err
		}
		return utils.DeriveMultisigAddress(raws)
	}
	return "", fmt.Errorf("unknown auth scheme: %q", ix.Auth.Scheme)
}

// DecodeInstruction 解析 JSON 指令并完成入口层鉴权：
// Signer 只能来自签名信封校验的结果，载荷里直接写的 signer 一律丢弃；
// unlock 的时间由执行器从时间源读取，提交方自带的 now 直接拒绝。
// ID 缺省用载荷短哈希。
func DecodeInstruction(raw []byte) (*Instruction, error) {
	var ix Instruction
	if err := json.Unmarshal(raw, &ix); err != nil {
		return nil, fmt.Errorf("decode instruction: %w", err)
	}
	if ix.ID == "" {
		ix.ID = utils.ShortID(raw)
	}
	if ix.Unlock != nil && ix.Unlock.Now != 0 {
		return nil, fmt.Errorf("instruction %s: unlock time is assigned by the engine, not the submitter", ix.ID)
	}

	// 未经校验的 signer 字段不构成任何身份
	ix.Signer = ""
	if ix.Auth != nil {
		signer, err := ix.VerifyAuth()
		if err != nil {
			return nil, fmt.Errorf("instruction %s: %w", ix.ID, err)
		}
		ix.Signer = signer
	}
	return &ix, nil
}
