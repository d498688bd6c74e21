package vm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"vesting/derive"
	"vesting/keys"
)

// ============================================
// 归属计划记录：定长小端二进制布局（对外契约，字段顺序与宽度不可变）
// beneficiary(20) | mint(20) | seed_key(32) | creator(20)
// | amount(8) | claimed(8) | start(8) | cliff(8) | duration(8)
// ============================================

// VestingRecordSize 记录编码后的定长字节数
const VestingRecordSize = 3*derive.AddressSize + derive.SeedKeySize + 5*8

// VestingRecord 一个归属计划的持久化状态
type VestingRecord struct {
	Beneficiary derive.Address
	Mint        derive.Address
	SeedKey     derive.SeedKey
	Creator     derive.Address

	Amount  uint64 // 承诺归属总额
	Claimed uint64 // 受益人已领取累计额
	Start   uint64 // 起始时刻
	Cliff   uint64 // 悬崖期
	Duration uint64 // 总时长，恒大于 0
}

// Encode 编码为定长字节串
func (r *VestingRecord) Encode() []byte {
	buf := make([]byte, VestingRecordSize)
	off := 0

	copy(buf[off:], r.Beneficiary[:])
	off += derive.AddressSize
	copy(buf[off:], r.Mint[:])
	off += derive.AddressSize
	copy(buf[off:], r.SeedKey[:])
	off += derive.SeedKeySize
	copy(buf[off:], r.Creator[:])
	off += derive.AddressSize

	for _, v := range []uint64{r.Amount, r.Claimed, r.Start, r.Cliff, r.Duration} {
		binary.LittleEndian.PutUint64(buf[off:], v)
		off += 8
	}
	return buf
}

// DecodeVestingRecord 解码定长字节串，长度不符即报错
func DecodeVestingRecord(data []byte) (*VestingRecord, error) {
	if len(data) != VestingRecordSize {
		return nil, fmt.Errorf("vesting record: want %d bytes, got %d", VestingRecordSize, len(data))
	}
	r := &VestingRecord{}
	off := 0

	copy(r.Beneficiary[:], data[off:])
	off += derive.AddressSize
	copy(r.Mint[:], data[off:])
	off += derive.AddressSize
	copy(r.SeedKey[:], data[off:])
	off += derive.SeedKeySize
	copy(r.Creator[:], data[off:])
	off += derive.AddressSize

	fields := []*uint64{&r.Amount, &r.Claimed, &r.Start, &r.Cliff, &r.Duration}
	for _, f := range fields {
		*f = binary.LittleEndian.Uint64(data[off:])
		off += 8
	}
	return r, nil
}

// GetVestingRecord 从状态视图读取归属计划记录
// 记录不存在时返回 ErrVestingNotFound
func GetVestingRecord(sv StateView, addr string) (*VestingRecord, error) {
	data, exists, err := sv.Get(keys.KeyVesting(addr))
	if err != nil {
		return nil, err
	}
	if !exists || len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrVestingNotFound, addr)
	}
	return DecodeVestingRecord(data)
}

// ListVestings 扫描全部归属计划，返回 归属地址→记录 映射。
// 键名带版本前缀存储，返回前剥掉前缀还原成裸地址。
func ListVestings(sv StateView) (map[string]*VestingRecord, error) {
	raw, err := sv.Scan(keys.KeyVestingPrefix())
	if err != nil {
		return nil, err
	}
	out := make(map[string]*VestingRecord, len(raw))
	for k, v := range raw {
		rec, err := DecodeVestingRecord(v)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", k, err)
		}
		addr := strings.TrimPrefix(keys.StripVersion(k), "vesting_")
		out[addr] = rec
	}
	return out, nil
}

// VestingRecordWriteOp 生成记录写入操作
func VestingRecordWriteOp(addr string, rec *VestingRecord) WriteOp {
	return WriteOp{
		Key:      keys.KeyVesting(addr),
		Value:    rec.Encode(),
		Category: CategoryVesting,
	}
}
