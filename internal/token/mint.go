package token

import (
	"encoding/binary"
	"fmt"

	"tokenext-sol/internal/consts"
	"tokenext-sol/internal/types"
)

// Mint 表示 mint 账户的 82 字节基础状态。
// 布局（小端序）:
// -  [0..4]   u32: mint_authority COption tag (0 = None, 1 = Some)
// -  [4..36]  mint_authority
// -  [36..44] u64: supply
// -  [44]     u8: decimals
// -  [45]     u8: is_initialized
// -  [46..50] u32: freeze_authority COption tag
// -  [50..82] freeze_authority
type Mint struct {
	MintAuthority   *types.Pubkey // 铸币权限，可为空
	Supply          uint64        // 总供应量（最小单位）
	Decimals        uint8         // 精度
	IsInitialized   bool          // 是否已初始化
	FreezeAuthority *types.Pubkey // 冻结权限，可为空
}

// MintFromAccount 从账户快照中解码 mint 基础状态。
// owner 必须是 Token 或 Token-2022 程序；数据长度不足 82 字节按数据错误处理。
func MintFromAccount(acc *Account) (*Mint, error) {
	if !acc.IsOwnedBy(consts.TokenProgram2022) && !acc.IsOwnedBy(consts.TokenProgram) {
		return nil, fmt.Errorf("mint: account %s owned by %s: %w", acc.Pubkey, acc.Owner, ErrInvalidAccountOwner)
	}
	return unpackMint(acc.Data)
}

func unpackMint(data []byte) (*Mint, error) {
	if len(data) < BaseMintLen {
		return nil, fmt.Errorf("mint: data length %d < %d: %w", len(data), BaseMintLen, ErrInvalidAccountData)
	}
	m := &Mint{
		Supply:        binary.LittleEndian.Uint64(data[36:44]),
		Decimals:      data[44],
		IsInitialized: data[45] == 1,
	}
	var err error
	if m.MintAuthority, err = unpackCOptionPubkey(data[0:36]); err != nil {
		return nil, fmt.Errorf("mint authority: %w", err)
	}
	if m.FreezeAuthority, err = unpackCOptionPubkey(data[46:82]); err != nil {
		return nil, fmt.Errorf("freeze authority: %w", err)
	}
	return m, nil
}

// unpackCOptionPubkey 解码 36 字节的 COption<Pubkey>: [u32 tag][32 字节地址]。
// tag 为 None 时 32 字节槽位仍然存在（全零），线格式无变长编码。
func unpackCOptionPubkey(data []byte) (*types.Pubkey, error) {
	switch binary.LittleEndian.Uint32(data[0:4]) {
	case 0:
		return nil, nil
	case 1:
		pk, err := types.PubkeyFromBytes(data[4:36])
		if err != nil {
			return nil, err
		}
		return &pk, nil
	default:
		return nil, fmt.Errorf("bad COption tag: %w", ErrInvalidAccountData)
	}
}
