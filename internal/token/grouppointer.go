package token

import (
	"context"
	"fmt"

	"tokenext-sol/internal/consts"
	"tokenext-sol/internal/cpi"
	"tokenext-sol/internal/types"

	sdktypes "github.com/blocto/solana-go-sdk/types"
)

// GroupPointer 扩展记录固定 64 字节: [0:32] authority, [32:64] group_address。
// 字段顺序与偏移是线格式的一部分。
const GroupPointerLen = 64

// Token-2022 指令 discriminator。
// [0] 为指令族（GroupPointerExtension = 40），[1] 为族内操作。
const (
	groupPointerIxFamily     byte = 40
	groupPointerIxInitialize byte = 0
	groupPointerIxUpdate     byte = 1
)

// GroupPointer 是对账户数据中扩展记录的只读视图，借用底层切片，不做拷贝。
// 视图的有效期不得超过底层账户数据。
type GroupPointer struct {
	data []byte
}

// GroupPointerFromAccount 从账户快照中提取 GroupPointer 记录。
// 先验证 owner（未验证前不解读任何字节），再在扩展索引中按类型与固定长度定位记录。
func GroupPointerFromAccount(acc *Account) (GroupPointer, error) {
	if !acc.IsOwnedBy(consts.TokenProgram2022) {
		return GroupPointer{}, fmt.Errorf("group pointer: account %s owned by %s: %w",
			acc.Pubkey, acc.Owner, ErrInvalidAccountOwner)
	}
	ext, ok := extensionData(acc.Data, ExtTypeGroupPointer)
	if !ok || len(ext) != GroupPointerLen {
		return GroupPointer{}, fmt.Errorf("group pointer: account %s: %w", acc.Pubkey, ErrInvalidAccountData)
	}
	return GroupPointer{data: ext}, nil
}

// Authority 可以更新 group 地址的权限账户。全零表示未设置。
func (gp GroupPointer) Authority() types.Pubkey {
	pk, _ := types.PubkeyFromBytes(gp.data[0:32])
	return pk
}

// GroupAddress 持有 group 配置的账户地址。全零表示未设置。
func (gp GroupPointer) GroupAddress() types.Pubkey {
	pk, _ := types.PubkeyFromBytes(gp.data[32:64])
	return pk
}

// InitializeGroupPointer 构造 GroupPointer 的 Initialize 指令。
// 可选字段为 nil 时编码为全零哨兵地址，payload 长度恒为 66 字节。
type InitializeGroupPointer struct {
	Mint         *Account      // group pointer 所属的 mint
	Authority    *types.Pubkey // 可更新 group 地址的权限账户，可选
	GroupAddress *types.Pubkey // 持有 group 配置的账户地址，可选
}

// Build 验证 mint owner 后编码指令。
// 指令数据布局:
// -  [0] u8: 指令族 discriminator (40)
// -  [1] u8: 扩展操作 discriminator (0 = Initialize)
// -  [2..34] authority
// -  [34..66] group_address
func (ix *InitializeGroupPointer) Build() (sdktypes.Instruction, error) {
	if !ix.Mint.IsOwnedBy(consts.TokenProgram2022) {
		return sdktypes.Instruction{}, fmt.Errorf("initialize group pointer: mint %s owned by %s: %w",
			ix.Mint.Pubkey, ix.Mint.Owner, ErrInvalidAccountOwner)
	}

	var data [66]byte
	data[0] = groupPointerIxFamily
	data[1] = groupPointerIxInitialize
	authority := optionalPubkey(ix.Authority)
	copy(data[2:34], authority[:])
	groupAddress := optionalPubkey(ix.GroupAddress)
	copy(data[34:66], groupAddress[:])

	return sdktypes.Instruction{
		ProgramID: consts.TokenProgram2022.ToSDK(),
		Accounts: []sdktypes.AccountMeta{
			{PubKey: ix.Mint.Pubkey.ToSDK(), IsWritable: true},
		},
		Data: data[:],
	}, nil
}

// Invoke 构造指令并通过 CPI 通道发出，单次尝试，失败原样上抛。
func (ix *InitializeGroupPointer) Invoke(ctx context.Context, inv cpi.Invoker, signers ...sdktypes.Account) error {
	instruction, err := ix.Build()
	if err != nil {
		return err
	}
	return inv.Invoke(ctx, instruction, signers)
}

// UpdateGroupPointer 构造 GroupPointer 的 Update 指令。
// payload 长度恒为 34 字节；账户顺序 [mint(writable), authority(readonly+signer)]
// 是协议的一部分，交换顺序或标志位会被链上程序拒绝或误读。
type UpdateGroupPointer struct {
	Mint         *Account      // group pointer 所属的 mint
	Authority    *Account      // 当前权限账户，必须签名
	GroupAddress *types.Pubkey // 新的 group 配置账户地址，可选
}

// Build 验证 mint owner 后编码指令。
// 指令数据布局:
// -  [0] u8: 指令族 discriminator (40)
// -  [1] u8: 扩展操作 discriminator (1 = Update)
// -  [2..34] group_address
func (ix *UpdateGroupPointer) Build() (sdktypes.Instruction, error) {
	if !ix.Mint.IsOwnedBy(consts.TokenProgram2022) {
		return sdktypes.Instruction{}, fmt.Errorf("update group pointer: mint %s owned by %s: %w",
			ix.Mint.Pubkey, ix.Mint.Owner, ErrInvalidAccountOwner)
	}

	var data [34]byte
	data[0] = groupPointerIxFamily
	data[1] = groupPointerIxUpdate
	groupAddress := optionalPubkey(ix.GroupAddress)
	copy(data[2:34], groupAddress[:])

	return sdktypes.Instruction{
		ProgramID: consts.TokenProgram2022.ToSDK(),
		Accounts: []sdktypes.AccountMeta{
			{PubKey: ix.Mint.Pubkey.ToSDK(), IsWritable: true},
			{PubKey: ix.Authority.Pubkey.ToSDK(), IsSigner: true},
		},
		Data: data[:],
	}, nil
}

// Invoke 构造指令并通过 CPI 通道发出，单次尝试，失败原样上抛。
func (ix *UpdateGroupPointer) Invoke(ctx context.Context, inv cpi.Invoker, signers ...sdktypes.Account) error {
	instruction, err := ix.Build()
	if err != nil {
		return err
	}
	return inv.Invoke(ctx, instruction, signers)
}
