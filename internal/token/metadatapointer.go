package token

import (
	"context"
	"fmt"

	"tokenext-sol/internal/consts"
	"tokenext-sol/internal/cpi"
	"tokenext-sol/internal/types"

	sdktypes "github.com/blocto/solana-go-sdk/types"
)

// MetadataPointer 扩展记录：指向持有 token metadata 的账户。
// 与 GroupPointer 同构，固定 64 字节: [0:32] authority, [32:64] metadata_address。
const MetadataPointerLen = 64

const (
	metadataPointerIxFamily     byte = 39
	metadataPointerIxInitialize byte = 0
	metadataPointerIxUpdate     byte = 1
)

// MetadataPointer 是对账户数据中扩展记录的只读视图，借用底层切片，不做拷贝。
type MetadataPointer struct {
	data []byte
}

// MetadataPointerFromAccount 从账户快照中提取 MetadataPointer 记录。
// 校验顺序与 GroupPointerFromAccount 一致：先 owner，后扩展索引与固定长度。
func MetadataPointerFromAccount(acc *Account) (MetadataPointer, error) {
	if !acc.IsOwnedBy(consts.TokenProgram2022) {
		return MetadataPointer{}, fmt.Errorf("metadata pointer: account %s owned by %s: %w",
			acc.Pubkey, acc.Owner, ErrInvalidAccountOwner)
	}
	ext, ok := extensionData(acc.Data, ExtTypeMetadataPointer)
	if !ok || len(ext) != MetadataPointerLen {
		return MetadataPointer{}, fmt.Errorf("metadata pointer: account %s: %w", acc.Pubkey, ErrInvalidAccountData)
	}
	return MetadataPointer{data: ext}, nil
}

// Authority 可以更新 metadata 地址的权限账户。全零表示未设置。
func (mp MetadataPointer) Authority() types.Pubkey {
	pk, _ := types.PubkeyFromBytes(mp.data[0:32])
	return pk
}

// MetadataAddress 持有 metadata 的账户地址。全零表示未设置。
func (mp MetadataPointer) MetadataAddress() types.Pubkey {
	pk, _ := types.PubkeyFromBytes(mp.data[32:64])
	return pk
}

// InitializeMetadataPointer 构造 MetadataPointer 的 Initialize 指令（66 字节 payload）。
type InitializeMetadataPointer struct {
	Mint            *Account      // metadata pointer 所属的 mint
	Authority       *types.Pubkey // 可更新 metadata 地址的权限账户，可选
	MetadataAddress *types.Pubkey // 持有 metadata 的账户地址，可选
}

// Build 验证 mint owner 后编码指令。
// 指令数据布局:
// -  [0] u8: 指令族 discriminator (39)
// -  [1] u8: 扩展操作 discriminator (0 = Initialize)
// -  [2..34] authority
// -  [34..66] metadata_address
func (ix *InitializeMetadataPointer) Build() (sdktypes.Instruction, error) {
	if !ix.Mint.IsOwnedBy(consts.TokenProgram2022) {
		return sdktypes.Instruction{}, fmt.Errorf("initialize metadata pointer: mint %s owned by %s: %w",
			ix.Mint.Pubkey, ix.Mint.Owner, ErrInvalidAccountOwner)
	}

	var data [66]byte
	data[0] = metadataPointerIxFamily
	data[1] = metadataPointerIxInitialize
	authority := optionalPubkey(ix.Authority)
	copy(data[2:34], authority[:])
	metadataAddress := optionalPubkey(ix.MetadataAddress)
	copy(data[34:66], metadataAddress[:])

	return sdktypes.Instruction{
		ProgramID: consts.TokenProgram2022.ToSDK(),
		Accounts: []sdktypes.AccountMeta{
			{PubKey: ix.Mint.Pubkey.ToSDK(), IsWritable: true},
		},
		Data: data[:],
	}, nil
}

// Invoke 构造指令并通过 CPI 通道发出，单次尝试，失败原样上抛。
func (ix *InitializeMetadataPointer) Invoke(ctx context.Context, inv cpi.Invoker, signers ...sdktypes.Account) error {
	instruction, err := ix.Build()
	if err != nil {
		return err
	}
	return inv.Invoke(ctx, instruction, signers)
}

// UpdateMetadataPointer 构造 MetadataPointer 的 Update 指令（34 字节 payload）。
// 账户顺序 [mint(writable), authority(readonly+signer)] 是协议的一部分。
type UpdateMetadataPointer struct {
	Mint            *Account      // metadata pointer 所属的 mint
	Authority       *Account      // 当前权限账户，必须签名
	MetadataAddress *types.Pubkey // 新的 metadata 账户地址，可选
}

// Build 验证 mint owner 后编码指令。
// 指令数据布局:
// -  [0] u8: 指令族 discriminator (39)
// -  [1] u8: 扩展操作 discriminator (1 = Update)
// -  [2..34] metadata_address
func (ix *UpdateMetadataPointer) Build() (sdktypes.Instruction, error) {
	if !ix.Mint.IsOwnedBy(consts.TokenProgram2022) {
		return sdktypes.Instruction{}, fmt.Errorf("update metadata pointer: mint %s owned by %s: %w",
			ix.Mint.Pubkey, ix.Mint.Owner, ErrInvalidAccountOwner)
	}

	var data [34]byte
	data[0] = metadataPointerIxFamily
	data[1] = metadataPointerIxUpdate
	metadataAddress := optionalPubkey(ix.MetadataAddress)
	copy(data[2:34], metadataAddress[:])

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
func (ix *UpdateMetadataPointer) Invoke(ctx context.Context, inv cpi.Invoker, signers ...sdktypes.Account) error {
	instruction, err := ix.Build()
	if err != nil {
		return err
	}
	return inv.Invoke(ctx, instruction, signers)
}
