package token

import (
	"context"
	"errors"
	"testing"

	"tokenext-sol/internal/consts"
	"tokenext-sol/internal/types"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingInvoker 记录发出的指令与签名者，替代真实 RPC 通道
type recordingInvoker struct {
	ix      sdktypes.Instruction
	signers []sdktypes.Account
	err     error
}

func (r *recordingInvoker) Invoke(ctx context.Context, ix sdktypes.Instruction, signers []sdktypes.Account) error {
	r.ix = ix
	r.signers = signers
	return r.err
}

// wallet 构造一个普通（非 Token-2022）账户，仅携带地址
func wallet(pubkey types.Pubkey) *Account {
	return &Account{Pubkey: pubkey, Owner: consts.SystemProgram}
}

func TestGroupPointerFromAccount(t *testing.T) {
	authority := repeatByte(0xAA)
	groupAddress := repeatByte(0xBB)
	acc := ownedMint(buildExtendedMintData(
		tlvEntry{typ: ExtTypeGroupPointer, data: pointerRecord(authority, groupAddress)},
	))

	gp, err := GroupPointerFromAccount(acc)
	require.NoError(t, err)
	assert.Equal(t, authority, gp.Authority())
	assert.Equal(t, groupAddress, gp.GroupAddress())
}

func TestGroupPointerFromAccountInvalidOwner(t *testing.T) {
	acc := ownedMint(buildExtendedMintData(
		tlvEntry{typ: ExtTypeGroupPointer, data: pointerRecord(repeatByte(0xAA), repeatByte(0xBB))},
	))
	// owner 不是 Token-2022，数据再合法也必须拒绝
	acc.Owner = consts.TokenProgram

	_, err := GroupPointerFromAccount(acc)
	assert.ErrorIs(t, err, ErrInvalidAccountOwner)
}

func TestGroupPointerFromAccountInvalidData(t *testing.T) {
	// owner 正确但没有 GroupPointer 扩展
	acc := ownedMint(buildExtendedMintData(
		tlvEntry{typ: ExtTypeMintCloseAuthority, data: make([]byte, 32)},
	))
	_, err := GroupPointerFromAccount(acc)
	assert.ErrorIs(t, err, ErrInvalidAccountData)

	// 扩展存在但长度与固定布局不符
	acc = ownedMint(buildExtendedMintData(
		tlvEntry{typ: ExtTypeGroupPointer, data: make([]byte, GroupPointerLen-1)},
	))
	_, err = GroupPointerFromAccount(acc)
	assert.ErrorIs(t, err, ErrInvalidAccountData)
}

func TestInitializeGroupPointerBuild(t *testing.T) {
	mint := ownedMint(buildExtendedMintData())
	authority := repeatByte(0xAA)
	groupAddress := repeatByte(0xBB)

	ix, err := (&InitializeGroupPointer{
		Mint:         mint,
		Authority:    &authority,
		GroupAddress: &groupAddress,
	}).Build()
	require.NoError(t, err)

	assert.Equal(t, consts.TokenProgram2022.ToSDK(), ix.ProgramID)

	// payload 恒为 66 字节: [40, 0, authority, group_address]
	require.Len(t, ix.Data, 66)
	assert.Equal(t, byte(40), ix.Data[0])
	assert.Equal(t, byte(0), ix.Data[1])
	assert.Equal(t, authority[:], ix.Data[2:34])
	assert.Equal(t, groupAddress[:], ix.Data[34:66])

	// 账户列表: 仅 mint，writable
	require.Len(t, ix.Accounts, 1)
	assert.Equal(t, mint.Pubkey.ToSDK(), ix.Accounts[0].PubKey)
	assert.True(t, ix.Accounts[0].IsWritable)
	assert.False(t, ix.Accounts[0].IsSigner)
}

func TestInitializeGroupPointerOptionalFields(t *testing.T) {
	ix, err := (&InitializeGroupPointer{Mint: ownedMint(buildExtendedMintData())}).Build()
	require.NoError(t, err)

	// 可选字段缺省编码为全零哨兵地址，payload 不缩短
	require.Len(t, ix.Data, 66)
	assert.Equal(t, make([]byte, 32), ix.Data[2:34])
	assert.Equal(t, make([]byte, 32), ix.Data[34:66])
}

func TestInitializeGroupPointerInvalidOwner(t *testing.T) {
	mint := ownedMint(buildExtendedMintData())
	mint.Owner = consts.TokenProgram

	// owner 校验先于一切编码
	_, err := (&InitializeGroupPointer{Mint: mint}).Build()
	assert.ErrorIs(t, err, ErrInvalidAccountOwner)

	inv := &recordingInvoker{}
	err = (&InitializeGroupPointer{Mint: mint}).Invoke(context.Background(), inv)
	assert.ErrorIs(t, err, ErrInvalidAccountOwner)
	assert.Empty(t, inv.ix.Data) // 通道未被触达
}

func TestUpdateGroupPointerBuild(t *testing.T) {
	mint := ownedMint(buildExtendedMintData())
	authority := wallet(repeatByte(0x22))
	groupAddress := repeatByte(0xBB)

	ix, err := (&UpdateGroupPointer{
		Mint:         mint,
		Authority:    authority,
		GroupAddress: &groupAddress,
	}).Build()
	require.NoError(t, err)

	// payload 恒为 34 字节: [40, 1, group_address]
	require.Len(t, ix.Data, 34)
	assert.Equal(t, byte(40), ix.Data[0])
	assert.Equal(t, byte(1), ix.Data[1])
	assert.Equal(t, groupAddress[:], ix.Data[2:34])

	// 账户顺序是协议的一部分: [mint(writable), authority(readonly+signer)]
	require.Len(t, ix.Accounts, 2)
	assert.Equal(t, mint.Pubkey.ToSDK(), ix.Accounts[0].PubKey)
	assert.True(t, ix.Accounts[0].IsWritable)
	assert.False(t, ix.Accounts[0].IsSigner)
	assert.Equal(t, authority.Pubkey.ToSDK(), ix.Accounts[1].PubKey)
	assert.False(t, ix.Accounts[1].IsWritable)
	assert.True(t, ix.Accounts[1].IsSigner)
}

func TestUpdateGroupPointerSentinel(t *testing.T) {
	ix, err := (&UpdateGroupPointer{
		Mint:      ownedMint(buildExtendedMintData()),
		Authority: wallet(repeatByte(0x22)),
	}).Build()
	require.NoError(t, err)

	require.Len(t, ix.Data, 34)
	assert.Equal(t, make([]byte, 32), ix.Data[2:34])
}

func TestGroupPointerInvoke(t *testing.T) {
	mint := ownedMint(buildExtendedMintData())
	groupAddress := repeatByte(0xBB)
	inv := &recordingInvoker{}

	err := (&InitializeGroupPointer{Mint: mint, GroupAddress: &groupAddress}).Invoke(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, byte(40), inv.ix.Data[0])
	assert.Empty(t, inv.signers)

	// 通道错误原样上抛，不重试
	sentinel := errors.New("send failed")
	inv = &recordingInvoker{err: sentinel}
	err = (&UpdateGroupPointer{Mint: mint, Authority: wallet(repeatByte(0x22))}).Invoke(context.Background(), inv)
	assert.ErrorIs(t, err, sentinel)
}
