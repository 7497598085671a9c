package token

import (
	"encoding/binary"
	"testing"

	"tokenext-sol/internal/consts"
	"tokenext-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildBaseMintData(mintAuthority *types.Pubkey, supply uint64, decimals uint8) []byte {
	data := make([]byte, BaseMintLen)
	if mintAuthority != nil {
		binary.LittleEndian.PutUint32(data[0:4], 1)
		copy(data[4:36], mintAuthority[:])
	}
	binary.LittleEndian.PutUint64(data[36:44], supply)
	data[44] = decimals
	data[45] = 1
	return data
}

func TestMintFromAccount(t *testing.T) {
	authority := repeatByte(0xAA)
	acc := ownedMint(buildBaseMintData(&authority, 1_000_000, 9))

	m, err := MintFromAccount(acc)
	require.NoError(t, err)
	require.NotNil(t, m.MintAuthority)
	assert.Equal(t, authority, *m.MintAuthority)
	assert.Equal(t, uint64(1_000_000), m.Supply)
	assert.Equal(t, uint8(9), m.Decimals)
	assert.True(t, m.IsInitialized)
	assert.Nil(t, m.FreezeAuthority)
}

func TestMintFromAccountNoAuthority(t *testing.T) {
	// COption 为 None 时 32 字节槽位仍然存在，只是全零
	acc := ownedMint(buildBaseMintData(nil, 0, 6))
	acc.Owner = consts.TokenProgram // 旧版 Token 程序同样接受

	m, err := MintFromAccount(acc)
	require.NoError(t, err)
	assert.Nil(t, m.MintAuthority)
}

func TestMintFromAccountInvalid(t *testing.T) {
	acc := ownedMint(buildBaseMintData(nil, 0, 6))
	acc.Owner = consts.SystemProgram
	_, err := MintFromAccount(acc)
	assert.ErrorIs(t, err, ErrInvalidAccountOwner)

	short := ownedMint(make([]byte, BaseMintLen-1))
	_, err = MintFromAccount(short)
	assert.ErrorIs(t, err, ErrInvalidAccountData)
}
