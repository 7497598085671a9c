package stream

import (
	"encoding/binary"
	"testing"

	"tokenext-sol/internal/consts"
	"tokenext-sol/internal/token"
	"tokenext-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// extendedMint 构造带指定 TLV 扩展的 Token-2022 mint 账户
func extendedMint(mint types.Pubkey, entries map[token.ExtensionType][]byte) *token.Account {
	data := make([]byte, 166)
	data[45] = 1  // is_initialized
	data[165] = 1 // 账户类型: mint
	for typ, record := range entries {
		var head [4]byte
		binary.LittleEndian.PutUint16(head[0:2], uint16(typ))
		binary.LittleEndian.PutUint16(head[2:4], uint16(len(record)))
		data = append(data, head[:]...)
		data = append(data, record...)
	}
	return &token.Account{Pubkey: mint, Owner: consts.TokenProgram2022, Data: data}
}

func pointerBytes(authority, address types.Pubkey) []byte {
	out := make([]byte, 0, 64)
	out = append(out, authority[:]...)
	return append(out, address[:]...)
}

func TestBuildSnapshot(t *testing.T) {
	mint := types.PubkeyFromBase58("So11111111111111111111111111111111111111112")
	var authority, group types.Pubkey
	for i := range authority {
		authority[i] = 0xAA
		group[i] = 0xBB
	}

	acc := extendedMint(mint, map[token.ExtensionType][]byte{
		token.ExtTypeGroupPointer: pointerBytes(authority, group),
	})

	snapshot := buildSnapshot(acc, 100, 7)
	require.NotNil(t, snapshot)
	assert.Equal(t, mint.String(), snapshot.Mint)
	assert.Equal(t, uint64(100), snapshot.Slot)
	assert.Equal(t, uint64(7), snapshot.WriteVersion)
	require.NotNil(t, snapshot.GroupPointer)
	assert.Equal(t, authority.String(), snapshot.GroupPointer.Authority)
	assert.Equal(t, group.String(), snapshot.GroupPointer.Address)
	assert.Nil(t, snapshot.MetadataPointer)
	assert.Nil(t, snapshot.Metadata)
}

func TestBuildSnapshotSkipsUninteresting(t *testing.T) {
	mint := types.PubkeyFromBase58("So11111111111111111111111111111111111111112")

	// owner 不是 Token-2022
	acc := extendedMint(mint, nil)
	acc.Owner = consts.TokenProgram
	assert.Nil(t, buildSnapshot(acc, 1, 0))

	// Token-2022 账户但没有目标扩展
	acc = extendedMint(mint, map[token.ExtensionType][]byte{
		token.ExtTypeMintCloseAuthority: make([]byte, 32),
	})
	assert.Nil(t, buildSnapshot(acc, 1, 0))
}
