package token

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func borshString(s string) []byte {
	out := make([]byte, 4, 4+len(s))
	binary.LittleEndian.PutUint32(out, uint32(len(s)))
	return append(out, s...)
}

func TestTokenMetadataFromAccount(t *testing.T) {
	updateAuthority := repeatByte(0xEE)
	mint := repeatByte(0x11)

	// borsh 布局: update_authority[32] + mint[32] + name + symbol + uri + vec<(string,string)>
	record := make([]byte, 0, 160)
	record = append(record, updateAuthority[:]...)
	record = append(record, mint[:]...)
	record = append(record, borshString("Wrapped Example")...)
	record = append(record, borshString("wEX")...)
	record = append(record, borshString("https://example.com/meta.json")...)
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], 1)
	record = append(record, count[:]...)
	record = append(record, borshString("tier")...)
	record = append(record, borshString("gold")...)

	acc := ownedMint(buildExtendedMintData(
		tlvEntry{typ: ExtTypeTokenMetadata, data: record},
	))

	md, err := TokenMetadataFromAccount(acc)
	require.NoError(t, err)
	assert.Equal(t, updateAuthority, md.UpdateAuthority)
	assert.Equal(t, mint, md.Mint)
	assert.Equal(t, "Wrapped Example", md.Name)
	assert.Equal(t, "wEX", md.Symbol)
	assert.Equal(t, "https://example.com/meta.json", md.Uri)
	require.Len(t, md.AdditionalMetadata, 1)
	assert.Equal(t, KeyValue{Key: "tier", Value: "gold"}, md.AdditionalMetadata[0])
}

func TestTokenMetadataFromAccountInvalid(t *testing.T) {
	// 扩展缺失
	acc := ownedMint(buildExtendedMintData())
	_, err := TokenMetadataFromAccount(acc)
	assert.ErrorIs(t, err, ErrInvalidAccountData)

	// borsh 数据截断
	acc = ownedMint(buildExtendedMintData(
		tlvEntry{typ: ExtTypeTokenMetadata, data: make([]byte, 40)},
	))
	_, err = TokenMetadataFromAccount(acc)
	assert.ErrorIs(t, err, ErrInvalidAccountData)
}
