package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnapshotFields(t *testing.T) {
	slot, payload, err := parseSnapshotFields([]interface{}{"12345", "body"})
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), slot)
	assert.Equal(t, []byte("body"), payload)
}

func TestParseSnapshotFieldsMiss(t *testing.T) {
	// 未命中（字段缺失）不是错误
	for _, vals := range [][]interface{}{
		nil,
		{nil, nil},
		{"12345", nil},
		{nil, "body"},
	} {
		slot, payload, err := parseSnapshotFields(vals)
		require.NoError(t, err)
		assert.Zero(t, slot)
		assert.Nil(t, payload)
	}
}

func TestParseSnapshotFieldsCorrupt(t *testing.T) {
	// slot 非十进制数字
	_, _, err := parseSnapshotFields([]interface{}{"not-a-number", "body"})
	assert.ErrorIs(t, err, ErrCorruptSnapshot)

	// 字段类型不是 string 时不能 panic，按记录损坏上报
	_, _, err = parseSnapshotFields([]interface{}{int64(1), "body"})
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
	_, _, err = parseSnapshotFields([]interface{}{"1", int64(2)})
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}
