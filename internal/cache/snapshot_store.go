package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tokenext-sol/internal/types"

	"github.com/redis/go-redis/v9"
)

// ErrCorruptSnapshot 快照记录字段类型或内容与写入格式不符。
var ErrCorruptSnapshot = errors.New("corrupt snapshot record")

// SnapshotStore 按 mint 保存最近一次扩展快照。
// slot 只增不减：乱序到达的旧 slot 更新会被丢弃。
type SnapshotStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// putScript 原子比较 slot 并写入，避免 GET/SET 竞态导致旧快照覆盖新快照。
var putScript = redis.NewScript(`
local slot = tonumber(redis.call('HGET', KEYS[1], 'slot'))
if slot and slot >= tonumber(ARGV[1]) then
  return 0
end
redis.call('HSET', KEYS[1], 'slot', ARGV[1], 'payload', ARGV[2])
if tonumber(ARGV[3]) > 0 then
  redis.call('EXPIRE', KEYS[1], ARGV[3])
end
return 1
`)

func NewSnapshotStore(rdb *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{rdb: rdb, ttl: ttl}
}

func snapshotKey(mint types.Pubkey) string {
	return "tokenext:snapshot:" + mint.String()
}

// Put 写入快照，返回是否真的写入（false 表示已有更新的 slot）。
func (s *SnapshotStore) Put(ctx context.Context, mint types.Pubkey, slot uint64, payload []byte) (bool, error) {
	ttlSec := int64(s.ttl / time.Second)
	n, err := putScript.Run(ctx, s.rdb, []string{snapshotKey(mint)}, slot, payload, ttlSec).Int()
	if err != nil {
		return false, fmt.Errorf("snapshot put mint=%s slot=%d: %w", mint, slot, err)
	}
	return n == 1, nil
}

// Get 读取快照，未命中时返回 (0, nil, nil)。
func (s *SnapshotStore) Get(ctx context.Context, mint types.Pubkey) (uint64, []byte, error) {
	vals, err := s.rdb.HMGet(ctx, snapshotKey(mint), "slot", "payload").Result()
	if err != nil {
		return 0, nil, fmt.Errorf("snapshot get mint=%s: %w", mint, err)
	}
	slot, payload, err := parseSnapshotFields(vals)
	if err != nil {
		return 0, nil, fmt.Errorf("snapshot get mint=%s: %w", mint, err)
	}
	return slot, payload, nil
}

// parseSnapshotFields 解析 HMGET 返回的 [slot, payload]。
// 任一字段缺失视为未命中；字段存在但类型或内容非法视为记录损坏。
func parseSnapshotFields(vals []interface{}) (uint64, []byte, error) {
	if len(vals) < 2 || vals[0] == nil || vals[1] == nil {
		return 0, nil, nil
	}
	slotRaw, ok := vals[0].(string)
	if !ok {
		return 0, nil, fmt.Errorf("slot field type %T: %w", vals[0], ErrCorruptSnapshot)
	}
	payloadRaw, ok := vals[1].(string)
	if !ok {
		return 0, nil, fmt.Errorf("payload field type %T: %w", vals[1], ErrCorruptSnapshot)
	}
	slot, err := strconv.ParseUint(slotRaw, 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("slot field %q: %w", slotRaw, ErrCorruptSnapshot)
	}
	return slot, []byte(payloadRaw), nil
}
