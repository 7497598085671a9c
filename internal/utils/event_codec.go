package utils

import (
	"encoding/binary"
	"fmt"

	"github.com/near/borsh-go"
)

// EncodeEvent 将快照事件编码为带事件类型前缀的二进制数据：
// - 前 4 字节为事件类型（uint32，小端序）
// - 后续为 borsh 序列化的事件体
// 前缀让消费方不解析 body 就能按类型路由。
func EncodeEvent(eventType uint32, v interface{}) ([]byte, error) {
	body, err := borsh.Serialize(v)
	if err != nil {
		return nil, fmt.Errorf("EncodeEvent: serialize %T: %w", v, err)
	}
	buf := make([]byte, 4, 4+len(body))
	binary.LittleEndian.PutUint32(buf[:4], eventType)
	return append(buf, body...), nil
}

// DecodeEvent 拆出事件类型与 body，v 为 nil 时只返回类型。
func DecodeEvent(data []byte, v interface{}) (uint32, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("DecodeEvent: data too short: %d", len(data))
	}
	eventType := binary.LittleEndian.Uint32(data[:4])
	if v != nil {
		if err := borsh.Deserialize(v, data[4:]); err != nil {
			return 0, fmt.Errorf("DecodeEvent: deserialize: %w", err)
		}
	}
	return eventType, nil
}
