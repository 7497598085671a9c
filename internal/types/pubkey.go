package types

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/mr-tron/base58"
)

// Pubkey 表示 Solana 上的 32 字节账户地址。
type Pubkey [32]byte

// ZeroPubkey 全零地址。Token 扩展指令用它作为可选字段缺省时的哨兵值。
var ZeroPubkey = Pubkey{}

func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

func (p Pubkey) Equals(other Pubkey) bool {
	return p == other
}

// IsZero 判断是否为全零哨兵地址。
// 链上协议不区分“字段缺省”与“调用方真的传了全零地址”，这里同样不做区分。
func (p Pubkey) IsZero() bool {
	return p == ZeroPubkey
}

// ToSDK 转换为 solana-go-sdk 的 PublicKey，供构造指令/交易时使用。
func (p Pubkey) ToSDK() common.PublicKey {
	return common.PublicKey(p)
}

// PubkeyFromSDK 从 solana-go-sdk 的 PublicKey 转回本地类型。
func PubkeyFromSDK(k common.PublicKey) Pubkey {
	return Pubkey(k)
}

// PubkeyFromBytes 从原始字节构造 Pubkey，长度不为 32 时返回 error（用于不信任输入路径）。
func PubkeyFromBytes(data []byte) (Pubkey, error) {
	if len(data) != 32 {
		return Pubkey{}, fmt.Errorf("invalid pubkey length: got %d, want 32", len(data))
	}
	var p Pubkey
	copy(p[:], data)
	return p, nil
}

// TryPubkeyFromBase58 解析 base58 字符串为 Pubkey，失败时返回 error（用于不信任输入路径）
func TryPubkeyFromBase58(s string) (Pubkey, error) {
	data, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("failed to decode base58 pubkey %q: %w", s, err)
	}
	if len(data) != 32 {
		return Pubkey{}, fmt.Errorf("invalid pubkey length: got %d, want 32, input=%q", len(data), s)
	}
	var p Pubkey
	copy(p[:], data)
	return p, nil
}

// PubkeyFromBase58 解析 base58 字符串为 Pubkey，失败时 panic（仅用于常量初始化等可信路径）
func PubkeyFromBase58(s string) Pubkey {
	p, err := TryPubkeyFromBase58(s)
	if err != nil {
		panic(err)
	}
	return p
}
