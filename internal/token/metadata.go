package token

import (
	"fmt"

	"tokenext-sol/internal/consts"
	"tokenext-sol/internal/types"

	"github.com/near/borsh-go"
)

// TokenMetadata 扩展记录（TLV 类型 19），变长，字段为 borsh 序列化。
// 与 pointer 类扩展不同，这里必须反序列化成独立值而不能做零拷贝视图。
type TokenMetadata struct {
	UpdateAuthority    types.Pubkey // 可更新 metadata 的权限账户，全零表示未设置
	Mint               types.Pubkey // 所属 mint
	Name               string
	Symbol             string
	Uri                string
	AdditionalMetadata []KeyValue
}

// KeyValue 是 additional_metadata 中的一个键值对。
type KeyValue struct {
	Key   string
	Value string
}

// TokenMetadataFromAccount 从账户快照中解码 TokenMetadata 扩展。
// 校验顺序同 pointer 类扩展：先 owner，再扩展索引；记录为变长，长度校验交给 borsh 解码。
func TokenMetadataFromAccount(acc *Account) (*TokenMetadata, error) {
	if !acc.IsOwnedBy(consts.TokenProgram2022) {
		return nil, fmt.Errorf("token metadata: account %s owned by %s: %w",
			acc.Pubkey, acc.Owner, ErrInvalidAccountOwner)
	}
	ext, ok := extensionData(acc.Data, ExtTypeTokenMetadata)
	if !ok {
		return nil, fmt.Errorf("token metadata: account %s: %w", acc.Pubkey, ErrInvalidAccountData)
	}
	var md TokenMetadata
	if err := borsh.Deserialize(&md, ext); err != nil {
		return nil, fmt.Errorf("token metadata: account %s: borsh: %v: %w", acc.Pubkey, err, ErrInvalidAccountData)
	}
	return &md, nil
}
