package token

import (
	"encoding/binary"

	"tokenext-sol/internal/types"
)

// 合约源代码:
// Token2022: https://github.com/solana-program/token-2022

// ExtensionType 是 Token-2022 扩展的类型标签（TLV entry 的 type 字段）。
type ExtensionType uint16

const (
	ExtTypeUninitialized                 ExtensionType = 0
	ExtTypeTransferFeeConfig             ExtensionType = 1
	ExtTypeTransferFeeAmount             ExtensionType = 2
	ExtTypeMintCloseAuthority            ExtensionType = 3
	ExtTypeConfidentialTransferMint      ExtensionType = 4
	ExtTypeConfidentialTransferAccount   ExtensionType = 5
	ExtTypeDefaultAccountState           ExtensionType = 6
	ExtTypeImmutableOwner                ExtensionType = 7
	ExtTypeMemoTransfer                  ExtensionType = 8
	ExtTypeNonTransferable               ExtensionType = 9
	ExtTypeInterestBearingConfig         ExtensionType = 10
	ExtTypeCpiGuard                      ExtensionType = 11
	ExtTypePermanentDelegate             ExtensionType = 12
	ExtTypeNonTransferableAccount        ExtensionType = 13
	ExtTypeTransferHook                  ExtensionType = 14
	ExtTypeTransferHookAccount           ExtensionType = 15
	ExtTypeConfidentialTransferFeeConfig ExtensionType = 16
	ExtTypeConfidentialTransferFeeAmount ExtensionType = 17
	ExtTypeMetadataPointer               ExtensionType = 18
	ExtTypeTokenMetadata                 ExtensionType = 19
	ExtTypeGroupPointer                  ExtensionType = 20
	ExtTypeTokenGroup                    ExtensionType = 21
	ExtTypeGroupMemberPointer            ExtensionType = 22
	ExtTypeTokenGroupMember              ExtensionType = 23
)

// Token-2022 账户数据布局常量。
// 带扩展的 mint 把 82 字节基础数据 padding 到 165 字节（与 token account 等长，
// 避免两种账户混淆），第 165 字节是账户类型标签，TLV 区从 166 开始。
const (
	BaseMintLen    = 82
	BaseAccountLen = 165

	accountTypeOffset = 165
	tlvStart          = 166

	accountTypeMint = 1
)

// extensionData 在账户数据的 TLV 区中查找指定类型的扩展，返回其数据切片（不拷贝）。
// TLV entry 布局: [u16 type LE][u16 len LE][len 字节数据]。
// 类型 0（Uninitialized）之后为未写入区域，扫描到即停止。
// 越界或截断的 entry 一律按"未找到"处理，由调用方归类为数据错误。
func extensionData(data []byte, typ ExtensionType) ([]byte, bool) {
	if len(data) <= tlvStart || data[accountTypeOffset] != accountTypeMint {
		return nil, false
	}
	i := tlvStart
	for i+4 <= len(data) {
		entryType := ExtensionType(binary.LittleEndian.Uint16(data[i : i+2]))
		entryLen := int(binary.LittleEndian.Uint16(data[i+2 : i+4]))
		if entryType == ExtTypeUninitialized {
			return nil, false
		}
		if i+4+entryLen > len(data) {
			return nil, false
		}
		if entryType == typ {
			return data[i+4 : i+4+entryLen], true
		}
		i += 4 + entryLen
	}
	return nil, false
}

// optionalPubkey 把可选地址解析为具体值：nil 编码为全零哨兵地址。
// 线格式没有变长编码，每个字段槽位始终存在；全零地址的语义由 Token-2022 程序定义。
func optionalPubkey(p *types.Pubkey) types.Pubkey {
	if p == nil {
		return types.ZeroPubkey
	}
	return *p
}
