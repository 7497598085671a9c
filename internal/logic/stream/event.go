package stream

// 快照事件类型（EncodeEvent 的 4 字节前缀）
const (
	EventTypeExtensionSnapshot uint32 = 1
)

// ExtensionSnapshot 是一次账户更新解析出的 mint 扩展状态快照。
// 事件体为 borsh 编码，字段顺序即线格式；指针字段按 Option 编码，
// nil 表示该 mint 未启用对应扩展。
type ExtensionSnapshot struct {
	Mint         string
	Slot         uint64
	WriteVersion uint64

	GroupPointer    *PointerState
	MetadataPointer *PointerState
	Metadata        *MetadataState
}

// PointerState 是 pointer 类扩展（GroupPointer / MetadataPointer）的通用快照。
// 全零地址原样输出，消费方自行解读哨兵语义。
type PointerState struct {
	Authority string
	Address   string
}

// MetadataState 是 TokenMetadata 扩展的快照。
type MetadataState struct {
	UpdateAuthority    string
	Name               string
	Symbol             string
	Uri                string
	AdditionalMetadata map[string]string
}
