package consts

import (
	"tokenext-sol/internal/types"
)

// 公钥形式的地址常量（types.Pubkey），用于链上比对等场景。
var (
	SystemProgram          types.Pubkey
	TokenProgram           types.Pubkey
	TokenProgram2022       types.Pubkey
	AssociatedTokenProgram types.Pubkey
	ComputeBudgetProgram   types.Pubkey
)

// init 自动将 base58 字符串地址转换为 types.Pubkey
func init() {
	SystemProgram = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram = types.PubkeyFromBase58(TokenProgramStr)
	TokenProgram2022 = types.PubkeyFromBase58(TokenProgram2022Str)
	AssociatedTokenProgram = types.PubkeyFromBase58(AssociatedTokenProgramStr)
	ComputeBudgetProgram = types.PubkeyFromBase58(ComputeBudgetProgramStr)
}
