package token

import (
	"context"
	"fmt"

	"tokenext-sol/internal/types"

	"github.com/blocto/solana-go-sdk/client"
)

// Account 表示一个账户数据快照：地址、owner 与原始数据。
// Data 是调用方持有的字节切片，扩展视图借用它，不做拷贝。
type Account struct {
	Pubkey     types.Pubkey // 账户地址
	Owner      types.Pubkey // 账户 owner 程序
	Lamports   uint64       // 余额（lamports）
	Data       []byte       // 原始账户数据
	Executable bool         // 是否为可执行程序账户
}

// IsOwnedBy 判断账户 owner 是否为指定程序。
func (a *Account) IsOwnedBy(program types.Pubkey) bool {
	return a.Owner == program
}

// FetchAccount 通过 RPC 拉取账户快照。
func FetchAccount(ctx context.Context, c *client.Client, pubkey types.Pubkey) (*Account, error) {
	info, err := c.GetAccountInfo(ctx, pubkey.String())
	if err != nil {
		return nil, fmt.Errorf("fetch account %s: %w", pubkey, err)
	}
	return &Account{
		Pubkey:     pubkey,
		Owner:      types.PubkeyFromSDK(info.Owner),
		Lamports:   info.Lamports,
		Data:       info.Data,
		Executable: info.Executable,
	}, nil
}
