package cpi

import (
	"context"
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/client"
	sdktypes "github.com/blocto/solana-go-sdk/types"
)

// ErrInvokeFailed 指令发送失败。底层错误原样包进去，不重试也不做进一步解读，
// 是否重试由更上层决定。
var ErrInvokeFailed = errors.New("instruction invoke failed")

// Invoker 是发送指令的通道抽象：一次调用对应一次原子的发送尝试。
// 测试中可用记录型实现替换 RPC 实现。
type Invoker interface {
	Invoke(ctx context.Context, ix sdktypes.Instruction, signers []sdktypes.Account) error
}

// RPCInvoker 把单条指令打包为交易并通过 RPC 发送。
type RPCInvoker struct {
	client   *client.Client
	feePayer sdktypes.Account // 手续费支付者，始终是第一个签名者
}

func NewRPCInvoker(c *client.Client, feePayer sdktypes.Account) *RPCInvoker {
	return &RPCInvoker{client: c, feePayer: feePayer}
}

// Invoke 发送单条指令，单次尝试。
func (inv *RPCInvoker) Invoke(ctx context.Context, ix sdktypes.Instruction, signers []sdktypes.Account) error {
	latest, err := inv.client.GetLatestBlockhash(ctx)
	if err != nil {
		return fmt.Errorf("%w: get latest blockhash: %v", ErrInvokeFailed, err)
	}

	// fee payer 固定在签名者首位，调用方传入的签名者去重后追加
	signerList := make([]sdktypes.Account, 0, len(signers)+1)
	signerList = append(signerList, inv.feePayer)
	for _, s := range signers {
		if s.PublicKey != inv.feePayer.PublicKey {
			signerList = append(signerList, s)
		}
	}

	tx, err := sdktypes.NewTransaction(sdktypes.NewTransactionParam{
		Message: sdktypes.NewMessage(sdktypes.NewMessageParam{
			FeePayer:        inv.feePayer.PublicKey,
			RecentBlockhash: latest.Blockhash,
			Instructions:    []sdktypes.Instruction{ix},
		}),
		Signers: signerList,
	})
	if err != nil {
		return fmt.Errorf("%w: build transaction: %v", ErrInvokeFailed, err)
	}

	if _, err := inv.client.SendTransaction(ctx, tx); err != nil {
		return fmt.Errorf("%w: %v", ErrInvokeFailed, err)
	}
	return nil
}
