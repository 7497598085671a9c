package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"tokenext-sol/internal/config"
	"tokenext-sol/internal/cpi"
	"tokenext-sol/internal/token"
	"tokenext-sol/internal/types"
	"tokenext-sol/pkg/logger"

	"github.com/blocto/solana-go-sdk/client"
	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/zeromicro/go-zero/core/conf"
)

// groupctl 对单个 mint 的 GroupPointer 扩展做一次读取或变更。
var (
	configFile   = flag.String("f", "etc/groupctl.yaml", "the config file")
	mode         = flag.String("mode", "read", "read | init | update")
	mintStr      = flag.String("mint", "", "mint 地址（base58）")
	authorityStr = flag.String("authority", "", "authority 地址（base58，init 可选）")
	groupStr     = flag.String("group", "", "group 配置账户地址（base58，可选）")
	feePayerKey  = flag.String("fee-payer", "", "手续费支付者私钥（base58，init/update 必填）")
	authorityKey = flag.String("authority-key", "", "authority 私钥（base58，update 必填，需签名）")
)

func main() {
	flag.Parse()

	var c config.GroupctlConfig
	conf.MustLoad(*configFile, &c)

	if err := logger.Init(c.LogConf.ToLogOption(), "groupctl"); err != nil {
		fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	mint, err := types.TryPubkeyFromBase58(*mintStr)
	if err != nil {
		fatalf("invalid -mint: %v", err)
	}

	rpcClient := client.NewClient(c.RpcEndpoint)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 三种模式都先拉取 mint 账户，owner 校验在本地完成后才会发出任何指令
	mintAcc, err := token.FetchAccount(ctx, rpcClient, mint)
	if err != nil {
		fatalf("fetch account: %v", err)
	}

	switch *mode {
	case "read":
		gp, err := token.GroupPointerFromAccount(mintAcc)
		if err != nil {
			fatalf("read group pointer: %v", err)
		}
		fmt.Printf("mint:          %s\n", mint)
		fmt.Printf("authority:     %s\n", gp.Authority())
		fmt.Printf("group_address: %s\n", gp.GroupAddress())

	case "init":
		feePayer := mustAccount("-fee-payer", *feePayerKey)
		inv := cpi.NewRPCInvoker(rpcClient, feePayer)
		ix := &token.InitializeGroupPointer{
			Mint:         mintAcc,
			Authority:    optionalPubkeyFlag("-authority", *authorityStr),
			GroupAddress: optionalPubkeyFlag("-group", *groupStr),
		}
		if err := ix.Invoke(ctx, inv); err != nil {
			fatalf("initialize group pointer: %v", err)
		}
		logger.Infof("group pointer initialized: mint=%s", mint)

	case "update":
		feePayer := mustAccount("-fee-payer", *feePayerKey)
		authority := mustAccount("-authority-key", *authorityKey)
		inv := cpi.NewRPCInvoker(rpcClient, feePayer)
		ix := &token.UpdateGroupPointer{
			Mint:         mintAcc,
			Authority:    &token.Account{Pubkey: types.PubkeyFromSDK(authority.PublicKey)},
			GroupAddress: optionalPubkeyFlag("-group", *groupStr),
		}
		if err := ix.Invoke(ctx, inv, authority); err != nil {
			fatalf("update group pointer: %v", err)
		}
		logger.Infof("group pointer updated: mint=%s", mint)

	default:
		fatalf("unknown -mode %q", *mode)
	}
}

// optionalPubkeyFlag 空串视为缺省（编码为全零哨兵地址）
func optionalPubkeyFlag(name, s string) *types.Pubkey {
	if s == "" {
		return nil
	}
	p, err := types.TryPubkeyFromBase58(s)
	if err != nil {
		fatalf("invalid %s: %v", name, err)
	}
	return &p
}

func mustAccount(name, key string) sdktypes.Account {
	if key == "" {
		fatalf("%s is required for mode %q", name, *mode)
	}
	account, err := sdktypes.AccountFromBase58(key)
	if err != nil {
		fatalf("invalid %s: %v", name, err)
	}
	return account
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
