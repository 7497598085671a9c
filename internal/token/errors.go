package token

import "errors"

var (
	// ErrInvalidAccountOwner 账户 owner 不是 Token-2022 程序。
	// 未验证 owner 的数据不可按扩展布局解读，所有读取路径必须先做该检查。
	ErrInvalidAccountOwner = errors.New("invalid account owner")

	// ErrInvalidAccountData 账户数据中缺少目标扩展，或扩展长度与固定布局不符。
	ErrInvalidAccountData = errors.New("invalid account data")
)
