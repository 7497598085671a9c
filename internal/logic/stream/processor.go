package stream

import (
	"context"
	"errors"
	"time"

	"tokenext-sol/internal/consts"
	"tokenext-sol/internal/mq"
	"tokenext-sol/internal/svc"
	"tokenext-sol/internal/token"
	"tokenext-sol/internal/types"
	"tokenext-sol/internal/utils"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/zeromicro/go-zero/core/logx"
)

// AccountProcessor 消费账户更新：解析扩展记录，发布快照事件并更新缓存。
type AccountProcessor struct {
	sc          *svc.ServiceContext
	accountChan chan *pb.SubscribeUpdateAccount // 接收账户更新的 channel
	ctx         context.Context
	cancel      func(err error)
	logx.Logger
}

func NewAccountProcessor(sc *svc.ServiceContext, accountChan chan *pb.SubscribeUpdateAccount) *AccountProcessor {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &AccountProcessor{
		sc:          sc,
		accountChan: accountChan,
		Logger:      logx.WithContext(ctx).WithFields(logx.Field("service", "account_processor")),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (p *AccountProcessor) Start() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case update := <-p.accountChan:
			p.procAccount(update)
			if len(p.accountChan) > 10 {
				p.Debugf("account chan len:%v", len(p.accountChan))
			}
		}
	}
}

func (p *AccountProcessor) Stop() {
	p.cancel(errors.New("service stop"))
}

func (p *AccountProcessor) procAccount(update *pb.SubscribeUpdateAccount) {
	info := update.GetAccount()
	if info == nil {
		return
	}

	pubkey, err := types.PubkeyFromBytes(info.Pubkey)
	if err != nil {
		p.Errorf("账户更新 pubkey 非法: %v", err)
		return
	}
	owner, err := types.PubkeyFromBytes(info.Owner)
	if err != nil {
		p.Errorf("账户更新 owner 非法: account=%s err=%v", pubkey, err)
		return
	}

	acc := &token.Account{
		Pubkey:     pubkey,
		Owner:      owner,
		Lamports:   info.Lamports,
		Data:       info.Data,
		Executable: info.Executable,
	}

	snapshot := buildSnapshot(acc, update.Slot, info.WriteVersion)
	if snapshot == nil {
		// 不带目标扩展的账户（token account、普通 mint 等），忽略
		return
	}

	// 按值传入：顶层指针会被 borsh 按 Option 编码，带出多余的前缀字节
	payload, err := utils.EncodeEvent(EventTypeExtensionSnapshot, *snapshot)
	if err != nil {
		p.Errorf("快照编码失败: mint=%s err=%v", pubkey, err)
		return
	}

	sendTimeout := time.Duration(p.sc.Config.TimeConf.SnapshotSendTimeoutMs) * time.Millisecond
	sendCtx, cancel := context.WithTimeout(p.ctx, sendTimeout)
	defer cancel()

	// 1. 更新 Redis 最新快照（slot 单调，旧更新直接丢弃）
	fresh, err := p.sc.Snapshots.Put(sendCtx, pubkey, update.Slot, payload)
	if err != nil {
		p.Errorf("快照缓存写入失败: mint=%s err=%v", pubkey, err)
		// 缓存失败不拦截 Kafka 发布
	} else if !fresh {
		return
	}

	// 2. 发布到 Kafka，按 mint 分区保证同一 mint 的快照有序
	kafkaConf := &p.sc.Config.KafkaProducerConf
	job := &mq.KafkaJob{
		Topic:     kafkaConf.Topics.Snapshot,
		Partition: int32(utils.PartitionHashBytes(pubkey[:], uint32(kafkaConf.Partitions.Snapshot))),
		Key:       []byte(snapshot.Mint),
		Value:     payload,
	}
	_, failed := mq.SendKafkaJobs(sendCtx, p.sc.Producer, []*mq.KafkaJob{job}, sendTimeout)
	for _, f := range failed {
		p.Errorf("快照发送失败: mint=%s slot=%d err=%v", pubkey, update.Slot, f.Err)
	}
}

// buildSnapshot 提取账户中本服务关心的扩展，一个都没有时返回 nil。
// owner 校验由各扩展读取器完成；读取失败一律视为"该扩展不存在"。
func buildSnapshot(acc *token.Account, slot, writeVersion uint64) *ExtensionSnapshot {
	if !acc.IsOwnedBy(consts.TokenProgram2022) {
		return nil
	}

	snapshot := &ExtensionSnapshot{
		Mint:         acc.Pubkey.String(),
		Slot:         slot,
		WriteVersion: writeVersion,
	}
	found := false

	if gp, err := token.GroupPointerFromAccount(acc); err == nil {
		snapshot.GroupPointer = &PointerState{
			Authority: gp.Authority().String(),
			Address:   gp.GroupAddress().String(),
		}
		found = true
	}
	if mp, err := token.MetadataPointerFromAccount(acc); err == nil {
		snapshot.MetadataPointer = &PointerState{
			Authority: mp.Authority().String(),
			Address:   mp.MetadataAddress().String(),
		}
		found = true
	}
	if md, err := token.TokenMetadataFromAccount(acc); err == nil {
		state := &MetadataState{
			UpdateAuthority: md.UpdateAuthority.String(),
			Name:            md.Name,
			Symbol:          md.Symbol,
			Uri:             md.Uri,
		}
		if len(md.AdditionalMetadata) > 0 {
			state.AdditionalMetadata = make(map[string]string, len(md.AdditionalMetadata))
			for _, kv := range md.AdditionalMetadata {
				state.AdditionalMetadata[kv.Key] = kv.Value
			}
		}
		snapshot.Metadata = state
		found = true
	}

	if !found {
		return nil
	}
	return snapshot
}
