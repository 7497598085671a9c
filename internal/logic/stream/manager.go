package stream

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"tokenext-sol/internal/consts"
	"tokenext-sol/internal/svc"
	"tokenext-sol/pkg/logger"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"
)

// StreamManager 维护到 Yellowstone Geyser 的账户订阅流：
// 建连、心跳、超时检测与重连，收到的账户更新写入 accountChan。
type StreamManager struct {
	mu                    sync.Mutex                      // 互斥锁，保护并发安全
	conn                  *grpc.ClientConn                // gRPC 连接对象
	client                pb.GeyserClient                 // gRPC 客户端
	stream                pb.Geyser_SubscribeClient       // gRPC 订阅流
	stopped               bool                            // 标记是否已经停止
	reconnectAttempts     int                             // 已重连次数
	reconnectInterval     time.Duration                   // 重连基础间隔
	xToken                string                          // 认证用的 x-token
	streamPingIntervalSec int                             // Stream 心跳包发送间隔（秒）
	accountChan           chan *pb.SubscribeUpdateAccount // 账户更新通道
	connCtx               context.Context                 // 当前连接的 context
	connCancel            context.CancelFunc              // 当前连接的 cancel 函数
	updateRecvTimeoutSec  int                             // 账户更新接收超时（秒）
	sendTimeoutSec        int                             // gRPC 发送超时（秒）
}

// NewStreamManager 建立 gRPC 连接并返回管理器，订阅在 Start 时发出。
func NewStreamManager(sc *svc.ServiceContext, accountChan chan *pb.SubscribeUpdateAccount) (*StreamManager, error) {
	geyserConf := sc.Config.GeyserConf

	configTls := &tls.Config{
		InsecureSkipVerify: true,
	}

	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(geyserConf.ConnectTimeoutSec)*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(
		dialCtx,
		geyserConf.Endpoint,
		grpc.WithTransportCredentials(credentials.NewTLS(configTls)),
		grpc.WithInitialWindowSize(int32(geyserConf.InitialWindowSize)),
		grpc.WithInitialConnWindowSize(int32(geyserConf.InitialConnWindowSize)),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallSendMsgSize(geyserConf.MaxCallSendMsgSize),
			grpc.MaxCallRecvMsgSize(geyserConf.MaxCallRecvMsgSize),
		),
		grpc.WithBlock(),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                time.Duration(geyserConf.KeepalivePingIntervalSec) * time.Second,
			Timeout:             time.Duration(geyserConf.KeepalivePingTimeoutSec) * time.Second,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %v", err)
	}

	return &StreamManager{
		conn:                  conn,
		client:                pb.NewGeyserClient(conn),
		reconnectAttempts:     0,
		reconnectInterval:     time.Duration(geyserConf.ReconnectIntervalSec) * time.Second,
		xToken:                geyserConf.XToken,
		streamPingIntervalSec: geyserConf.StreamPingIntervalSec,
		accountChan:           accountChan,
		updateRecvTimeoutSec:  geyserConf.UpdateRecvTimeoutSec,
		sendTimeoutSec:        geyserConf.SendTimeoutSec,
	}, nil
}

func (m *StreamManager) Start() {
	m.mustConnect()
}

func (m *StreamManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true
	if m.connCancel != nil {
		m.connCancel()
		m.connCancel = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
	}
}

// mustConnect 内部循环直到连接成功
func (m *StreamManager) mustConnect() {
	for {
		m.mu.Lock()
		if m.stopped {
			m.mu.Unlock()
			return
		}
		m.mu.Unlock()

		if m.reconnectAttempts > 0 {
			if m.reconnectAttempts > 3 {
				time.Sleep(m.reconnectInterval * 2)
			} else {
				time.Sleep(m.reconnectInterval)
			}
		}
		logger.Infof("[stream] connecting... attempt %d", m.reconnectAttempts+1)
		m.reconnectAttempts++
		if err := m.connect(); err == nil {
			return
		} else {
			logger.Warnf("[stream] connect failed: %v, will retry...", err)
		}
	}
}

// buildSubscribeRequest 订阅 Token-2022 拥有的全部账户（mint 及 token account）。
// TLV 解析阶段会筛掉不带目标扩展的账户。
func buildSubscribeRequest() *pb.SubscribeRequest {
	accounts := make(map[string]*pb.SubscribeRequestFilterAccounts)
	accounts["token2022"] = &pb.SubscribeRequestFilterAccounts{
		Owner: []string{consts.TokenProgram2022Str},
	}
	commitment := pb.CommitmentLevel_CONFIRMED
	return &pb.SubscribeRequest{
		Accounts:   accounts,
		Commitment: &commitment,
	}
}

// connect 只尝试一次连接
func (m *StreamManager) connect() error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return errors.New("manager is stopped")
	}

	// 先关闭旧的 context，优雅退出旧 goroutine
	if m.connCancel != nil {
		m.connCancel()
		m.connCancel = nil
	}
	m.connCtx, m.connCancel = context.WithCancel(context.Background())
	m.mu.Unlock()

	metaCtx := metadata.NewOutgoingContext(
		m.connCtx,
		metadata.New(map[string]string{"x-token": m.xToken}),
	)
	stream, err := m.client.Subscribe(metaCtx)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	req := buildSubscribeRequest()
	if err := sendWithTimeout(m.connCtx, stream.Send, req, time.Duration(m.sendTimeoutSec)*time.Second); err != nil {
		return fmt.Errorf("send subscribe request: %w", err)
	}

	m.mu.Lock()
	m.stream = stream
	m.reconnectAttempts = 0
	m.mu.Unlock()
	logger.Infof("[stream] connection established")

	// 启动 ping 协程
	go m.pingLoop(m.connCtx)
	// 启动账户更新监听协程
	go m.accountRecvLoop(m.connCtx)

	return nil
}

func (m *StreamManager) accountRecvLoop(ctx context.Context) {
	last := time.Now()
	updateTimeout := time.Duration(m.updateRecvTimeoutSec) * time.Second
	for {
		select {
		case <-ctx.Done():
			return
		default:
			update, err := m.stream.Recv()
			now := time.Now()
			if err != nil {
				if errors.Is(err, io.EOF) {
					logger.Warnf("[stream] closed by server (EOF), will reconnect")
					m.reconnect()
					return
				}

				logger.Warnf("[stream] recv error: %v", err)
				if m.reconnectIfUpdateTimeout(last, updateTimeout) {
					return
				}
				time.Sleep(100 * time.Millisecond)
				continue
			}

			switch u := update.GetUpdateOneof().(type) {
			case *pb.SubscribeUpdate_Account:
				select {
				case m.accountChan <- u.Account:
				default:
					logger.Warnf("[stream] accountChan is full, discard update at slot %v", u.Account.Slot)
				}
				// 无论是否写入成功，都要更新 last
				last = now
			}
		}

		if m.reconnectIfUpdateTimeout(last, updateTimeout) {
			return
		}
	}
}

// sendWithTimeout 带超时的 Send
func sendWithTimeout[T any](ctx context.Context, sendFunc func(T) error, req T, timeout time.Duration) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sendFunc(req)
	}()

	select {
	case <-timeoutCtx.Done():
		return timeoutCtx.Err()
	case err := <-done:
		return err
	}
}

// pingLoop 心跳检测
func (m *StreamManager) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(m.streamPingIntervalSec) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingReq := &pb.SubscribeRequest{
				Ping: &pb.SubscribeRequestPing{Id: 1},
			}
			if err := sendWithTimeout(ctx, m.stream.Send, pingReq, time.Duration(m.sendTimeoutSec)*time.Second); err != nil {
				// 只记录日志，不触发重连
				logger.Warnf("[stream] ping failed: %v", err)
			}
		}
	}
}

func (m *StreamManager) reconnectIfUpdateTimeout(last time.Time, timeout time.Duration) bool {
	if time.Since(last) > timeout {
		logger.Warnf("[stream] no account update within %v, reconnecting", timeout)
		m.reconnect()
		return true
	}
	return false
}

func (m *StreamManager) reconnect() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	if m.connCancel != nil {
		m.connCancel() // 关闭所有相关 goroutine
		m.connCancel = nil
	}
	m.mu.Unlock()

	go m.mustConnect()
}
