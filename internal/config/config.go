package config

import (
	"tokenext-sol/internal/mq"
	"tokenext-sol/pkg/logger"
)

// LogConfig 日志配置
type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// GeyserConfig Yellowstone gRPC 订阅源配置
type GeyserConfig struct {
	Endpoint                 string `yaml:"endpoint"`                    // gRPC 地址，如 your-grpc-url:2053
	XToken                   string `yaml:"x_token"`                     // 认证用的 x-token
	ConnectTimeoutSec        int    `yaml:"connect_timeout_sec"`         // 建连超时（秒）
	ReconnectIntervalSec     int    `yaml:"reconnect_interval_sec"`      // 重连基础间隔（秒）
	StreamPingIntervalSec    int    `yaml:"stream_ping_interval_sec"`    // Stream 心跳包发送间隔（秒）
	SendTimeoutSec           int    `yaml:"send_timeout_sec"`            // gRPC 发送超时（秒）
	UpdateRecvTimeoutSec     int    `yaml:"update_recv_timeout_sec"`     // 超过该时长未收到账户更新则重连（秒）
	KeepalivePingIntervalSec int    `yaml:"keepalive_ping_interval_sec"` // TCP keepalive ping 间隔（秒）
	KeepalivePingTimeoutSec  int    `yaml:"keepalive_ping_timeout_sec"`  // TCP keepalive ping 超时（秒）
	InitialWindowSize        int    `yaml:"initial_window_size"`         // 流级窗口大小
	InitialConnWindowSize    int    `yaml:"initial_conn_window_size"`    // 连接级窗口大小
	MaxCallSendMsgSize       int    `yaml:"max_call_send_msg_size"`      // 单次发送最大字节数
	MaxCallRecvMsgSize       int    `yaml:"max_call_recv_msg_size"`      // 单次接收最大字节数
}

// KafkaProducerConfig Kafka 生产者相关配置
type KafkaProducerConfig struct {
	Brokers   string `yaml:"brokers"`    // Kafka broker 地址，多个用英文逗号分隔
	BatchSize int    `yaml:"batch_size"` // 批处理大小（单位字节）
	LingerMs  int    `yaml:"linger_ms"`  // 批处理最大延迟（毫秒）

	Topics struct {
		Snapshot string `yaml:"snapshot"` // 扩展快照事件的 Kafka topic
	} `yaml:"topics"`

	Partitions struct {
		Snapshot int `yaml:"snapshot"` // snapshot topic 的分区数
	} `yaml:"partitions"`
}

func (c *KafkaProducerConfig) ToKafkaOption() mq.KafkaProducerOption {
	return mq.KafkaProducerOption{
		Brokers:   c.Brokers,
		BatchSize: c.BatchSize,
		LingerMs:  c.LingerMs,
		Topics: []struct {
			Topic      string
			Partitions int
		}{
			{Topic: c.Topics.Snapshot, Partitions: c.Partitions.Snapshot},
		},
	}
}

// TimeConfig 各种超时配置（单位：毫秒）
type TimeConfig struct {
	SnapshotSendTimeoutMs int `yaml:"snapshot_send_timeout_ms"` // 单条快照发送到 Kafka 并等待 ack 的超时时间
}

// IndexerConfig 是扩展索引服务的主配置结构体
type IndexerConfig struct {
	LogConf           LogConfig           `yaml:"logger"`         // 日志配置
	GeyserConf        GeyserConfig        `yaml:"geyser"`         // 订阅源配置
	KafkaProducerConf KafkaProducerConfig `yaml:"kafka_producer"` // Kafka 生产者配置
	TimeConf          TimeConfig          `yaml:"time_conf"`      // 时间相关配置

	RedisAddr      string `yaml:"redis_addr"`       // Redis 地址
	SnapshotTTLSec int    `yaml:"snapshot_ttl_sec"` // 快照缓存过期时间（秒），0 表示不过期
}

// GroupctlConfig 是 groupctl 命令行工具的配置结构体
type GroupctlConfig struct {
	LogConf     LogConfig `yaml:"logger"`       // 日志配置
	RpcEndpoint string    `yaml:"rpc_endpoint"` // Solana RPC 地址
}
