package svc

import (
	"time"

	"tokenext-sol/internal/cache"
	"tokenext-sol/internal/config"
	"tokenext-sol/internal/mq"
	"tokenext-sol/pkg/logger"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/redis/go-redis/v9"
)

// ServiceContext 包含索引服务的共享资源
type ServiceContext struct {
	Config    config.IndexerConfig
	Producer  *kafka.Producer
	Redis     *redis.Client
	Snapshots *cache.SnapshotStore
}

// NewServiceContext 创建索引服务上下文
func NewServiceContext(c config.IndexerConfig) (*ServiceContext, error) {
	// 1. 初始化 Kafka 生产者
	producer, err := mq.NewKafkaProducer(c.KafkaProducerConf.ToKafkaOption())
	if err != nil {
		logger.Errorf("Kafka producer 初始化失败: %v", err)
		return nil, err
	}

	// 2. 初始化 Redis 客户端（用于最新快照缓存）
	rdb := redis.NewClient(&redis.Options{
		Addr: c.RedisAddr, // eg: "127.0.0.1:6379"
	})

	sc := &ServiceContext{
		Config:    c,
		Producer:  producer,
		Redis:     rdb,
		Snapshots: cache.NewSnapshotStore(rdb, time.Duration(c.SnapshotTTLSec)*time.Second),
	}

	logger.Infof("索引服务上下文初始化完成")
	return sc, nil
}

// Close 关闭服务上下文中的资源
func (sc *ServiceContext) Close() {
	if sc.Producer != nil {
		sc.Producer.Close()
	}
	if sc.Redis != nil {
		_ = sc.Redis.Close()
	}
}
