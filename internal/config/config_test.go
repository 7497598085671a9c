package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const indexerYaml = `
logger:
  format: json
  log_dir: logs
  level: debug
  compress: true

geyser:
  endpoint: grpc.example.com:2053
  x_token: secret
  connect_timeout_sec: 10
  update_recv_timeout_sec: 60

kafka_producer:
  brokers: 127.0.0.1:9092
  batch_size: 32768
  linger_ms: 5
  topics:
    snapshot: token-extension-snapshot
  partitions:
    snapshot: 8

time_conf:
  snapshot_send_timeout_ms: 5000

redis_addr: 127.0.0.1:6379
snapshot_ttl_sec: 3600
`

func TestIndexerConfigUnmarshal(t *testing.T) {
	var c IndexerConfig
	require.NoError(t, yaml.Unmarshal([]byte(indexerYaml), &c))

	assert.Equal(t, "json", c.LogConf.Format)
	assert.Equal(t, "debug", c.LogConf.Level)
	assert.True(t, c.LogConf.Compress)

	assert.Equal(t, "grpc.example.com:2053", c.GeyserConf.Endpoint)
	assert.Equal(t, "secret", c.GeyserConf.XToken)
	assert.Equal(t, 60, c.GeyserConf.UpdateRecvTimeoutSec)

	assert.Equal(t, "token-extension-snapshot", c.KafkaProducerConf.Topics.Snapshot)
	assert.Equal(t, 8, c.KafkaProducerConf.Partitions.Snapshot)
	assert.Equal(t, 5000, c.TimeConf.SnapshotSendTimeoutMs)
	assert.Equal(t, "127.0.0.1:6379", c.RedisAddr)
	assert.Equal(t, 3600, c.SnapshotTTLSec)
}

func TestKafkaProducerConfigToOption(t *testing.T) {
	var c IndexerConfig
	require.NoError(t, yaml.Unmarshal([]byte(indexerYaml), &c))

	opt := c.KafkaProducerConf.ToKafkaOption()
	assert.Equal(t, "127.0.0.1:9092", opt.Brokers)
	require.Len(t, opt.Topics, 1)
	assert.Equal(t, "token-extension-snapshot", opt.Topics[0].Topic)
	assert.Equal(t, 8, opt.Topics[0].Partitions)
}
