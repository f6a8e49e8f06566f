package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type source struct {
	addr    string
	timeout time.Duration
}

func (s source) GetAddress() string        { return s.addr }
func (s source) GetPassword() string       { return "" }
func (s source) GetDB() int                { return 2 }
func (s source) GetPoolSize() int          { return 0 }
func (s source) GetTimeout() time.Duration { return s.timeout }

func TestFromSource(t *testing.T) {
	cfg := FromSource(source{addr: "cache.local:6380", timeout: time.Second})

	assert.Equal(t, "cache.local", cfg.Host)
	assert.Equal(t, 6380, cfg.Port)
	assert.Equal(t, 2, cfg.DB)
	assert.Equal(t, DefaultPoolSize, cfg.PoolSize)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.Equal(t, "cache.local:6380", cfg.Address())
}

func TestFromSourceWithoutPort(t *testing.T) {
	cfg := FromSource(source{addr: "cache"})

	assert.Equal(t, "cache", cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := FromSource(source{addr: mr.Addr()})
	cfg.DB = 0

	client, err := NewClient(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, client.Ping(context.Background()))
	require.NoError(t, client.RawClient().Set(context.Background(), "k", "v", 0).Err())
	assert.True(t, mr.Exists("k"))
	require.NoError(t, client.Close(context.Background()))
}

func TestNewClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client, err := NewClient(context.Background(), FromSource(source{addr: addr, timeout: 100 * time.Millisecond}))
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), ErrConnect)
}
