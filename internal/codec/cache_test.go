package codec

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-multiaddr/config"
	pkgif "github.com/dep2p/go-multiaddr/pkg/interfaces"
	"github.com/dep2p/go-multiaddr/pkg/lib/multiaddr"
)

// ============================================================================
// 缓存测试
// ============================================================================

func newTestCache(t *testing.T, size int) (*CachedCodec, *Metrics) {
	t.Helper()
	reg := multiaddr.NewDefaultRegistry()
	m, err := NewMetrics(prometheus.NewRegistry(), reg)
	require.NoError(t, err)
	c, err := NewCachedCodec(reg, size, m)
	require.NoError(t, err)
	return c, m
}

func TestCachedCodec_StringToBytes(t *testing.T) {
	c, m := newTestCache(t, 4)

	b1, err := c.StringToBytes("/ip4/127.0.0.1/tcp/4321")
	require.NoError(t, err)
	b2, err := c.StringToBytes("/ip4/127.0.0.1/tcp/4321")
	require.NoError(t, err)
	assert.Equal(t, b1, b2)

	hits := m.cacheRequests.WithLabelValues(opStringToBytes, "hit")
	misses := m.cacheRequests.WithLabelValues(opStringToBytes, "miss")
	assert.Equal(t, 1.0, testutil.ToFloat64(hits))
	assert.Equal(t, 1.0, testutil.ToFloat64(misses))

	// 修改返回值不影响缓存
	b2[0] = 0xff
	b3, err := c.StringToBytes("/ip4/127.0.0.1/tcp/4321")
	require.NoError(t, err)
	assert.Equal(t, byte(0x04), b3[0])

	// 失败结果不缓存
	_, err = c.StringToBytes("/ip4/bad")
	assert.ErrorIs(t, err, multiaddr.ErrParse)
	s2b, _ := c.Len()
	assert.Equal(t, 1, s2b)
}

func TestCachedCodec_BytesToString(t *testing.T) {
	c, m := newTestCache(t, 4)

	b := []byte{0x04, 0x7f, 0x00, 0x00, 0x01, 0x11, 0x04, 0xd2}
	for i := 0; i < 3; i++ {
		s, err := c.BytesToString(b)
		require.NoError(t, err)
		assert.Equal(t, "/ip4/127.0.0.1/udp/1234", s)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues(opBytesToString, "hit")))

	_, err := c.BytesToString(nil)
	assert.Error(t, err)

	segs, err := c.Split(b)
	require.NoError(t, err)
	assert.Len(t, segs, 2)

	p, err := c.ProtocolWithCode(multiaddr.P_UDP)
	require.NoError(t, err)
	assert.Equal(t, "udp", p.Name)
}

func TestCachedCodec_Eviction(t *testing.T) {
	c, _ := newTestCache(t, 2)

	for _, port := range []string{"1", "2", "3"} {
		_, err := c.StringToBytes("/tcp/" + port)
		require.NoError(t, err)
	}
	s2b, b2s := c.Len()
	assert.Equal(t, 2, s2b)
	assert.Equal(t, 0, b2s)

	c.Purge()
	s2b, _ = c.Len()
	assert.Equal(t, 0, s2b)
}

func TestNewCachedCodec_InvalidSize(t *testing.T) {
	_, err := NewCachedCodec(multiaddr.NewDefaultRegistry(), 0, nil)
	assert.Error(t, err)
}

// 未配置指标时缓存照常工作
func TestCachedCodec_NilMetrics(t *testing.T) {
	c, err := NewCachedCodec(multiaddr.NewDefaultRegistry(), 2, nil)
	require.NoError(t, err)
	_, err = c.StringToBytes("/ws")
	require.NoError(t, err)
	_, err = c.StringToBytes("/ws")
	require.NoError(t, err)
}

// ============================================================================
// 指标测试
// ============================================================================

func TestMetrics_RegistryGauges(t *testing.T) {
	promReg := prometheus.NewRegistry()
	reg := multiaddr.NewDefaultRegistry()
	_, err := NewMetrics(promReg, reg)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(promReg, "multiaddr_registry_protocols", "multiaddr_registry_sealed")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	families, err := promReg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		if g := f.GetMetric()[0].GetGauge(); g != nil {
			values[f.GetName()] = g.GetValue()
		}
	}
	assert.Equal(t, float64(reg.Len()), values["multiaddr_registry_protocols"])
	assert.Equal(t, 0.0, values["multiaddr_registry_sealed"])

	// 重复注册失败
	_, err = NewMetrics(promReg, reg)
	assert.Error(t, err)
}

func TestModule_CacheAndMetrics(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Cache = config.CacheConfig{Enable: true, Size: 8}
	promReg := prometheus.NewRegistry()

	var (
		codec   pkgif.AddressCodec
		metrics *Metrics
	)
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Provide(func() prometheus.Registerer { return promReg }),
		Module,
		fx.Populate(&codec, &metrics),
	)
	defer app.RequireStart().RequireStop()

	cached, ok := codec.(*CachedCodec)
	require.True(t, ok, "codec should be cached, got %T", codec)
	require.NotNil(t, metrics)

	_, err := cached.StringToBytes("/dns4/example.com/tcp/443/wss")
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheRequests.WithLabelValues(opStringToBytes, "miss")))
}

func TestNewApp(t *testing.T) {
	var codec pkgif.AddressCodec
	var reg *multiaddr.Registry

	app := NewApp(nil, fx.Populate(&codec, &reg))
	require.NoError(t, app.Err())

	require.NoError(t, app.Start(context.Background()))
	assert.True(t, reg.Sealed())
	_, ok := codec.(*multiaddr.Registry)
	assert.True(t, ok)
	require.NoError(t, app.Stop(context.Background()))

	bad := config.NewConfig()
	bad.Cache = config.CacheConfig{Enable: true, Size: -1}
	assert.Error(t, NewApp(bad, fx.Invoke(func(pkgif.AddressCodec) {})).Err())
}
