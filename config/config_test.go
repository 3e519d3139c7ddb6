package config

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/dep2p/go-multiaddr/pkg/lib/multiaddr"
)

// TestNewConfig 测试创建默认配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)

	assert.True(t, cfg.Registry.IncludeBuiltins)
	assert.True(t, cfg.Registry.SealOnStart)
	assert.Empty(t, cfg.Registry.Protocols)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_ValidateNil(t *testing.T) {
	var cfg *Config
	assert.Error(t, cfg.Validate())
	assert.Error(t, ValidateAll(nil))
}

// TestProtocolConfig_Protocol 测试协议描述转换
func TestProtocolConfig_Protocol(t *testing.T) {
	t.Run("WithCodec", func(t *testing.T) {
		p, err := ProtocolConfig{Name: "myport", Code: 0x300000, Size: 16, Codec: "PORT"}.Protocol()
		require.NoError(t, err)
		assert.Equal(t, "myport", p.Name)
		assert.Equal(t, 0x300000, p.Code)
		assert.Equal(t, 16, p.Size)
		assert.Equal(t, multiaddr.CodecPort, p.Codec)
	})

	t.Run("Marker", func(t *testing.T) {
		p, err := ProtocolConfig{Name: "mymarker", Code: 0x300001}.Protocol()
		require.NoError(t, err)
		assert.Equal(t, multiaddr.CodecNone, p.Codec)
		assert.Zero(t, p.Size)
	})

	t.Run("UnknownCodec", func(t *testing.T) {
		_, err := ProtocolConfig{Name: "x", Code: 1, Size: 8, Codec: "nope"}.Protocol()
		assert.Error(t, err)
	})
}

// TestRegistryConfig_Validate 测试注册表配置校验
func TestRegistryConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		protos  []ProtocolConfig
		wantErr int
	}{
		{"Empty", nil, 0},
		{"Valid", []ProtocolConfig{
			{Name: "a", Code: 0x300000, Size: 16, Codec: "port"},
			{Name: "b", Code: 0x300001, Size: -1, Codec: "unix", Path: true},
		}, 0},
		{"EmptyName", []ProtocolConfig{{Code: 0x300000}}, 1},
		{"SlashName", []ProtocolConfig{{Name: "a/b", Code: 0x300000}}, 1},
		{"NegativeCode", []ProtocolConfig{{Name: "a", Code: -1}}, 1},
		{"CodeTooLarge", []ProtocolConfig{{Name: "a", Code: math.MaxInt32 + 1}}, 1},
		{"MaxCode", []ProtocolConfig{{Name: "a", Code: math.MaxInt32}}, 0},
		{"BadSize", []ProtocolConfig{{Name: "a", Code: 1, Size: 12, Codec: "port"}}, 1},
		{"MissingCodec", []ProtocolConfig{{Name: "a", Code: 1, Size: 16}}, 1},
		{"UnknownCodec", []ProtocolConfig{{Name: "a", Code: 1, Size: 16, Codec: "nope"}}, 1},
		{"FixedPath", []ProtocolConfig{{Name: "a", Code: 1, Size: 16, Codec: "port", Path: true}}, 1},
		{"Duplicates", []ProtocolConfig{
			{Name: "a", Code: 1},
			{Name: "a", Code: 1},
		}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := RegistryConfig{Protocols: tt.protos}
			err := cfg.Validate()
			if tt.wantErr == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			errs := multierr.Errors(err)
			assert.Len(t, errs, tt.wantErr)
			for _, e := range errs {
				var ve *ValidationError
				assert.True(t, errors.As(e, &ve))
			}
		})
	}
}

func TestRegistryConfig_Descriptors(t *testing.T) {
	cfg := RegistryConfig{Protocols: []ProtocolConfig{
		{Name: "a", Code: 0x300000, Size: 32, Codec: "ip4"},
		{Name: "b", Code: 0x300001},
	}}
	ps, err := cfg.Descriptors()
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, multiaddr.CodecIP4, ps[0].Codec)
	assert.Equal(t, "b", ps[1].Name)
}

// TestFromJSON 测试从 JSON 加载
func TestFromJSON(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := FromJSON([]byte(`{}`))
		require.NoError(t, err)
		assert.True(t, cfg.Registry.IncludeBuiltins)
		assert.True(t, cfg.Registry.SealOnStart)
	})

	t.Run("Custom", func(t *testing.T) {
		data := []byte(`{
			"registry": {
				"seal_on_start": false,
				"protocols": [{"name": "myproto", "code": 3145728, "size": 16, "codec": "port"}]
			}
		}`)
		cfg, err := FromJSON(data)
		require.NoError(t, err)
		assert.False(t, cfg.Registry.SealOnStart)
		assert.True(t, cfg.Registry.IncludeBuiltins)
		require.Len(t, cfg.Registry.Protocols, 1)
		assert.Equal(t, "myproto", cfg.Registry.Protocols[0].Name)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := FromJSON([]byte(`{"registry": {"protocols": [{"name": "", "code": 1}]}}`))
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := FromJSON([]byte(`{`))
		assert.Error(t, err)
	})
}

func TestConfig_ToJSONRoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.Registry.Protocols = []ProtocolConfig{{Name: "myproto", Code: 0x300000, Size: -1, Codec: "dns"}}

	data, err := cfg.ToJSON()
	require.NoError(t, err)

	got, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestMustValidate(t *testing.T) {
	assert.NotPanics(t, func() { MustValidate(NewConfig()) })

	cfg := NewConfig()
	cfg.Registry.Protocols = []ProtocolConfig{{Name: ""}}
	assert.Panics(t, func() { MustValidate(cfg) })
}

func TestCacheConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultCacheConfig().Validate())
	assert.NoError(t, CacheConfig{Enable: false, Size: 0}.Validate())
	assert.NoError(t, CacheConfig{Enable: true, Size: 16}.Validate())

	err := CacheConfig{Enable: true, Size: 0}.Validate()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "cache.size", ve.Field)

	cfg := NewConfig()
	cfg.Cache = CacheConfig{Enable: true}
	assert.Error(t, cfg.Validate())

	cfg, err = FromJSON([]byte(`{"cache": {"enable": true, "size": 8}}`))
	require.NoError(t, err)
	assert.Equal(t, CacheConfig{Enable: true, Size: 8}, cfg.Cache)
}
