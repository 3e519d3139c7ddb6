// Package config 提供编解码器的统一配置
//
// 本包采用与组件一一对应的子配置：
//   - Registry: 协议注册表（内置协议、自定义协议、冻结策略）
//   - Cache: 地址编解码结果缓存
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//
//	// 追加自定义协议
//	cfg.Registry.Protocols = append(cfg.Registry.Protocols, config.ProtocolConfig{
//	    Name: "myproto", Code: 0x300000, Size: 16, Codec: "port",
//	})
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

import (
	"errors"
	"fmt"
)

// Config 是编解码器的完整配置结构
type Config struct {
	// Registry 协议注册表配置
	Registry RegistryConfig `json:"registry"`

	// Cache 编解码缓存配置
	Cache CacheConfig `json:"cache"`
}

// NewConfig 创建默认配置
//
// 默认包含全部内置协议，启动后冻结注册表，无自定义协议。
func NewConfig() *Config {
	return &Config{
		Registry: DefaultRegistryConfig(),
		Cache:    DefaultCacheConfig(),
	}
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Registry.Validate(); err != nil {
		return fmt.Errorf("registry config: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}
	return nil
}
