package config

// CacheConfig 编解码缓存配置
//
// 缓存以地址字符串和二进制为键，保存 StringToBytes / BytesToString 的结果。
type CacheConfig struct {
	// Enable 是否启用缓存
	Enable bool `json:"enable"`

	// Size 每个方向最多缓存的地址数
	Size int `json:"size"`
}

// DefaultCacheConfig 返回默认缓存配置
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enable: false,
		Size:   1024,
	}
}

// Validate 验证缓存配置
func (c CacheConfig) Validate() error {
	if c.Enable && c.Size <= 0 {
		return &ValidationError{Field: "cache.size", Message: "启用缓存时必须大于 0"}
	}
	return nil
}
