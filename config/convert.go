package config

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保留默认值。
//
// 示例 JSON:
//
//	{
//	  "registry": {
//	    "include_builtins": true,
//	    "seal_on_start": true,
//	    "protocols": [
//	      {"name": "myproto", "code": 3145728, "size": 16, "codec": "port"}
//	    ]
//	  }
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToJSON 将配置序列化为 JSON
func (c *Config) ToJSON() ([]byte, error) {
	if c == nil {
		return nil, errors.New("config is nil")
	}
	return json.MarshalIndent(c, "", "  ")
}
