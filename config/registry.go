package config

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/multierr"

	"github.com/dep2p/go-multiaddr/pkg/lib/multiaddr"
)

// RegistryConfig 协议注册表配置
type RegistryConfig struct {
	// IncludeBuiltins 是否注册内置协议
	IncludeBuiltins bool `json:"include_builtins"`

	// SealOnStart 启动后冻结注册表
	//
	// 冻结后不再接受注册，并发读取无需任何同步。
	SealOnStart bool `json:"seal_on_start"`

	// Protocols 额外注册的自定义协议
	Protocols []ProtocolConfig `json:"protocols,omitempty"`
}

// DefaultRegistryConfig 返回默认注册表配置
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		IncludeBuiltins: true,
		SealOnStart:     true,
	}
}

// ProtocolConfig 自定义协议描述
type ProtocolConfig struct {
	// Name 协议名称，出现在字符串地址中
	Name string `json:"name"`

	// Code 协议代码
	Code int `json:"code"`

	// Size 值大小（位），0 表示无值，-1 表示变长
	Size int `json:"size"`

	// Codec 值编解码器名称，如 "ip4"、"port"、"multihash"
	// 无值协议可省略
	Codec string `json:"codec,omitempty"`

	// Path 值是否吞掉地址剩余部分
	Path bool `json:"path,omitempty"`
}

// Protocol 转换为协议描述符
func (p ProtocolConfig) Protocol() (multiaddr.Protocol, error) {
	codec := multiaddr.CodecNone
	if p.Codec != "" {
		c, err := multiaddr.ParseCodec(strings.ToLower(p.Codec))
		if err != nil {
			return multiaddr.Protocol{}, fmt.Errorf("protocol %q: %w", p.Name, err)
		}
		codec = c
	}
	return multiaddr.Protocol{
		Name:  p.Name,
		Code:  p.Code,
		Size:  p.Size,
		Path:  p.Path,
		Codec: codec,
	}, nil
}

// Validate 验证注册表配置
//
// 检查每个自定义协议能否转换为描述符，以及配置内部的名称和代码是否重复。
// 与内置协议的冲突在注册时报告。
func (c RegistryConfig) Validate() error {
	var errs error
	names := make(map[string]struct{}, len(c.Protocols))
	codes := make(map[int]struct{}, len(c.Protocols))

	for i, pc := range c.Protocols {
		field := fmt.Sprintf("protocols[%d]", i)
		if pc.Name == "" {
			errs = multierr.Append(errs, &ValidationError{Field: field + ".name", Message: "不能为空"})
		}
		if strings.Contains(pc.Name, "/") {
			errs = multierr.Append(errs, &ValidationError{Field: field + ".name", Message: "不能包含 '/'"})
		}
		if pc.Code < 0 || pc.Code > math.MaxInt32 {
			errs = multierr.Append(errs, &ValidationError{Field: field + ".code", Message: fmt.Sprintf("超出范围 0..%d", math.MaxInt32)})
		}
		if pc.Size != multiaddr.LengthPrefixedVarSize && (pc.Size < 0 || pc.Size%8 != 0) {
			errs = multierr.Append(errs, &ValidationError{Field: field + ".size", Message: "必须为 -1 或 8 的非负倍数"})
		}
		if pc.Size != 0 && pc.Codec == "" {
			errs = multierr.Append(errs, &ValidationError{Field: field + ".codec", Message: "有值协议必须指定编解码器"})
		}
		if pc.Codec != "" {
			if _, err := multiaddr.ParseCodec(strings.ToLower(pc.Codec)); err != nil {
				errs = multierr.Append(errs, &ValidationError{Field: field + ".codec", Message: err.Error()})
			}
		}
		if pc.Path && pc.Size != multiaddr.LengthPrefixedVarSize {
			errs = multierr.Append(errs, &ValidationError{Field: field + ".path", Message: "路径协议必须是变长协议"})
		}

		if _, dup := names[pc.Name]; dup && pc.Name != "" {
			errs = multierr.Append(errs, &ValidationError{Field: field + ".name", Message: fmt.Sprintf("名称 %q 重复", pc.Name)})
		}
		if _, dup := codes[pc.Code]; dup {
			errs = multierr.Append(errs, &ValidationError{Field: field + ".code", Message: fmt.Sprintf("代码 %d 重复", pc.Code)})
		}
		names[pc.Name] = struct{}{}
		codes[pc.Code] = struct{}{}
	}
	return errs
}

// Descriptors 将自定义协议转换为描述符列表
func (c RegistryConfig) Descriptors() ([]multiaddr.Protocol, error) {
	out := make([]multiaddr.Protocol, 0, len(c.Protocols))
	for _, pc := range c.Protocols {
		p, err := pc.Protocol()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
