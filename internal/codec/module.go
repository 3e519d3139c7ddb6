package codec

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-multiaddr/config"
	pkgif "github.com/dep2p/go-multiaddr/pkg/interfaces"
	"github.com/dep2p/go-multiaddr/pkg/lib/log"
	"github.com/dep2p/go-multiaddr/pkg/lib/multiaddr"
)

var logger = log.Logger("internal/codec")

var _ pkgif.AddressCodec = (*multiaddr.Registry)(nil)

// Module 编解码器 Fx 模块
var Module = fx.Module("multiaddr_codec",
	fx.Provide(
		NewFromParams,
	),
	fx.Invoke(registerLifecycle),
)

// Params 编解码器依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config        `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// Result 编解码器导出结果
type Result struct {
	fx.Out

	Registry *multiaddr.Registry
	Codec    pkgif.AddressCodec
	Lookup   pkgif.ProtocolLookup
	Metrics  *Metrics
}

// NewFromParams 从参数创建协议注册表
//
// 提供了 prometheus.Registerer 时注册指标；启用缓存时导出的
// AddressCodec 为 *CachedCodec。
func NewFromParams(p Params) (Result, error) {
	cfg := p.UnifiedCfg
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if err := cfg.Cache.Validate(); err != nil {
		return Result{}, err
	}

	reg, err := NewRegistry(cfg.Registry)
	if err != nil {
		return Result{}, err
	}

	var metrics *Metrics
	if p.Registerer != nil {
		if metrics, err = NewMetrics(p.Registerer, reg); err != nil {
			return Result{}, err
		}
	}

	var codec pkgif.AddressCodec = reg
	if cfg.Cache.Enable {
		cached, err := NewCachedCodec(reg, cfg.Cache.Size, metrics)
		if err != nil {
			return Result{}, err
		}
		codec = cached
		logger.Debug("启用编解码缓存", "size", cfg.Cache.Size)
	}

	return Result{
		Registry: reg,
		Codec:    codec,
		Lookup:   reg,
		Metrics:  metrics,
	}, nil
}

// NewRegistry 根据注册表配置构建注册表
//
// 不冻结注册表，冻结由生命周期在启动时完成。
func NewRegistry(cfg config.RegistryConfig) (*multiaddr.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid registry config: %w", err)
	}

	var reg *multiaddr.Registry
	if cfg.IncludeBuiltins {
		reg = multiaddr.NewDefaultRegistry()
	} else {
		reg = multiaddr.NewRegistry()
	}

	protos, err := cfg.Descriptors()
	if err != nil {
		return nil, err
	}
	for _, p := range protos {
		if err := reg.Register(p); err != nil {
			return nil, fmt.Errorf("register protocol %s: %w", p.Name, err)
		}
	}

	if len(protos) > 0 {
		logger.Info("已注册自定义协议", "count", len(protos), "total", reg.Len())
	}
	return reg, nil
}

// lifecycleParams 生命周期依赖
type lifecycleParams struct {
	fx.In

	LC         fx.Lifecycle
	Registry   *multiaddr.Registry
	UnifiedCfg *config.Config `optional:"true"`
}

// registerLifecycle 注册生命周期：启动时按配置冻结注册表
func registerLifecycle(p lifecycleParams) {
	seal := true
	if p.UnifiedCfg != nil {
		seal = p.UnifiedCfg.Registry.SealOnStart
	}

	p.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if seal {
				p.Registry.Seal()
			}
			logger.InfoContext(ctx, "协议注册表就绪", "protocols", p.Registry.Len(), "sealed", p.Registry.Sealed())
			return nil
		},
	})
}
