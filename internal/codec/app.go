package codec

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-multiaddr/config"
)

// NewApp 创建只包含编解码器模块的 Fx 应用
//
// cfg 为 nil 时使用默认配置。Fx 自身的事件日志被丢弃，
// 组件日志仍通过 pkg/lib/log 输出。
func NewApp(cfg *config.Config, opts ...fx.Option) *fx.App {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	modules := []fx.Option{
		fx.Supply(cfg),
		Module,
	}
	modules = append(modules, opts...)
	modules = append(modules,
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	return fx.New(modules...)
}
