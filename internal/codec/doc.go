// Package codec 将多地址编解码器接入 Fx
//
// 模块根据统一配置构建协议注册表：注册内置协议和配置中的自定义协议，
// 并在应用启动时按配置冻结注册表。冻结之后注册表只读，
// 所有编解码操作都可以无锁并发执行。
//
// 可选组件：
//   - CachedCodec: 配置 cache.enable 后，导出的 AddressCodec 带 LRU 缓存
//   - Metrics: 容器中存在 prometheus.Registerer 时注册注册表和缓存指标
//
// # 使用示例
//
//	app := fx.New(
//	    fx.Supply(cfg),
//	    codec.Module,
//	    fx.Invoke(func(c interfaces.AddressCodec) {
//	        b, _ := c.StringToBytes("/ip4/127.0.0.1/tcp/4001")
//	        _ = b
//	    }),
//	)
package codec
