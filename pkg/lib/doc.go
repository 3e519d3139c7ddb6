// Package lib 包含基础设施工具库
//
// 本目录包含与具体组件无关的通用工具库：
//
//   - multiaddr: 多地址协议注册表及字符串/二进制编解码
//   - log: 日志封装
//
// # 与 pkg/ 其他目录的关系
//
//   - interfaces/: 组件公共接口
//   - lib/: 基础设施工具库（本目录）
//
// # 使用示例
//
//	import (
//	    "github.com/dep2p/go-multiaddr/pkg/lib/log"
//	    "github.com/dep2p/go-multiaddr/pkg/lib/multiaddr"
//	)
package lib
