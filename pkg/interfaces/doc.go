// Package interfaces 定义公共接口
//
// 本包只包含接口，实现位于 pkg/lib 和 internal 下：
//   - addrcodec.go      - 多地址编解码与协议查找（实现：multiaddr.Registry）
//
// 上层组件依赖这些接口，而不是具体实现，便于在 Fx 中替换。
package interfaces
