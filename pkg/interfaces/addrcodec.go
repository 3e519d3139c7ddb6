// Package interfaces 定义公共接口
//
// 本文件定义地址编解码接口，供上层地址对象调用。
package interfaces

import (
	"github.com/dep2p/go-multiaddr/pkg/lib/multiaddr"
)

// ProtocolLookup 协议查找接口
type ProtocolLookup interface {
	// ProtocolWithName 按名称查找协议
	ProtocolWithName(name string) (multiaddr.Protocol, error)

	// ProtocolWithCode 按代码查找协议
	ProtocolWithCode(code int) (multiaddr.Protocol, error)
}

// AddressCodec 多地址编解码接口
//
// 所有方法都是纯函数，可并发调用。
type AddressCodec interface {
	ProtocolLookup

	// StringToBytes 将多地址字符串编码为二进制
	StringToBytes(s string) ([]byte, error)

	// BytesToString 将二进制多地址解码为字符串
	BytesToString(b []byte) (string, error)

	// Split 将二进制多地址拆分为有序的段
	Split(b []byte) ([]multiaddr.Segment, error)
}
