// Package multiaddr 提供多地址（Multiaddr）的协议注册表和编解码引擎
//
// Multiaddr 是一种自描述的网络地址格式：每一段都带有协议代码，
// 无需外部模式即可知道每段使用哪种传输或覆盖网络协议。
//
// # 基本用法
//
//	// 字符串 -> 二进制
//	b, err := multiaddr.StringToBytes("/ip4/127.0.0.1/udp/1234")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// 二进制 -> 字符串
//	s, err := multiaddr.BytesToString(b) // /ip4/127.0.0.1/udp/1234
//
//	// 拆分为段
//	segs, err := multiaddr.Split(b)
//	for _, seg := range segs {
//	    fmt.Println(seg.Protocol.Name, seg.Payload())
//	}
//
// # 协议注册表
//
// 注册表同时按名称和代码索引协议描述符。DefaultRegistry 包含内置协议，
// 自定义协议应在启动阶段注册：
//
//	err := multiaddr.AddProtocol(multiaddr.Protocol{
//	    Name:  "myproto",
//	    Code:  0x300000,
//	    Size:  16,
//	    Codec: multiaddr.CodecPort,
//	})
//
// 独立的注册表可用 NewDefaultRegistry 创建，注册完成后调用 Seal 冻结。
//
// # 地址格式
//
// 字符串格式：
//
//	/ip4/127.0.0.1/tcp/4001
//	/ip6/1aa1:2bb2:3cc3:4dd4:5ee5:6ff6:7ab7:8ac8/udp/4001
//	/onion/timaq4ygg2iegci7:1234
//	/ipfs/QmcgpsyWgH8Y8ajJz1Cu72KnS5uo2Aa2LpzU7kinSupNKC
//
// 二进制格式：
//
//	segment := [varint:protocol_code][payload]
//	payload := 固定长度字节 | [varint:length][data_bytes]
//
// 变长协议的长度前缀计入该段的字节跨度，见 SizeForAddr。
//
// # 错误
//
// 所有错误都可用 errors.Is 归类：ErrLookup、ErrParse、ErrInvalidValue、
// ErrProtocolManager；具体类型见 ProtocolNotFoundError、StringParseError、
// BinaryParseError、ProtocolExistsError、ValueError。
package multiaddr
