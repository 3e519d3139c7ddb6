package multiaddr

import (
	"bytes"
	"fmt"
	"strings"
)

// Protocol 描述一个 multiaddr 协议
type Protocol struct {
	// Name 协议名称（如 "ip4", "tcp"）
	Name string

	// Code 协议代码
	Code int

	// VCode 预计算的 varint 编码
	VCode []byte

	// Size 协议数据大小（位）
	// 0 表示无数据
	// -1 表示变长（length-prefixed）
	Size int

	// Path 是否为路径协议（值吞掉地址剩余部分）
	Path bool

	// Codec 值编解码器
	Codec Codec
}

// String 返回协议名称
func (p Protocol) String() string {
	return p.Name
}

// clone 返回不与原值共享 VCode 的副本
func (p Protocol) clone() Protocol {
	p.VCode = bytes.Clone(p.VCode)
	return p
}

// LengthPrefixedVarSize 表示变长数据（使用 varint 前缀）
const LengthPrefixedVarSize = -1

// validate 检查描述符是否自洽
func (p Protocol) validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidProtocol)
	case strings.Contains(p.Name, "/"):
		return fmt.Errorf("%w: name %q contains '/'", ErrInvalidProtocol, p.Name)
	case p.Code < 0 || p.Code > maxCode:
		return fmt.Errorf("%w: code %d out of range", ErrInvalidProtocol, p.Code)
	case p.Size != LengthPrefixedVarSize && (p.Size < 0 || p.Size%8 != 0):
		return fmt.Errorf("%w: size %d is not a multiple of 8", ErrInvalidProtocol, p.Size)
	case p.Path && p.Size != LengthPrefixedVarSize:
		return fmt.Errorf("%w: path protocol %s must be variable size", ErrInvalidProtocol, p.Name)
	case p.VCode != nil && !bytes.Equal(p.VCode, CodeToVarint(p.Code)):
		return fmt.Errorf("%w: vcode %x does not encode code %d", ErrInvalidProtocol, p.VCode, p.Code)
	}
	if p.Size != 0 {
		if _, ok := TranscoderFor(p.Codec); !ok {
			return fmt.Errorf("%w: protocol %s has no transcoder for %s", ErrInvalidProtocol, p.Name, p.Codec)
		}
	}
	return nil
}

const maxCode = 1<<31 - 1

// 协议代码常量
//
// 核心集合沿用早期 multiaddr 表（udp = 17），其余与 multiformats/multicodec 对齐。
const (
	P_IP4         = 0x0004
	P_TCP         = 0x0006
	P_UDP         = 0x0011
	P_DCCP        = 0x0021
	P_IP6         = 0x0029
	P_IP6ZONE     = 0x002A
	P_IPCIDR      = 0x002B
	P_DNS         = 0x0035
	P_DNS4        = 0x0036
	P_DNS6        = 0x0037
	P_DNSADDR     = 0x0038
	P_SCTP        = 0x0084
	P_P2P_CIRCUIT = 0x0122
	P_UTP         = 0x012D
	P_UDT         = 0x012E
	P_UNIX        = 0x0190
	P_IPFS        = 0x01A5
	P_HTTPS       = 0x01BB
	P_ONION       = 0x01BC
	P_ONION3      = 0x01BD
	P_GARLIC64    = 0x01BE
	P_GARLIC32    = 0x01BF
	P_TLS         = 0x01C0
	P_NOISE       = 0x01C6
	P_QUIC        = 0x01CC
	P_QUIC_V1     = 0x01CD
	P_WS          = 0x01DD
	P_WSS         = 0x01DE
	P_HTTP        = 0x01E0
)

func fixed(name string, code, size int, codec Codec) Protocol {
	return Protocol{Name: name, Code: code, VCode: CodeToVarint(code), Size: size, Codec: codec}
}

func varSize(name string, code int, codec Codec) Protocol {
	return Protocol{Name: name, Code: code, VCode: CodeToVarint(code), Size: LengthPrefixedVarSize, Codec: codec}
}

func marker(name string, code int) Protocol {
	return Protocol{Name: name, Code: code, VCode: CodeToVarint(code)}
}

var (
	protoIP4        = fixed("ip4", P_IP4, 32, CodecIP4)
	protoTCP        = fixed("tcp", P_TCP, 16, CodecPort)
	protoUDP        = fixed("udp", P_UDP, 16, CodecPort)
	protoDCCP       = fixed("dccp", P_DCCP, 16, CodecPort)
	protoIP6        = fixed("ip6", P_IP6, 128, CodecIP6)
	protoIP6ZONE    = varSize("ip6zone", P_IP6ZONE, CodecIP6Zone)
	protoIPCIDR     = fixed("ipcidr", P_IPCIDR, 8, CodecIPCIDR)
	protoDNS        = varSize("dns", P_DNS, CodecDNS)
	protoDNS4       = varSize("dns4", P_DNS4, CodecDNS)
	protoDNS6       = varSize("dns6", P_DNS6, CodecDNS)
	protoDNSADDR    = varSize("dnsaddr", P_DNSADDR, CodecDNS)
	protoSCTP       = fixed("sctp", P_SCTP, 16, CodecPort)
	protoP2PCircuit = marker("p2p-circuit", P_P2P_CIRCUIT)
	protoUTP        = marker("utp", P_UTP)
	protoUDT        = marker("udt", P_UDT)
	protoUNIX       = Protocol{
		Name:  "unix",
		Code:  P_UNIX,
		VCode: CodeToVarint(P_UNIX),
		Size:  LengthPrefixedVarSize,
		Path:  true,
		Codec: CodecUnix,
	}
	protoIPFS     = varSize("ipfs", P_IPFS, CodecMultihash)
	protoHTTPS    = marker("https", P_HTTPS)
	protoONION    = fixed("onion", P_ONION, 96, CodecOnion)
	protoONION3   = fixed("onion3", P_ONION3, 296, CodecOnion3)
	protoGARLIC64 = varSize("garlic64", P_GARLIC64, CodecGarlic64)
	protoGARLIC32 = varSize("garlic32", P_GARLIC32, CodecGarlic32)
	protoTLS      = marker("tls", P_TLS)
	protoNOISE    = marker("noise", P_NOISE)
	protoQUIC     = marker("quic", P_QUIC)
	protoQUIC_V1  = marker("quic-v1", P_QUIC_V1)
	protoWS       = marker("ws", P_WS)
	protoWSS      = marker("wss", P_WSS)
	protoHTTP     = marker("http", P_HTTP)
)

// builtinProtocols 内置协议集合，按代码排序
var builtinProtocols = []Protocol{
	protoIP4,
	protoTCP,
	protoUDP,
	protoDCCP,
	protoIP6,
	protoIP6ZONE,
	protoIPCIDR,
	protoDNS,
	protoDNS4,
	protoDNS6,
	protoDNSADDR,
	protoSCTP,
	protoP2PCircuit,
	protoUTP,
	protoUDT,
	protoUNIX,
	protoIPFS,
	protoHTTPS,
	protoONION,
	protoONION3,
	protoGARLIC64,
	protoGARLIC32,
	protoTLS,
	protoNOISE,
	protoQUIC,
	protoQUIC_V1,
	protoWS,
	protoWSS,
	protoHTTP,
}

// BuiltinProtocols 返回内置协议描述符的副本
func BuiltinProtocols() []Protocol {
	out := make([]Protocol, len(builtinProtocols))
	for i, p := range builtinProtocols {
		out[i] = p.clone()
	}
	return out
}
