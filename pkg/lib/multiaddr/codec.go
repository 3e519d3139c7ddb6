package multiaddr

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// ============================================================================
//                              单协议值编解码
// ============================================================================

// AddressStringToBytes 将单个协议值转换为其二进制形式
//
// 变长协议的结果带 varint 长度前缀，与地址中该段代码之后的字节一致。
func AddressStringToBytes(p Protocol, s string) ([]byte, error) {
	t, ok := TranscoderFor(p.Codec)
	if !ok {
		return nil, &ValueError{Protocol: p.Name, Input: s, Err: fmt.Errorf("%w: %s", ErrNoTranscoder, p.Codec)}
	}
	b, err := t.StringToBytes(s)
	if err != nil {
		return nil, &ValueError{Protocol: p.Name, Input: s, Err: err}
	}
	if p.Size == LengthPrefixedVarSize {
		return append(EncodeVarint(uint64(len(b))), b...), nil
	}
	if p.Size/8 != len(b) {
		return nil, &ValueError{Protocol: p.Name, Input: s, Err: fmt.Errorf("value is %d bytes, protocol needs %d", len(b), p.Size/8)}
	}
	return b, nil
}

// AddressBytesToString 将单个协议值的二进制形式转换为字符串
//
// 变长协议要求输入以 varint 长度前缀开头，且长度与剩余字节完全一致。
func AddressBytesToString(p Protocol, b []byte) (string, error) {
	t, ok := TranscoderFor(p.Codec)
	if !ok {
		return "", &ValueError{Protocol: p.Name, Input: hex.EncodeToString(b), Err: fmt.Errorf("%w: %s", ErrNoTranscoder, p.Codec)}
	}
	raw := b
	if p.Size == LengthPrefixedVarSize {
		length, n, err := DecodeVarint(b, 0)
		if err != nil {
			return "", &ValueError{Protocol: p.Name, Input: hex.EncodeToString(b), Err: err}
		}
		if uint64(len(b)-n) != length {
			return "", &ValueError{
				Protocol: p.Name,
				Input:    hex.EncodeToString(b),
				Err:      fmt.Errorf("inconsistent lengths: prefix says %d, have %d", length, len(b)-n),
			}
		}
		raw = b[n:]
	}
	s, err := t.BytesToString(raw)
	if err != nil {
		return "", &ValueError{Protocol: p.Name, Input: hex.EncodeToString(b), Err: err}
	}
	return s, nil
}

// ============================================================================
//                              分段
// ============================================================================

// Segment 二进制地址中的一段：[varint:code][payload]
type Segment struct {
	// Protocol 该段的协议
	Protocol Protocol

	raw     []byte
	codeLen int
	// prefixLen 变长协议的长度前缀字节数
	prefixLen int
}

// Code 返回协议代码
func (s Segment) Code() int {
	return s.Protocol.Code
}

// Bytes 返回整段字节（含协议代码）
func (s Segment) Bytes() []byte {
	return s.raw
}

// Payload 返回协议代码之后的字节（变长协议含长度前缀）
func (s Segment) Payload() []byte {
	return s.raw[s.codeLen:]
}

// RawValue 返回去掉长度前缀的值字节
func (s Segment) RawValue() []byte {
	return s.raw[s.codeLen+s.prefixLen:]
}

// Value 返回值的文本形式，无值协议返回空串
func (s Segment) Value() (string, error) {
	if s.Protocol.Size == 0 {
		return "", nil
	}
	return AddressBytesToString(s.Protocol, s.Payload())
}

// String 返回 /name/value 形式，值无法解码时只返回 /name
func (s Segment) String() string {
	v, err := s.Value()
	if err != nil || s.Protocol.Size == 0 {
		return "/" + s.Protocol.Name
	}
	return "/" + s.Protocol.Name + "/" + v
}

// SizeForAddr 计算协议数据部分的字节数
//
// 固定长度返回 Size/8，与 buf 内容无关。
// 变长返回 varint 值加上 varint 自身占用的字节数，前缀算作该段的一部分。
func SizeForAddr(p Protocol, buf []byte) (int, error) {
	size, _, err := sizeForAddr(p, buf)
	return size, err
}

// sizeForAddr 同 SizeForAddr，另外返回长度前缀的字节数（固定长度为 0）
func sizeForAddr(p Protocol, buf []byte) (size, prefixLen int, err error) {
	if p.Size != LengthPrefixedVarSize {
		return p.Size / 8, 0, nil
	}
	length, n, err := DecodeVarint(buf, 0)
	if err != nil {
		return 0, 0, err
	}
	if length > uint64(len(buf)-n) {
		return 0, 0, fmt.Errorf("%w: declared %d bytes, have %d", ErrShortBuffer, length, len(buf)-n)
	}
	return int(length) + n, n, nil
}

// ForEach 按顺序遍历二进制地址的每一段
//
// fn 返回 false 时停止遍历。遇到错误时返回 *BinaryParseError，
// 此前已交给 fn 的段保持有效。
func (r *Registry) ForEach(b []byte, fn func(Segment) bool) error {
	for offset := 0; offset < len(b); {
		rest := b[offset:]

		code, n, err := ReadVarintCode(rest)
		if err != nil {
			return &BinaryParseError{Message: "failed to read protocol code", Binary: b, Err: err}
		}
		proto, err := r.ByCode(code)
		if err != nil {
			return &BinaryParseError{Message: "unknown protocol code", Binary: b, Err: err}
		}

		size, prefixLen, err := sizeForAddr(proto, rest[n:])
		if err != nil {
			return &BinaryParseError{Message: "failed to read value size", Binary: b, Protocol: proto.Name, Err: err}
		}
		if len(rest)-n < size {
			return &BinaryParseError{
				Message:  "insufficient data",
				Binary:   b,
				Protocol: proto.Name,
				Err:      fmt.Errorf("%w: need %d, have %d", ErrShortBuffer, size, len(rest)-n),
			}
		}

		seg := Segment{Protocol: proto, raw: rest[:n+size], codeLen: n, prefixLen: prefixLen}
		offset += n + size

		if !fn(seg) {
			return nil
		}
	}
	return nil
}

// Split 将二进制地址拆分为有序的段
//
// 出错时不返回部分结果。
func (r *Registry) Split(b []byte) ([]Segment, error) {
	var segs []Segment
	err := r.ForEach(b, func(s Segment) bool {
		segs = append(segs, s)
		return true
	})
	if err != nil {
		return nil, err
	}
	return segs, nil
}

// ============================================================================
//                              字符串 <-> 二进制
// ============================================================================

// StringToBytes 将多地址字符串转换为二进制格式
func (r *Registry) StringToBytes(s string) ([]byte, error) {
	orig := s
	// 去除尾部斜杠
	s = strings.TrimRight(s, "/")

	if len(s) == 0 {
		return nil, &StringParseError{Message: "empty multiaddr", String: orig, Err: ErrEmptyAddress}
	}
	if !strings.HasPrefix(s, "/") {
		return nil, &StringParseError{Message: "multiaddr must begin with /", String: orig}
	}

	var buf bytes.Buffer
	// 跳过第一个空元素
	parts := strings.Split(s, "/")[1:]

	for len(parts) > 0 {
		name := parts[0]
		proto, err := r.ByName(name)
		if err != nil {
			return nil, &StringParseError{Message: "unknown protocol", String: orig, Protocol: name, Err: err}
		}
		parts = parts[1:]

		// 写入协议代码（varint）
		buf.Write(proto.VCode)

		// 如果协议无数据，继续下一个
		if proto.Size == 0 {
			continue
		}

		if len(parts) < 1 {
			return nil, &StringParseError{Message: "protocol requires a value, none given", String: orig, Protocol: name}
		}

		// 路径协议消费剩余所有部分
		if proto.Path {
			parts = []string{"/" + strings.Join(parts, "/")}
		}

		valueBytes, err := AddressStringToBytes(proto, parts[0])
		if err != nil {
			return nil, &StringParseError{Message: "invalid value", String: orig, Protocol: name, Err: err}
		}
		buf.Write(valueBytes)
		parts = parts[1:]
	}

	return buf.Bytes(), nil
}

// BytesToString 将二进制格式的多地址转换为字符串
func (r *Registry) BytesToString(b []byte) (string, error) {
	if len(b) == 0 {
		return "", &BinaryParseError{Message: "empty multiaddr", Binary: b, Err: ErrEmptyAddress}
	}

	segs, err := r.Split(b)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, seg := range segs {
		sb.WriteString("/")
		sb.WriteString(seg.Protocol.Name)

		if seg.Protocol.Size == 0 {
			continue
		}

		value, err := seg.Value()
		if err != nil {
			return "", &BinaryParseError{Message: "invalid value", Binary: b, Protocol: seg.Protocol.Name, Err: err}
		}
		// 路径协议的值自带前导 '/'
		if !seg.Protocol.Path || !strings.HasPrefix(value, "/") {
			sb.WriteString("/")
		}
		sb.WriteString(value)
	}

	return sb.String(), nil
}

// ValidateBytes 验证二进制多地址的结构和每段的值
func (r *Registry) ValidateBytes(b []byte) error {
	_, err := r.BytesToString(b)
	return err
}

// ============================================================================
//                              默认注册表快捷方法
// ============================================================================

// StringToBytes 使用默认注册表将字符串转换为二进制
func StringToBytes(s string) ([]byte, error) {
	return DefaultRegistry.StringToBytes(s)
}

// BytesToString 使用默认注册表将二进制转换为字符串
func BytesToString(b []byte) (string, error) {
	return DefaultRegistry.BytesToString(b)
}

// ValidateBytes 使用默认注册表验证二进制多地址
func ValidateBytes(b []byte) error {
	return DefaultRegistry.ValidateBytes(b)
}

// Split 使用默认注册表拆分二进制地址
func Split(b []byte) ([]Segment, error) {
	return DefaultRegistry.Split(b)
}

// ForEach 使用默认注册表遍历二进制地址
func ForEach(b []byte, fn func(Segment) bool) error {
	return DefaultRegistry.ForEach(b, fn)
}
