package multiaddr

import (
	"errors"
	"fmt"
	"math"

	"github.com/multiformats/go-varint"
)

// Varint 编解码错误
var (
	ErrVarintOverflow   = errors.New("varint: value overflows uint63")
	ErrVarintTooShort   = errors.New("varint: buffer too short")
	ErrVarintNotMinimal = errors.New("varint: not minimally encoded")
)

// MaxVarintValue 可解码的最大值（go-varint 限制为 63 位）
const MaxVarintValue = varint.MaxValueUvarint63

// EncodeVarint 编码无符号 varint（最小长度）
//
// 超过 MaxVarintValue 的值能编码但不能被 DecodeVarint 读回。
func EncodeVarint(n uint64) []byte {
	return varint.ToUvarint(n)
}

// DecodeVarint 从 buf[offset:] 读取一个 varint
// 返回：(value, bytes_read, error)
func DecodeVarint(buf []byte, offset int) (uint64, int, error) {
	if offset < 0 || offset > len(buf) {
		return 0, 0, fmt.Errorf("%w: offset %d out of range", ErrVarintTooShort, offset)
	}
	x, n, err := varint.FromUvarint(buf[offset:])
	switch {
	case err == nil:
		return x, n, nil
	case errors.Is(err, varint.ErrUnderflow):
		return 0, 0, ErrVarintTooShort
	case errors.Is(err, varint.ErrNotMinimal):
		return 0, 0, ErrVarintNotMinimal
	default:
		return 0, 0, ErrVarintOverflow
	}
}

// CodeToVarint 将协议代码转换为 varint 编码的字节
//
// 仅用于初始化阶段的常量表，代码非法时 panic。
func CodeToVarint(code int) []byte {
	if code < 0 || code > math.MaxInt32 {
		panic(fmt.Sprintf("invalid protocol code: %d", code))
	}
	return EncodeVarint(uint64(code))
}

// ReadVarintCode 从字节流开头读取 varint 编码的协议代码
// 返回：(code, bytes_read, error)
func ReadVarintCode(buf []byte) (int, int, error) {
	code, n, err := DecodeVarint(buf, 0)
	if err != nil {
		return 0, 0, err
	}
	if code > math.MaxInt32 {
		// 只允许 32 位代码
		return 0, 0, ErrVarintOverflow
	}
	return int(code), n, nil
}
