package multiaddr

import (
	"errors"
	"fmt"

	sha256 "github.com/minio/sha256-simd"
	"github.com/mr-tron/base58"
	"lukechampine.com/blake3"
)

// 多哈希结构错误
var (
	ErrMultihashTooShort      = errors.New("multihash: too short")
	ErrMultihashLenMismatch   = errors.New("multihash: digest length mismatch")
	ErrMultihashInvalidBase58 = errors.New("multihash: invalid base58")
	ErrMultihashUnknownCode   = errors.New("multihash: unsupported hash function")
)

// 支持计算的哈希函数代码
const (
	MH_SHA2_256 = 0x12
	MH_BLAKE3   = 0x1e
)

// Multihash 解析后的多哈希
//
// 二进制格式：[varint:hash_fn][varint:digest_len][digest]
type Multihash struct {
	Code   uint64
	Length int
	Digest []byte
}

// DecodeMultihash 解析原始多哈希字节
//
// 声明的摘要长度必须与剩余字节数完全一致，不允许尾随字节。
func DecodeMultihash(b []byte) (Multihash, error) {
	if len(b) < 2 {
		return Multihash{}, ErrMultihashTooShort
	}

	code, n, err := DecodeVarint(b, 0)
	if err != nil {
		return Multihash{}, fmt.Errorf("multihash: hash function: %w", err)
	}
	length, m, err := DecodeVarint(b, n)
	if err != nil {
		return Multihash{}, fmt.Errorf("multihash: digest length: %w", err)
	}

	digest := b[n+m:]
	if uint64(len(digest)) != length {
		return Multihash{}, fmt.Errorf("%w: declared %d, have %d", ErrMultihashLenMismatch, length, len(digest))
	}

	return Multihash{
		Code:   code,
		Length: int(length),
		Digest: digest,
	}, nil
}

// EncodeMultihash 组装多哈希字节
func EncodeMultihash(code uint64, digest []byte) []byte {
	b := EncodeVarint(code)
	b = append(b, EncodeVarint(uint64(len(digest)))...)
	return append(b, digest...)
}

// SumMultihash 计算 data 的多哈希
//
// 支持 MH_SHA2_256 和 MH_BLAKE3，摘要均为 32 字节。
func SumMultihash(code uint64, data []byte) ([]byte, error) {
	var digest [32]byte
	switch code {
	case MH_SHA2_256:
		digest = sha256.Sum256(data)
	case MH_BLAKE3:
		digest = blake3.Sum256(data)
	default:
		return nil, fmt.Errorf("%w: 0x%x", ErrMultihashUnknownCode, code)
	}
	return EncodeMultihash(code, digest[:]), nil
}

// TranscoderMultihash 内容哈希标识（base58 文本）
var TranscoderMultihash = NewTranscoderFromFunctions(multihashStringToBytes, multihashBytesToString, multihashValidateBytes)

func multihashStringToBytes(s string) ([]byte, error) {
	if s == "" {
		return nil, errEmptyValue
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMultihashInvalidBase58, err)
	}
	if _, err := DecodeMultihash(b); err != nil {
		return nil, err
	}
	return b, nil
}

func multihashBytesToString(b []byte) (string, error) {
	return base58.Encode(b), nil
}

func multihashValidateBytes(b []byte) error {
	_, err := DecodeMultihash(b)
	return err
}
