package codec

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	pkgif "github.com/dep2p/go-multiaddr/pkg/interfaces"
)

// CachedCodec 带 LRU 缓存的地址编解码器
//
// 只缓存成功的结果，注册新协议不会使已缓存的结果失效。
// 返回的字节切片是缓存值的副本，调用方可以修改。
type CachedCodec struct {
	pkgif.AddressCodec

	s2b     *lru.Cache[string, []byte]
	b2s     *lru.Cache[string, string]
	metrics *Metrics
}

var _ pkgif.AddressCodec = (*CachedCodec)(nil)

// NewCachedCodec 创建缓存编解码器，size 为每个方向的容量
func NewCachedCodec(inner pkgif.AddressCodec, size int, metrics *Metrics) (*CachedCodec, error) {
	s2b, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create string cache: %w", err)
	}
	b2s, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("create binary cache: %w", err)
	}
	return &CachedCodec{
		AddressCodec: inner,
		s2b:          s2b,
		b2s:          b2s,
		metrics:      metrics,
	}, nil
}

// StringToBytes 编码字符串地址，优先读取缓存
func (c *CachedCodec) StringToBytes(s string) ([]byte, error) {
	if b, ok := c.s2b.Get(s); ok {
		c.metrics.cacheHit(opStringToBytes)
		return append([]byte(nil), b...), nil
	}
	c.metrics.cacheMiss(opStringToBytes)

	b, err := c.AddressCodec.StringToBytes(s)
	if err != nil {
		return nil, err
	}
	c.s2b.Add(s, append([]byte(nil), b...))
	return b, nil
}

// BytesToString 解码二进制地址，优先读取缓存
func (c *CachedCodec) BytesToString(b []byte) (string, error) {
	key := string(b)
	if s, ok := c.b2s.Get(key); ok {
		c.metrics.cacheHit(opBytesToString)
		return s, nil
	}
	c.metrics.cacheMiss(opBytesToString)

	s, err := c.AddressCodec.BytesToString(b)
	if err != nil {
		return "", err
	}
	c.b2s.Add(key, s)
	return s, nil
}

// Len 返回两个方向缓存的条目数
func (c *CachedCodec) Len() (stringToBytes, bytesToString int) {
	return c.s2b.Len(), c.b2s.Len()
}

// Purge 清空缓存
func (c *CachedCodec) Purge() {
	c.s2b.Purge()
	c.b2s.Purge()
}
