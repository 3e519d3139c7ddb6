package multiaddr

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-multiaddr/pkg/lib/log"
)

var logger = log.Logger("lib/multiaddr")

// ============================================================================
//                              Registry
// ============================================================================

// protocolTable 注册表的一个不可变快照
//
// 两个索引总是一起替换，按名称和按代码查到的描述符始终一致。
type protocolTable struct {
	byName map[string]Protocol
	byCode map[int]Protocol
}

// Registry 协议注册表
//
// 读操作无锁：读取当前快照即可。
// 写操作串行化：复制快照、插入、再原子替换。
// Seal 之后注册表只读，适合在并发使用前调用。
type Registry struct {
	mu     sync.Mutex
	table  atomic.Pointer[protocolTable]
	sealed atomic.Bool
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	r := &Registry{}
	r.table.Store(&protocolTable{
		byName: map[string]Protocol{},
		byCode: map[int]Protocol{},
	})
	return r
}

// NewDefaultRegistry 创建包含内置协议的注册表
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range builtinProtocols {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// Register 注册协议
//
// 名称或代码已存在时返回 *ProtocolExistsError，不会覆盖已有描述符。
// VCode 可省略；给出时必须与 Code 的 varint 编码一致。
func (r *Registry) Register(p Protocol) error {
	if err := p.validate(); err != nil {
		return err
	}
	// 注册表持有自己的 VCode，调用方之后修改原切片不影响注册表
	p.VCode = CodeToVarint(p.Code)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return fmt.Errorf("%w: cannot register %s", ErrRegistrySealed, p.Name)
	}

	cur := r.table.Load()
	if _, ok := cur.byName[p.Name]; ok {
		return &ProtocolExistsError{Protocol: p, Kind: LookupByName}
	}
	if _, ok := cur.byCode[p.Code]; ok {
		return &ProtocolExistsError{Protocol: p, Kind: LookupByCode}
	}

	next := &protocolTable{
		byName: make(map[string]Protocol, len(cur.byName)+1),
		byCode: make(map[int]Protocol, len(cur.byCode)+1),
	}
	for k, v := range cur.byName {
		next.byName[k] = v
	}
	for k, v := range cur.byCode {
		next.byCode[k] = v
	}
	next.byName[p.Name] = p
	next.byCode[p.Code] = p
	r.table.Store(next)

	logger.Debug("注册协议", "name", p.Name, "code", p.Code, "size", p.Size, "codec", p.Codec.String())
	return nil
}

// ByName 根据名称查找协议
//
// 返回值是副本，修改其 VCode 不影响注册表。
func (r *Registry) ByName(name string) (Protocol, error) {
	if p, ok := r.table.Load().byName[name]; ok {
		return p.clone(), nil
	}
	return Protocol{}, &ProtocolNotFoundError{Kind: LookupByName, Name: name}
}

// ByCode 根据代码查找协议
func (r *Registry) ByCode(code int) (Protocol, error) {
	if p, ok := r.table.Load().byCode[code]; ok {
		return p.clone(), nil
	}
	return Protocol{}, &ProtocolNotFoundError{Kind: LookupByCode, Code: code}
}

// ProtocolWithName 同 ByName
func (r *Registry) ProtocolWithName(name string) (Protocol, error) {
	return r.ByName(name)
}

// ProtocolWithCode 同 ByCode
func (r *Registry) ProtocolWithCode(code int) (Protocol, error) {
	return r.ByCode(code)
}

// Protocols 返回所有已注册协议，按代码排序
func (r *Registry) Protocols() []Protocol {
	t := r.table.Load()
	out := make([]Protocol, 0, len(t.byCode))
	for _, p := range t.byCode {
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Len 返回已注册协议数量
func (r *Registry) Len() int {
	return len(r.table.Load().byCode)
}

// Seal 冻结注册表，之后的 Register 返回 ErrRegistrySealed
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed.Store(true)
}

// Sealed 注册表是否已冻结
func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

// ============================================================================
//                              默认注册表
// ============================================================================

// DefaultRegistry 进程级默认注册表，包含内置协议
//
// 自定义协议应在启动阶段通过 AddProtocol 注册。
var DefaultRegistry = NewDefaultRegistry()

// AddProtocol 向默认注册表注册协议
func AddProtocol(p Protocol) error {
	return DefaultRegistry.Register(p)
}

// ProtocolWithName 在默认注册表中按名称查找协议
func ProtocolWithName(name string) (Protocol, error) {
	return DefaultRegistry.ByName(name)
}

// ProtocolWithCode 在默认注册表中按代码查找协议
func ProtocolWithCode(code int) (Protocol, error) {
	return DefaultRegistry.ByCode(code)
}

// ProtocolsWithString 返回多地址字符串中的所有协议
func ProtocolsWithString(s string) ([]Protocol, error) {
	b, err := DefaultRegistry.StringToBytes(s)
	if err != nil {
		return nil, err
	}
	segs, err := DefaultRegistry.Split(b)
	if err != nil {
		return nil, err
	}
	ps := make([]Protocol, len(segs))
	for i, seg := range segs {
		ps[i] = seg.Protocol
	}
	return ps, nil
}
