package multiaddr

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// ============================================================================
//                              错误类别
// ============================================================================

// 错误类别，供 errors.Is 判断
var (
	// ErrLookup 协议查找失败
	ErrLookup = errors.New("multiaddr: lookup failed")

	// ErrParse 地址解析失败（字符串或二进制）
	ErrParse = errors.New("multiaddr: parse failed")

	// ErrInvalidValue 协议值校验失败
	ErrInvalidValue = errors.New("multiaddr: invalid value")

	// ErrProtocolManager 协议注册表错误
	ErrProtocolManager = errors.New("multiaddr: protocol manager error")
)

// 通用错误
var (
	ErrInvalidProtocol = errors.New("multiaddr: invalid protocol")
	ErrRegistrySealed  = errors.New("multiaddr: registry is sealed")
	ErrNoTranscoder    = errors.New("multiaddr: no transcoder for protocol codec")
	ErrEmptyAddress    = errors.New("multiaddr: empty address")
	ErrShortBuffer     = errors.New("multiaddr: buffer too short")
)

// LookupKind 查询使用的索引
type LookupKind string

const (
	// LookupByName 按名称查询
	LookupByName LookupKind = "name"
	// LookupByCode 按代码查询
	LookupByCode LookupKind = "code"
)

// ============================================================================
//                              注册表错误
// ============================================================================

// ProtocolNotFoundError 按名称或代码找不到协议
type ProtocolNotFoundError struct {
	Kind LookupKind
	Name string
	Code int
}

func (e *ProtocolNotFoundError) Error() string {
	if e.Kind == LookupByCode {
		return fmt.Sprintf("no protocol with code %d found", e.Code)
	}
	return fmt.Sprintf("no protocol with name %q found", e.Name)
}

// Is 同时归类为 ErrLookup 和 ErrProtocolManager
func (e *ProtocolNotFoundError) Is(target error) bool {
	return target == ErrLookup || target == ErrProtocolManager
}

// ProtocolExistsError 注册时名称或代码冲突
type ProtocolExistsError struct {
	Protocol Protocol
	Kind     LookupKind
}

func (e *ProtocolExistsError) Error() string {
	if e.Kind == LookupByCode {
		return fmt.Sprintf("protocol with code %d already exists", e.Protocol.Code)
	}
	return fmt.Sprintf("protocol with name %q already exists", e.Protocol.Name)
}

// Is 归类为 ErrProtocolManager
func (e *ProtocolExistsError) Is(target error) bool {
	return target == ErrProtocolManager
}

// ============================================================================
//                              解析错误
// ============================================================================

// StringParseError 字符串形式的地址无法解析
type StringParseError struct {
	Message  string
	String   string
	Protocol string
	Err      error
}

func (e *StringParseError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Protocol != "" {
		return fmt.Sprintf("invalid multiaddr %q protocol %s: %s", e.String, e.Protocol, msg)
	}
	return fmt.Sprintf("invalid multiaddr %q: %s", e.String, msg)
}

// Unwrap 返回底层错误
func (e *StringParseError) Unwrap() error {
	return e.Err
}

// Is 归类为 ErrParse
func (e *StringParseError) Is(target error) bool {
	return target == ErrParse
}

// BinaryParseError 二进制形式的地址无法解析
type BinaryParseError struct {
	Message  string
	Binary   []byte
	Protocol string
	Err      error
}

func (e *BinaryParseError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	proto := e.Protocol
	if proto == "" {
		proto = "<none>"
	}
	return fmt.Sprintf("invalid binary multiaddr %s protocol %s: %s", hex.EncodeToString(e.Binary), proto, msg)
}

// Unwrap 返回底层错误
func (e *BinaryParseError) Unwrap() error {
	return e.Err
}

// Is 归类为 ErrParse
func (e *BinaryParseError) Is(target error) bool {
	return target == ErrParse
}

// ============================================================================
//                              值错误
// ============================================================================

// ValueError 协议值不符合其编解码规则
//
// Input 为出错的文本值，或二进制值的十六进制形式。
type ValueError struct {
	Protocol string
	Input    string
	Err      error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %q for protocol %s: %v", e.Input, e.Protocol, e.Err)
}

// Unwrap 返回底层错误
func (e *ValueError) Unwrap() error {
	return e.Err
}

// Is 归类为 ErrInvalidValue
func (e *ValueError) Is(target error) bool {
	return target == ErrInvalidValue
}
