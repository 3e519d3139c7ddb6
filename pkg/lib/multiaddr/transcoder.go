package multiaddr

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

// Transcoder 接口定义了协议数据的编解码方法
type Transcoder interface {
	// StringToBytes 将字符串值转换为字节
	StringToBytes(string) ([]byte, error)

	// BytesToString 将字节转换为字符串值
	BytesToString([]byte) (string, error)

	// ValidateBytes 验证字节数据是否有效
	ValidateBytes([]byte) error
}

// NewTranscoderFromFunctions 从函数创建 Transcoder
func NewTranscoderFromFunctions(
	s2b func(string) ([]byte, error),
	b2s func([]byte) (string, error),
	val func([]byte) error,
) Transcoder {
	return &transcoderWrapper{s2b, b2s, val}
}

type transcoderWrapper struct {
	stringToBytes func(string) ([]byte, error)
	bytesToString func([]byte) (string, error)
	validateBytes func([]byte) error
}

func (t *transcoderWrapper) StringToBytes(s string) ([]byte, error) {
	return t.stringToBytes(s)
}

func (t *transcoderWrapper) BytesToString(b []byte) (string, error) {
	if err := t.ValidateBytes(b); err != nil {
		return "", err
	}
	return t.bytesToString(b)
}

func (t *transcoderWrapper) ValidateBytes(b []byte) error {
	if t.validateBytes == nil {
		return nil
	}
	return t.validateBytes(b)
}

// ============================================================================
//                              编解码器选择
// ============================================================================

// Codec 标识协议值使用的编解码器
type Codec int

const (
	CodecNone Codec = iota
	CodecIP4
	CodecIP6
	CodecPort
	CodecOnion
	CodecOnion3
	CodecMultihash
	CodecDNS
	CodecIP6Zone
	CodecIPCIDR
	CodecUnix
	CodecGarlic32
	CodecGarlic64
)

var codecNames = map[Codec]string{
	CodecNone:      "none",
	CodecIP4:       "ip4",
	CodecIP6:       "ip6",
	CodecPort:      "port",
	CodecOnion:     "onion",
	CodecOnion3:    "onion3",
	CodecMultihash: "multihash",
	CodecDNS:       "dns",
	CodecIP6Zone:   "ip6zone",
	CodecIPCIDR:    "ipcidr",
	CodecUnix:      "unix",
	CodecGarlic32:  "garlic32",
	CodecGarlic64:  "garlic64",
}

// String 返回编解码器名称
func (c Codec) String() string {
	if name, ok := codecNames[c]; ok {
		return name
	}
	return fmt.Sprintf("codec(%d)", int(c))
}

// ParseCodec 根据名称查找编解码器
func ParseCodec(name string) (Codec, error) {
	for c, n := range codecNames {
		if n == name {
			return c, nil
		}
	}
	return CodecNone, fmt.Errorf("unknown codec %q", name)
}

// transcoders 编解码器表，集合固定
var transcoders = map[Codec]Transcoder{
	CodecIP4:       TranscoderIP4,
	CodecIP6:       TranscoderIP6,
	CodecPort:      TranscoderPort,
	CodecOnion:     TranscoderOnion,
	CodecOnion3:    TranscoderOnion3,
	CodecMultihash: TranscoderMultihash,
	CodecDNS:       TranscoderDNS,
	CodecIP6Zone:   TranscoderIP6Zone,
	CodecIPCIDR:    TranscoderIPCIDR,
	CodecUnix:      TranscoderUnix,
	CodecGarlic32:  TranscoderGarlic32,
	CodecGarlic64:  TranscoderGarlic64,
}

// TranscoderFor 返回编解码器对应的 Transcoder
func TranscoderFor(c Codec) (Transcoder, bool) {
	t, ok := transcoders[c]
	return t, ok
}

// 值校验错误
var (
	errEmptyValue   = errors.New("empty value")
	errContainSlash = errors.New("value contains '/'")
)

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// hasLeadingZero 多位十进制数以 0 开头，无法原样往返
func hasLeadingZero(s string) bool {
	return len(s) > 1 && s[0] == '0'
}

// errNotCanonical 文本可以解码，但重新编码后不同
var errNotCanonical = errors.New("value is not in canonical form")

func checkLen(b []byte, want int) error {
	if len(b) != want {
		return fmt.Errorf("invalid length %d (should be == %d)", len(b), want)
	}
	return nil
}

// ============================================================================
//                              IP4 / IP6
// ============================================================================

// TranscoderIP4 点分十进制 IPv4
var TranscoderIP4 = NewTranscoderFromFunctions(ip4StringToBytes, ip4BytesToString, ip4ValidateBytes)

func ip4StringToBytes(s string) ([]byte, error) {
	fields := strings.Split(s, ".")
	if len(fields) != 4 {
		return nil, fmt.Errorf("ip4 needs 4 octets, got %d", len(fields))
	}
	b := make([]byte, 4)
	for i, f := range fields {
		if !isDigits(f) {
			return nil, fmt.Errorf("ip4 octet %q is not a decimal number", f)
		}
		if hasLeadingZero(f) {
			return nil, fmt.Errorf("ip4 octet %q has leading zero", f)
		}
		v, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("ip4 octet %q out of range", f)
		}
		b[i] = byte(v)
	}
	return b, nil
}

func ip4BytesToString(b []byte) (string, error) {
	return fmt.Sprintf("%d.%d.%d.%d", b[0], b[1], b[2], b[3]), nil
}

func ip4ValidateBytes(b []byte) error {
	return checkLen(b, 4)
}

// TranscoderIP6 8 组冒号分隔的十六进制 IPv6
//
// 只接受规范形式：不支持 :: 压缩，每组小写且没有前导零。
var TranscoderIP6 = NewTranscoderFromFunctions(ip6StringToBytes, ip6BytesToString, ip6ValidateBytes)

func ip6StringToBytes(s string) ([]byte, error) {
	groups := strings.Split(s, ":")
	if len(groups) != 8 {
		return nil, fmt.Errorf("ip6 needs 8 groups, got %d", len(groups))
	}
	b := make([]byte, 16)
	for i, g := range groups {
		if len(g) == 0 || len(g) > 4 {
			return nil, fmt.Errorf("ip6 group %q must have 1-4 hex digits", g)
		}
		v, err := strconv.ParseUint(g, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("ip6 group %q is not hex", g)
		}
		if strconv.FormatUint(v, 16) != g {
			return nil, fmt.Errorf("ip6 group %q: %w", g, errNotCanonical)
		}
		binary.BigEndian.PutUint16(b[2*i:], uint16(v))
	}
	return b, nil
}

func ip6BytesToString(b []byte) (string, error) {
	groups := make([]string, 8)
	for i := range groups {
		groups[i] = strconv.FormatUint(uint64(binary.BigEndian.Uint16(b[2*i:])), 16)
	}
	return strings.Join(groups, ":"), nil
}

func ip6ValidateBytes(b []byte) error {
	return checkLen(b, 16)
}

// ============================================================================
//                              端口
// ============================================================================

// TranscoderPort 16 位端口（TCP/UDP/SCTP/DCCP）
var TranscoderPort = NewTranscoderFromFunctions(portStringToBytes, portBytesToString, portValidateBytes)

func parsePort(s string) (uint16, error) {
	if !isDigits(s) {
		return 0, fmt.Errorf("port %q is not a decimal number", s)
	}
	if hasLeadingZero(s) {
		return 0, fmt.Errorf("port %q has leading zero", s)
	}
	port, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("port %q out of range", s)
	}
	return uint16(port), nil
}

func portStringToBytes(s string) ([]byte, error) {
	port, err := parsePort(s)
	if err != nil {
		return nil, err
	}
	return binary.BigEndian.AppendUint16(nil, port), nil
}

func portBytesToString(b []byte) (string, error) {
	return strconv.Itoa(int(binary.BigEndian.Uint16(b))), nil
}

func portValidateBytes(b []byte) error {
	return checkLen(b, 2)
}

// ============================================================================
//                              Onion
// ============================================================================

var onionEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// splitOnion 拆分 host:port，host 为 hostLen 个小写 base32 字符
func splitOnion(s string, hostLen int) ([]byte, uint16, error) {
	addr := strings.Split(s, ":")
	if len(addr) != 2 {
		return nil, 0, fmt.Errorf("onion address %q needs host:port", s)
	}
	if len(addr[0]) != hostLen {
		return nil, 0, fmt.Errorf("onion host must be %d base32 characters, got %d", hostLen, len(addr[0]))
	}
	if addr[0] != strings.ToLower(addr[0]) {
		return nil, 0, fmt.Errorf("onion host %q must be lowercase", addr[0])
	}
	host, err := onionEncoding.DecodeString(strings.ToUpper(addr[0]))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode onion host: %w", err)
	}
	port, err := parsePort(addr[1])
	if err != nil {
		return nil, 0, err
	}
	if port < 1 {
		return nil, 0, errors.New("onion port must be >= 1")
	}
	return host, port, nil
}

func checkOnionPort(b []byte) error {
	if binary.BigEndian.Uint16(b) < 1 {
		return errors.New("onion port must be >= 1")
	}
	return nil
}

func joinOnion(host []byte, port uint16) string {
	return strings.ToLower(onionEncoding.EncodeToString(host)) + ":" + strconv.Itoa(int(port))
}

// TranscoderOnion Tor v2 地址：16 字符 base32 + 端口，10+2 字节
var TranscoderOnion = NewTranscoderFromFunctions(onionStringToBytes, onionBytesToString, onionValidateBytes)

func onionStringToBytes(s string) ([]byte, error) {
	host, port, err := splitOnion(s, 16)
	if err != nil {
		return nil, err
	}
	return binary.BigEndian.AppendUint16(host, port), nil
}

func onionBytesToString(b []byte) (string, error) {
	return joinOnion(b[:10], binary.BigEndian.Uint16(b[10:])), nil
}

func onionValidateBytes(b []byte) error {
	if err := checkLen(b, 12); err != nil {
		return err
	}
	return checkOnionPort(b[10:])
}

// TranscoderOnion3 Tor v3 地址：56 字符 base32 + 端口，35+2 字节
var TranscoderOnion3 = NewTranscoderFromFunctions(onion3StringToBytes, onion3BytesToString, onion3ValidateBytes)

func onion3StringToBytes(s string) ([]byte, error) {
	host, port, err := splitOnion(s, 56)
	if err != nil {
		return nil, err
	}
	return binary.BigEndian.AppendUint16(host, port), nil
}

func onion3BytesToString(b []byte) (string, error) {
	return joinOnion(b[:35], binary.BigEndian.Uint16(b[35:])), nil
}

func onion3ValidateBytes(b []byte) error {
	if err := checkLen(b, 37); err != nil {
		return err
	}
	return checkOnionPort(b[35:])
}

// ============================================================================
//                              文本类（DNS/IP6Zone/Unix）
// ============================================================================

func textValidate(b []byte) error {
	if len(b) == 0 {
		return errEmptyValue
	}
	if strings.Contains(string(b), "/") {
		return errContainSlash
	}
	return nil
}

func textStringToBytes(s string) ([]byte, error) {
	if err := textValidate([]byte(s)); err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func textBytesToString(b []byte) (string, error) {
	return string(b), nil
}

// TranscoderDNS DNS 名称（DNS/DNS4/DNS6/DNSADDR）
var TranscoderDNS = NewTranscoderFromFunctions(dnsStringToBytes, textBytesToString, dnsValidateBytes)

func dnsStringToBytes(s string) ([]byte, error) {
	if err := dnsValidateBytes([]byte(s)); err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func dnsValidateBytes(b []byte) error {
	if err := textValidate(b); err != nil {
		return err
	}
	if _, ok := dns.IsDomainName(string(b)); !ok {
		return fmt.Errorf("%q is not a valid domain name", b)
	}
	return nil
}

// TranscoderIP6Zone IPv6 zone ID
var TranscoderIP6Zone = NewTranscoderFromFunctions(textStringToBytes, textBytesToString, textValidate)

// TranscoderUnix Unix 路径，值包含 '/'
var TranscoderUnix = NewTranscoderFromFunctions(unixStringToBytes, textBytesToString, unixValidateBytes)

func unixStringToBytes(s string) ([]byte, error) {
	if s == "" {
		return nil, errEmptyValue
	}
	return []byte(s), nil
}

func unixValidateBytes(b []byte) error {
	if len(b) == 0 {
		return errEmptyValue
	}
	return nil
}

// ============================================================================
//                              IPCIDR
// ============================================================================

// TranscoderIPCIDR 前缀长度，1 字节
var TranscoderIPCIDR = NewTranscoderFromFunctions(ipCIDRStringToBytes, ipCIDRBytesToString, ipCIDRValidateBytes)

func ipCIDRStringToBytes(s string) ([]byte, error) {
	if !isDigits(s) || hasLeadingZero(s) {
		return nil, fmt.Errorf("ipcidr %q is not a canonical decimal number", s)
	}
	mask, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("ipcidr %q out of range", s)
	}
	return []byte{byte(mask)}, nil
}

func ipCIDRBytesToString(b []byte) (string, error) {
	return strconv.Itoa(int(b[0])), nil
}

func ipCIDRValidateBytes(b []byte) error {
	return checkLen(b, 1)
}

// ============================================================================
//                              Garlic（I2P）
// ============================================================================

// garlic64Encoding I2P 使用的 base64 字母表
var garlic64Encoding = base64.NewEncoding("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-~")

// TranscoderGarlic64 I2P 完整目的地址，至少 386 字节
var TranscoderGarlic64 = NewTranscoderFromFunctions(garlic64StringToBytes, garlic64BytesToString, garlic64ValidateBytes)

func garlic64StringToBytes(s string) ([]byte, error) {
	b, err := garlic64Encoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode garlic64: %w", err)
	}
	if err := garlic64ValidateBytes(b); err != nil {
		return nil, err
	}
	// 解码器不检查末尾多余的位
	if garlic64Encoding.EncodeToString(b) != s {
		return nil, fmt.Errorf("garlic64: %w", errNotCanonical)
	}
	return b, nil
}

func garlic64BytesToString(b []byte) (string, error) {
	return garlic64Encoding.EncodeToString(b), nil
}

func garlic64ValidateBytes(b []byte) error {
	if len(b) < 386 {
		return fmt.Errorf("invalid garlic64 length %d (should be >= 386)", len(b))
	}
	return nil
}

// TranscoderGarlic32 I2P base32 地址，32 字节或至少 35 字节
var TranscoderGarlic32 = NewTranscoderFromFunctions(garlic32StringToBytes, garlic32BytesToString, garlic32ValidateBytes)

func garlic32StringToBytes(s string) ([]byte, error) {
	if len(s) < 55 && len(s) != 52 {
		return nil, fmt.Errorf("garlic32 must be 52 or >= 55 characters, got %d", len(s))
	}
	b, err := onionEncoding.DecodeString(strings.ToUpper(s))
	if err != nil {
		return nil, fmt.Errorf("failed to decode garlic32: %w", err)
	}
	if err := garlic32ValidateBytes(b); err != nil {
		return nil, err
	}
	// 拒绝大写和末尾多余的位
	if enc, _ := garlic32BytesToString(b); enc != s {
		return nil, fmt.Errorf("garlic32: %w", errNotCanonical)
	}
	return b, nil
}

func garlic32BytesToString(b []byte) (string, error) {
	return strings.ToLower(onionEncoding.EncodeToString(b)), nil
}

func garlic32ValidateBytes(b []byte) error {
	if len(b) < 35 && len(b) != 32 {
		return fmt.Errorf("invalid garlic32 length %d (should be 32 or >= 35)", len(b))
	}
	return nil
}
