package multiaddr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrorClasses 测试错误分类
func TestErrorClasses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   []error
		not  []error
	}{
		{
			"NotFound",
			&ProtocolNotFoundError{Kind: LookupByName, Name: "x"},
			[]error{ErrLookup, ErrProtocolManager},
			[]error{ErrParse, ErrInvalidValue},
		},
		{
			"Exists",
			&ProtocolExistsError{Protocol: protoTCP, Kind: LookupByCode},
			[]error{ErrProtocolManager},
			[]error{ErrLookup, ErrParse},
		},
		{
			"StringParse",
			&StringParseError{Message: "bad", String: "/x", Err: &ProtocolNotFoundError{Name: "x"}},
			[]error{ErrParse, ErrLookup},
			[]error{ErrInvalidValue},
		},
		{
			"BinaryParse",
			&BinaryParseError{Message: "bad", Binary: []byte{1}, Err: ErrShortBuffer},
			[]error{ErrParse, ErrShortBuffer},
			[]error{ErrLookup},
		},
		{
			"Value",
			&ValueError{Protocol: "tcp", Input: "a", Err: errEmptyValue},
			[]error{ErrInvalidValue, errEmptyValue},
			[]error{ErrParse},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, target := range tt.is {
				assert.True(t, errors.Is(tt.err, target), "%v should be %v", tt.err, target)
			}
			for _, target := range tt.not {
				assert.False(t, errors.Is(tt.err, target), "%v should not be %v", tt.err, target)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `no protocol with name "foo" found`,
		(&ProtocolNotFoundError{Kind: LookupByName, Name: "foo"}).Error())
	assert.Equal(t, "no protocol with code 99 found",
		(&ProtocolNotFoundError{Kind: LookupByCode, Code: 99}).Error())
	assert.Equal(t, `protocol with name "tcp" already exists`,
		(&ProtocolExistsError{Protocol: protoTCP, Kind: LookupByName}).Error())
	assert.Equal(t, "protocol with code 6 already exists",
		(&ProtocolExistsError{Protocol: protoTCP, Kind: LookupByCode}).Error())

	assert.Equal(t, `invalid multiaddr "/tcp" protocol tcp: missing value`,
		(&StringParseError{Message: "missing value", String: "/tcp", Protocol: "tcp"}).Error())
	assert.Equal(t, "invalid binary multiaddr 0a0b protocol <none>: truncated: multiaddr: buffer too short",
		(&BinaryParseError{Message: "truncated", Binary: []byte{0x0a, 0x0b}, Err: ErrShortBuffer}).Error())
	assert.Contains(t, (&ValueError{Protocol: "tcp", Input: "a", Err: errEmptyValue}).Error(), `"a"`)
}

// 解析失败时错误链保留值错误
func TestParseErrorChain(t *testing.T) {
	_, err := StringToBytes("/tcp/100000")

	var spe *StringParseError
	assert.ErrorAs(t, err, &spe)
	assert.Equal(t, "tcp", spe.Protocol)

	var ve *ValueError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "100000", ve.Input)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = StringToBytes("/nope/1")
	assert.ErrorIs(t, err, ErrLookup)
}
