package actions

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4", "4"},
		{"  12", "12"},
		{"+7", "7"},
		{"-3", "-3"},
		{"-0", "0"},
		{"007", "7"},
		{"4h", "4"},
		{"3.9", "3"},
		{"0x1A", "26"},
		{"9007199254740993", "9007199254740992"},
		{"12345678901234567890", "12345678901234567000"},
		{"1000000000000000000000", "1e+21"},
		{"-123456789012345678901234", "-1.2345678901234569e+23"},
		{"0xFFFFFFFFFFFFFFFFF", "295147905179352830000"},
		{strings.Repeat("9", 400), "null"},
		{"", "null"},
		{"abc", "null"},
		{"-", "null"},
		{"0x", "null"},
		{" ", "null"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			b, err := json.Marshal(ParseInt(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}
}

func TestInt_String(t *testing.T) {
	assert.Equal(t, "NaN", ParseInt("x").String())
	assert.False(t, ParseInt("x").Valid())
	assert.Equal(t, "42", ParseInt("42").String())
	assert.True(t, ParseInt("42").Valid())
	assert.Equal(t, "Infinity", ParseInt(strings.Repeat("9", 400)).String())
	assert.True(t, ParseInt(strings.Repeat("9", 400)).Valid())
}
