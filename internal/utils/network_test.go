package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMAC(t *testing.T) {
	testCases := []struct {
		name  string
		token string
		want  bool
	}{
		{"colon separated", "aa:bb:cc:dd:ee:ff", true},
		{"dash separated", "AA-BB-CC-DD-EE-FF", true},
		{"bsd short groups", "0:1c:42:0:0:8", true},
		{"too few groups", "aa:bb:cc:dd:ee", false},
		{"non hex", "aa:bb:cc:dd:ee:zz", false},
		{"incomplete marker", "(incomplete)", false},
		{"ip address", "192.168.1.1", false},
		{"empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsMAC(tc.token))
		})
	}
}

func TestNormalizeMAC(t *testing.T) {
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", NormalizeMAC("AA-BB-CC-DD-EE-FF"))
	assert.Equal(t, "00:1c:42:00:00:08", NormalizeMAC("0:1c:42:0:0:8"))
	assert.Equal(t, "", NormalizeMAC("not-a-mac"))
}

func TestCompareIPv4(t *testing.T) {
	assert.Negative(t, CompareIPv4("192.168.1.2", "192.168.1.10"))
	assert.Positive(t, CompareIPv4("192.168.1.10", "192.168.1.2"))
	assert.Zero(t, CompareIPv4("10.0.0.1", "10.0.0.1"))
	// numeric ordering, not lexical
	assert.Negative(t, CompareIPv4("10.0.0.9", "10.0.0.100"))
}

func TestIsValidIPv4(t *testing.T) {
	assert.True(t, IsValidIPv4("10.0.0.5"))
	assert.False(t, IsValidIPv4("fe80::1"))
	assert.False(t, IsValidIPv4("not-an-ip"))
}
