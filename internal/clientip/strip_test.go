package clientip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripPort(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"ipv4 with port", "192.0.2.1:443", "192.0.2.1"},
		{"ipv4 without port", "192.0.2.1", "192.0.2.1"},
		{"bracketed ipv6 with port", "[2001:db8::1]:8080", "[2001:db8::1]"},
		{"bracketed ipv6 without port", "[2001:db8::1]", "[2001:db8::1]"},
		{"bare ipv6 unchanged", "2001:db8::1", "2001:db8::1"},
		{"hostname with port", "example.com:8080", "example.com"},
		{"unclosed bracket unchanged", "[2001:db8::1", "[2001:db8::1"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripPort(tt.address))
		})
	}
}

func TestIsPrivate(t *testing.T) {
	private := []string{
		"10.0.0.1",
		"172.16.0.1",
		"172.31.255.254",
		"192.168.1.1",
		"127.0.0.1",
		"169.254.10.20",
		"::1",
		"fe80::1",
		"fd12:3456::1",
		"::ffff:10.0.0.1", // v4-mapped v6 is unwrapped before the checks
		"0.0.0.0",
	}
	for _, ip := range private {
		assert.True(t, IsPrivate(ip), "expected %s to be private", ip)
	}

	public := []string{
		"203.0.113.5",
		"172.32.0.1", // just past the 172.16/12 range
		"8.8.8.8",
		"2001:db8::1",
		"not-an-ip", // unparseable passes through, geo tier rejects it
	}
	for _, ip := range public {
		assert.False(t, IsPrivate(ip), "expected %s to not be private", ip)
	}
}

func TestIsLocalhost(t *testing.T) {
	assert.True(t, IsLocalhost("127.0.0.1"))
	assert.True(t, IsLocalhost("::1"))
	assert.True(t, IsLocalhost("127.0.0.1:8080"))
	assert.False(t, IsLocalhost("203.0.113.5"))
	assert.False(t, IsLocalhost(""))
}
