package clientip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlocklistEmptyConfiguration(t *testing.T) {
	assert.False(t, NewBlocklist("").Contains("203.0.113.5"))
	assert.True(t, NewBlocklist("").Empty())
	assert.True(t, NewBlocklist(" , ,").Empty())

	var nilList *Blocklist
	assert.False(t, nilList.Contains("203.0.113.5"))
}

func TestBlocklistExactMatch(t *testing.T) {
	bl := NewBlocklist("203.0.113.5, 198.51.100.7")
	assert.True(t, bl.Contains("203.0.113.5"))
	assert.True(t, bl.Contains("198.51.100.7"))
	assert.False(t, bl.Contains("203.0.113.6"))
}

func TestBlocklistCIDRMatch(t *testing.T) {
	bl := NewBlocklist("203.0.113.0/24")
	assert.True(t, bl.Contains("203.0.113.77"))
	assert.False(t, bl.Contains("203.0.114.1"))
}

func TestBlocklistMixedRules(t *testing.T) {
	bl := NewBlocklist("198.51.100.7, 203.0.113.0/24, 2001:db8::/32")
	assert.True(t, bl.Contains("198.51.100.7"))
	assert.True(t, bl.Contains("203.0.113.1"))
	assert.True(t, bl.Contains("2001:db8:1::5"))
	assert.False(t, bl.Contains("8.8.8.8"))
}

func TestBlocklistAddressFamilyMustMatch(t *testing.T) {
	bl := NewBlocklist("203.0.113.0/24")
	assert.False(t, bl.Contains("2001:db8::1"))
}

func TestBlocklistMalformedRuleDoesNotAbort(t *testing.T) {
	// The bad CIDR only matches as an exact string; later rules still apply.
	bl := NewBlocklist("203.0.113.0/99, 198.51.100.0/24")
	assert.True(t, bl.Contains("198.51.100.9"))
	assert.False(t, bl.Contains("203.0.113.5"))
}

func TestBlocklistUnparseableClientIP(t *testing.T) {
	bl := NewBlocklist("203.0.113.0/24")
	assert.False(t, bl.Contains("bogus"))
	assert.False(t, bl.Contains(""))
}
