package token

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tok, err := New()
		require.NoError(t, err)
		assert.Len(t, tok, 2*Size)
		assert.True(t, WellFormed(tok), tok)
		_, dup := seen[tok]
		assert.False(t, dup)
		seen[tok] = struct{}{}
	}
}

func TestEqual(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	b, err := New()
	require.NoError(t, err)

	assert.True(t, Equal(a, a))
	assert.False(t, Equal(a, b))
	assert.False(t, Equal(a, ""))
	assert.False(t, Equal("", a))
}

func fakeToken(i int) string {
	return fmt.Sprintf("%032x", i)
}

func TestParseOwnerTokens(t *testing.T) {
	a, b := fakeToken(1), fakeToken(2)
	raw := strings.Join([]string{" " + strings.ToUpper(a), "garbage", b, a, ""}, ",")

	assert.Equal(t, []string{a, b}, ParseOwnerTokens(raw))
	assert.Empty(t, ParseOwnerTokens(""))
}

func TestParseOwnerTokensCap(t *testing.T) {
	parts := make([]string, 0, MaxOwnerTokens+10)
	for i := 0; i < MaxOwnerTokens+10; i++ {
		parts = append(parts, fakeToken(i))
	}

	got := ParseOwnerTokens(strings.Join(parts, ","))
	assert.Len(t, got, MaxOwnerTokens)
	assert.Equal(t, fakeToken(0), got[0])
}

func TestMergeOwnerTokens(t *testing.T) {
	a, b, c := fakeToken(1), fakeToken(2), fakeToken(3)

	assert.Equal(t, []string{c, a, b}, MergeOwnerTokens([]string{a, b}, c))
	assert.Equal(t, []string{b, a}, MergeOwnerTokens([]string{a, b}, strings.ToUpper(b)))
	assert.Equal(t, []string{a}, MergeOwnerTokens([]string{a}, "not-a-token"))

	full := make([]string, 0, MaxOwnerTokens)
	for i := 10; i < 10+MaxOwnerTokens; i++ {
		full = append(full, fakeToken(i))
	}
	merged := MergeOwnerTokens(full, a)
	assert.Len(t, merged, MaxOwnerTokens)
	assert.Equal(t, a, merged[0])
	assert.NotContains(t, merged, full[len(full)-1])
}
