package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnescapeTokenFastPath(t *testing.T) {
	s := NewScope(true)
	defer s.Close()

	out, err := UnescapeToken([]byte(`hello world`), s)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(out))
}

func TestUnescapeTokenEscapes(t *testing.T) {
	s := NewScope(true)
	defer s.Close()

	cases := map[string]string{
		`hello\nworld`:   "hello\nworld",
		`a\"b`:           `a"b`,
		`back\\slash`:    `back\slash`,
		`tab\there`:      "tab\there",
		`slash\/forward`: "slash/forward",
	}

	for in, want := range cases {
		out, err := UnescapeToken([]byte(in), s)
		require.NoError(t, err)
		require.Equal(t, want, string(out))
	}
}

func TestUnescapeTokenUnicodeEscape(t *testing.T) {
	s := NewScope(true)
	defer s.Close()

	// "café" as a literal token: a backslash-u escape, not a
	// pre-decoded UTF-8 rune.
	out, err := UnescapeToken([]byte("caf\\u00e9"), s)
	require.NoError(t, err)
	require.Equal(t, "café", string(out))
}

func TestUnescapeTokenSurrogatePair(t *testing.T) {
	s := NewScope(true)
	defer s.Close()

	// U+1F600 GRINNING FACE encoded as a UTF-16 surrogate pair
	// 😀.
	out, err := UnescapeToken([]byte("\\ud83d\\ude00"), s)
	require.NoError(t, err)
	require.Equal(t, "😀", string(out))
}

func TestUnescapeTokenTruncatedEscape(t *testing.T) {
	s := NewScope(true)
	defer s.Close()

	_, err := UnescapeToken([]byte(`trailing\`), s)
	require.Error(t, err)
}

func TestUnescapeTokenInvalidEscape(t *testing.T) {
	s := NewScope(true)
	defer s.Close()

	_, err := UnescapeToken([]byte(`bad\qescape`), s)
	require.Error(t, err)
}
