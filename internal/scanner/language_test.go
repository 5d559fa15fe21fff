package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSyntaxForKnownExtensions(t *testing.T) {
	s, ok := SyntaxFor(".go")
	require.True(t, ok)
	require.Equal(t, []string{"//"}, s.LinePrefixes)

	s, ok = SyntaxFor("py")
	require.True(t, ok)
	require.Contains(t, s.BlockDelimiters, [2]string{`"""`, `"""`})

	s, ok = SyntaxFor(".EL")
	require.True(t, ok)
	require.Equal(t, []string{";"}, s.LinePrefixes)
}

func TestSyntaxForUnknownExtension(t *testing.T) {
	_, ok := SyntaxFor(".bin")
	require.False(t, ok)
}
