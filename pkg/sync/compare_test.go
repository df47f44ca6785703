package sync

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentical(t *testing.T) {
	large := strings.Repeat("0123456789", 10*compareBufferSize)
	largeChanged := large[:len(large)-1] + "x"

	tests := []struct {
		name     string
		contents string
		other    string
		exp      bool
	}{
		{"Same", "hello", "hello", true},
		{"Empty", "", "", true},
		{"DifferentContentsSameSize", "v1", "v2", false},
		{"DifferentSize", "hello", "hello world", false},
		{"LargeSame", large, large, true},
		{"LargeDifferentLastByte", large, largeChanged, false},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/a", []byte(test.contents), 0644))
			require.NoError(t, afero.WriteFile(fs, "/b", []byte(test.other), 0600))
			assert.Equal(t, test.exp, Identical(fs, "/a", "/b"))
		})
	}
}

func TestIdenticalIgnoresMetadata(t *testing.T) {
	fs := afero.NewMemMapFs()
	a := randomFile(mockFile{path: "/a", contents: "same"})
	b := randomFile(mockFile{path: "/b", contents: "same", mode: 0400})
	require.NoError(t, a.writeToFs(fs))
	require.NoError(t, b.writeToFs(fs))

	assert.True(t, Identical(fs, "/a", "/b"))
}

func TestIdenticalMissingOrNotFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a", []byte("a"), 0644))
	require.NoError(t, fs.Mkdir("/dir", 0755))

	assert.False(t, Identical(fs, "/a", "/missing"))
	assert.False(t, Identical(fs, "/missing", "/a"))
	assert.False(t, Identical(fs, "/missing", "/missing"))
	assert.False(t, Identical(fs, "/dir", "/dir"))
}

func TestSameContentsShortReads(t *testing.T) {
	same, err := sameContents(strings.NewReader("abc"), strings.NewReader("abcd"))
	assert.NoError(t, err)
	assert.False(t, same)

	same, err = sameContents(strings.NewReader(""), strings.NewReader(""))
	assert.NoError(t, err)
	assert.True(t, same)
}
