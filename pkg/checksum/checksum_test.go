package checksum_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/arboribus/pkg/checksum"
)

// 🧪 writeFile creates a file with the given content
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFile(t *testing.T) {
	tmpDir := t.TempDir()

	path := writeFile(t, tmpDir, "a.txt", "hello")
	sum, err := checksum.File(path)
	require.NoError(t, err)
	// md5("hello")
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", sum)
}

func TestFile_Missing(t *testing.T) {
	_, err := checksum.File(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestSameContent(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{
			name: "identical_content",
			a:    writeFile(t, tmpDir, "a1.txt", "same bytes"),
			b:    writeFile(t, tmpDir, "b1.txt", "same bytes"),
			want: true,
		},
		{
			name: "different_content",
			a:    writeFile(t, tmpDir, "a2.txt", "old"),
			b:    writeFile(t, tmpDir, "b2.txt", "new"),
			want: false,
		},
		{
			name: "missing_left",
			a:    filepath.Join(tmpDir, "missing-a.txt"),
			b:    writeFile(t, tmpDir, "b3.txt", "x"),
			want: false,
		},
		{
			name: "missing_right",
			a:    writeFile(t, tmpDir, "a4.txt", "x"),
			b:    filepath.Join(tmpDir, "missing-b.txt"),
			want: false,
		},
		{
			name: "both_empty",
			a:    writeFile(t, tmpDir, "a5.txt", ""),
			b:    writeFile(t, tmpDir, "b5.txt", ""),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checksum.SameContent(tt.a, tt.b))
		})
	}
}

func TestSameContent_UnreadableIsNotIdentical(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are ignored when running as root")
	}

	tmpDir := t.TempDir()
	a := writeFile(t, tmpDir, "a.txt", "secret")
	b := writeFile(t, tmpDir, "b.txt", "secret")

	require.NoError(t, os.Chmod(a, 0000))
	t.Cleanup(func() { _ = os.Chmod(a, 0644) })

	assert.False(t, checksum.SameContent(a, b))
}
