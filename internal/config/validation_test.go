package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRecordName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "simple", input: "profile"},
		{name: "with dots", input: "slot.1"},
		{name: "with dashes and underscores", input: "enc_edit-key1"},
		{name: "unicode", input: "セーブ"},
		{name: "empty", input: "", wantErr: ErrEmptyName},
		{name: "dot", input: ".", wantErr: ErrReservedName},
		{name: "dot dot", input: "..", wantErr: ErrReservedName},
		{name: "forward slash", input: "a/b", wantErr: ErrIllegalCharacter},
		{name: "traversal", input: "../escape", wantErr: ErrIllegalCharacter},
		{name: "backslash", input: `a\b`, wantErr: ErrIllegalCharacter},
		{name: "nul", input: "a\x00b", wantErr: ErrIllegalCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecordName(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("too long", func(t *testing.T) {
		err := ValidateRecordName(strings.Repeat("a", MaxNameLength+1))
		assert.Error(t, err)
	})
}

func TestNormalizeExtension(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "dat", want: "dat"},
		{input: ".dat", want: "dat"},
		{input: " json ", want: "json"},
		{input: "tar.gz", want: "tar.gz"},
		{input: "", wantErr: true},
		{input: ".", wantErr: true},
		{input: "a/b", wantErr: true},
		{input: "*", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeExtension(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/game\n"), 0o644))
	nested := filepath.Join(root, "internal", "save")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := FindProjectRoot(nested)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, gotResolved)
}

func TestResolveDataDirectory(t *testing.T) {
	dir := ResolveDataDirectory("persistx")
	assert.NotEmpty(t, dir)
	assert.True(t, strings.HasSuffix(dir, "persistx"))
}
