package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"pages/api/login.ts":                {Data: []byte("login")},
		"pages/api/youtube/liked.ts":        {Data: []byte("liked")},
		"pages/api/youtube/deep/nested.ts":  {Data: []byte("nested")},
		"pages/api/youtube/liked.test.tsx":  {Data: []byte("tsx")},
		"pages/api/readme.md":               {Data: []byte("md")},
		"pages/index.ts":                    {Data: []byte("index")},
		"app/api/persona/get/route.ts":      {Data: []byte("route")},
		"pages/api/generated/client.gen.ts": {Data: []byte("gen")},
	}

	tests := []struct {
		name    string
		include string
		ignore  []string
		want    []string
		wantErr string
	}{
		{
			name:    "default_include",
			include: "pages/api/**/*.ts",
			want: []string{
				"pages/api/generated/client.gen.ts",
				"pages/api/login.ts",
				"pages/api/youtube/deep/nested.ts",
				"pages/api/youtube/liked.ts",
			},
		},
		{
			name:    "with_ignore",
			include: "pages/api/**/*.ts",
			ignore:  []string{"**/*.gen.ts", "pages/api/youtube/deep/**"},
			want: []string{
				"pages/api/login.ts",
				"pages/api/youtube/liked.ts",
			},
		},
		{
			name:    "app_router",
			include: "app/api/**/route.ts",
			want:    []string{"app/api/persona/get/route.ts"},
		},
		{
			name:    "no_matches",
			include: "src/**/*.ts",
			want:    nil,
		},
		{
			name:    "invalid_include",
			include: "pages/[api",
			wantErr: "invalid include pattern",
		},
		{
			name:    "invalid_ignore",
			include: "pages/api/**/*.ts",
			ignore:  []string{"[x"},
			wantErr: "invalid ignore pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Files(context.Background(), fsys, tt.include, tt.ignore)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestFilesSkipsDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pages", "api", "weird.ts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pages", "api", "real.ts"), []byte("x"), 0o644))

	got, err := Files(context.Background(), os.DirFS(root), "pages/api/**/*.ts", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"pages/api/real.ts"}, got)
}

func TestFilesCancelled(t *testing.T) {
	fsys := fstest.MapFS{
		"pages/api/a.ts": {Data: []byte("a")},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Files(ctx, fsys, "pages/api/**/*.ts", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFilesHiddenPaths(t *testing.T) {
	fsys := fstest.MapFS{
		"pages/api/keep.ts":         {Data: []byte("keep")},
		"pages/api/.hidden.ts":      {Data: []byte("hidden")},
		"pages/api/.next/y.ts":      {Data: []byte("next")},
		"pages/api/v1/.cache/z.ts":  {Data: []byte("cache")},
		"pages/api/.next/deep/w.ts": {Data: []byte("deep")},
	}

	tests := []struct {
		name    string
		include string
		want    []string
	}{
		{
			name:    "wildcards_skip_dot_names",
			include: "pages/api/**/*.ts",
			want:    []string{"pages/api/keep.ts"},
		},
		{
			name:    "literal_dot_directory",
			include: "pages/api/.next/*.ts",
			want:    []string{"pages/api/.next/y.ts"},
		},
		{
			name:    "dot_wildcard_segment",
			include: "pages/api/.*",
			want:    []string{"pages/api/.hidden.ts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Files(context.Background(), fsys, tt.include, nil)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestFilesFollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	api := filepath.Join(root, "pages", "api")
	require.NoError(t, os.MkdirAll(api, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(api, "keep.ts"), []byte("keep"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "shared.ts"), []byte("shared"), 0o644))
	if err := os.Symlink(filepath.Join(root, "shared.ts"), filepath.Join(api, "link.ts")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	got, err := Files(context.Background(), os.DirFS(root), "pages/api/**/*.ts", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pages/api/keep.ts", "pages/api/link.ts"}, got)
}

func TestFilesBrokenSymlink(t *testing.T) {
	root := t.TempDir()
	api := filepath.Join(root, "pages", "api")
	require.NoError(t, os.MkdirAll(api, 0o755))
	if err := os.Symlink(filepath.Join(root, "missing.ts"), filepath.Join(api, "dangling.ts")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	_, err := Files(context.Background(), os.DirFS(root), "pages/api/**/*.ts", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolving symlink pages/api/dangling.ts")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
