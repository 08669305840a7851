package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		usage   Usage
		want    string
		wantErr error
	}{
		{
			name:  "file wildcard",
			spec:  "*.ts",
			usage: UsageFiles,
			want:  `/root/([^./]([^./]|(\.(?!min\.js$))?)*)?\.ts`,
		},
		{
			name:  "literal file",
			spec:  "src/main.ts",
			usage: UsageFiles,
			want:  `/root/src/main\.ts`,
		},
		{
			name:  "implicit glob for bare directory",
			spec:  "src",
			usage: UsageFiles,
			want:  `/root/src(/[^/.][^/]*)*?/([^./]([^./]|(\.(?!min\.js$))?)*)?`,
		},
		{
			name:  "exclude implicit glob",
			spec:  "node_modules",
			usage: UsageExclude,
			want:  `/root/node_modules(/.+?)?/[^/]*`,
		},
		{
			name:  "exclude keeps leading star unrestricted",
			spec:  "*.d.ts",
			usage: UsageExclude,
			want:  `/root/[^/]*\.d\.ts`,
		},
		{
			name:  "directories wrap every component as optional",
			spec:  "src/**/*.ts",
			usage: UsageDirectories,
			want:  `((/root(/src(/[^/.][^/]*)*?(/([^./][^/]*)?\.ts)?)?)?)?`,
		},
		{
			name:  "leading question mark",
			spec:  "?.ts",
			usage: UsageFiles,
			want:  `/root/[^./]\.ts`,
		},
		{
			name:  "inner question mark",
			spec:  "a?.ts",
			usage: UsageFiles,
			want:  `/root/a[^/]\.ts`,
		},
		{
			name:  "reserved characters escaped",
			spec:  "lib-v1.0/(x)+.ts",
			usage: UsageFiles,
			want:  `/root/lib\-v1\.0/\(x\)\+\.ts`,
		},
		{
			name:  "leading recursive wildcard",
			spec:  "**/*.ts",
			usage: UsageFiles,
			want:  `/root(/[^/.][^/]*)*?/([^./]([^./]|(\.(?!min\.js$))?)*)?\.ts`,
		},
		{
			name:  "dot segments resolved",
			spec:  "./a/../b.ts",
			usage: UsageFiles,
			want:  `/root/b\.ts`,
		},
		{
			name:    "trailing recursive wildcard invalid for files",
			spec:    "src/**",
			usage:   UsageFiles,
			wantErr: ErrTrailingRecursiveWildcard,
		},
		{
			name:    "trailing recursive wildcard invalid for directories",
			spec:    "src/**",
			usage:   UsageDirectories,
			wantErr: ErrTrailingRecursiveWildcard,
		},
		{
			name:  "trailing recursive wildcard allowed for exclude",
			spec:  "src/**",
			usage: UsageExclude,
			want:  `/root/src(/.+?)?`,
		},
		{
			name:    "two recursive wildcards",
			spec:    "a/**/b/**/*.ts",
			usage:   UsageFiles,
			wantErr: ErrMultipleRecursiveWildcards,
		},
		{
			name:    "implicit glob adds a second recursive wildcard",
			spec:    "**/src",
			usage:   UsageFiles,
			wantErr: ErrMultipleRecursiveWildcards,
		},
		{
			name:    "empty",
			spec:    "",
			usage:   UsageExclude,
			wantErr: ErrEmptySpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompileSpec(tt.spec, "/root", tt.usage)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsImplicitGlob(t *testing.T) {
	assert.True(t, IsImplicitGlob("src"))
	assert.False(t, IsImplicitGlob("main.ts"))
	assert.False(t, IsImplicitGlob("*"))
	assert.False(t, IsImplicitGlob("a?"))
}

func TestUsageString(t *testing.T) {
	assert.Equal(t, "files", UsageFiles.String())
	assert.Equal(t, "directories", UsageDirectories.String())
	assert.Equal(t, "exclude", UsageExclude.String())
	assert.Equal(t, "unknown", Usage(42).String())
}

func TestCompile(t *testing.T) {
	t.Run("anchors files with dollar", func(t *testing.T) {
		p := Compile([]string{"a.ts", "b.ts"}, "/root", UsageFiles, true)
		require.NotNil(t, p)
		assert.Equal(t, `^((/root/a\.ts)|(/root/b\.ts))$`, p.String())
		assert.True(t, p.MatchString("/root/b.ts"))
		assert.False(t, p.MatchString("/root/b.ts/c"))
	})

	t.Run("anchors exclude with subtree", func(t *testing.T) {
		p := Compile([]string{"build"}, "/root", UsageExclude, true)
		require.NotNil(t, p)
		assert.Equal(t, `^((/root/build(/.+?)?/[^/]*))($|/)`, p.String())
		assert.True(t, p.MatchString("/root/build/out.js"))
		assert.True(t, p.MatchString("/root/build/deep/nested/out.js"))
		assert.False(t, p.MatchString("/root/builder/out.js"))
	})

	t.Run("invalid specs are skipped", func(t *testing.T) {
		p := Compile([]string{"src/**", "*.ts"}, "/root", UsageFiles, true)
		require.NotNil(t, p)
		assert.True(t, p.MatchString("/root/a.ts"))
	})

	t.Run("no valid spec yields nil", func(t *testing.T) {
		assert.Nil(t, Compile(nil, "/root", UsageFiles, true))
		assert.Nil(t, Compile([]string{"src/**"}, "/root", UsageFiles, true))
		assert.Nil(t, Compile([]string{""}, "/root", UsageExclude, true))
	})
}

func TestPatternMatching(t *testing.T) {
	tests := []struct {
		name          string
		spec          string
		usage         Usage
		caseSensitive bool
		matches       []string
		rejects       []string
	}{
		{
			name:          "literal file matches itself only",
			spec:          "src/main.ts",
			usage:         UsageFiles,
			caseSensitive: true,
			matches:       []string{"/root/src/main.ts"},
			rejects:       []string{"/root/src/other.ts", "/root/src/main.tsx", "/root/src/mainXts"},
		},
		{
			name:          "star skips dotfiles",
			spec:          "*",
			usage:         UsageFiles,
			caseSensitive: true,
			matches:       []string{"/root/readme", "/root/a.b.c"},
			rejects:       []string{"/root/.env", "/root/dir/file"},
		},
		{
			name:          "star in files mode skips minified js",
			spec:          "*.js",
			usage:         UsageFiles,
			caseSensitive: true,
			matches:       []string{"/root/app.js", "/root/app.bundle.js"},
			rejects:       []string{"/root/app.min.js"},
		},
		{
			name:          "recursive wildcard skips hidden directories",
			spec:          "**/*.ts",
			usage:         UsageFiles,
			caseSensitive: true,
			matches:       []string{"/root/a.ts", "/root/x/y/a.ts"},
			rejects:       []string{"/root/.hidden/a.ts", "/root/x/.git/a.ts"},
		},
		{
			name:          "explicit dot include",
			spec:          "**/.*",
			usage:         UsageFiles,
			caseSensitive: true,
			matches:       []string{"/root/.env", "/root/x/.eslintrc"},
		},
		{
			name:          "directories match every ancestor prefix",
			spec:          "src/**/*.ts",
			usage:         UsageDirectories,
			caseSensitive: true,
			matches:       []string{"/root", "/root/src", "/root/src/a/b"},
			rejects:       []string{"/root/lib", "/root/src/.hidden"},
		},
		{
			name:          "directories never enter hidden names for a bare star",
			spec:          "*/*.ts",
			usage:         UsageDirectories,
			caseSensitive: true,
			matches:       []string{"/root/src"},
			rejects:       []string{"/root/.hidden"},
		},
		{
			name:          "exclude matches dotted names",
			spec:          "*",
			usage:         UsageExclude,
			caseSensitive: true,
			matches:       []string{"/root/.env", "/root/dir/below"},
		},
		{
			name:          "case insensitive",
			spec:          "SRC/*.TS",
			usage:         UsageFiles,
			caseSensitive: false,
			matches:       []string{"/root/src/a.ts", "/ROOT/Src/B.Ts"},
		},
		{
			name:          "case sensitive",
			spec:          "SRC/*.TS",
			usage:         UsageFiles,
			caseSensitive: true,
			rejects:       []string{"/root/src/a.ts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Compile([]string{tt.spec}, "/root", tt.usage, tt.caseSensitive)
			require.NotNil(t, p)
			for _, path := range tt.matches {
				assert.True(t, p.MatchString(path), "%s should match %s", p, path)
			}
			for _, path := range tt.rejects {
				assert.False(t, p.MatchString(path), "%s should not match %s", p, path)
			}
		})
	}
}

func TestNilPattern(t *testing.T) {
	var p *Pattern
	assert.False(t, p.MatchString("/anything"))
	assert.Equal(t, "", p.String())
}

func TestNewPatternError(t *testing.T) {
	_, err := NewPattern("(", true)
	assert.Error(t, err)
}
