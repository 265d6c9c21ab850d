package version_test

import (
	"testing"

	"codeberg.org/mutker/crayontools/internal/errors"
	"codeberg.org/mutker/crayontools/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    version.Version
	}{
		{"template", "crayon.version = '2.3.4';", version.Version{2, 3, 4}},
		{"surrounded", "// header\nvar x = 1;\ncry.version = '0.10.7';\nmore", version.Version{0, 10, 7}},
		{"wildcard separators", "crayon.version_=_'1.0.0';", version.Version{1, 0, 0}},
		{"first match wins", "a.version = '1.2.3';\nb.version = '4.5.6';", version.Version{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := version.Parse(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNotFound(t *testing.T) {
	for _, content := range []string{
		"",
		`cry.version = "v0.2";`,
		"crayon.version = '1.2';",
		"crayon.version = '1.2.3'",
		"crayon.version  =  '1.2.3';",
	} {
		_, err := version.Parse(content)
		require.Error(t, err, content)
		assert.True(t, errors.HasCode(err, version.ErrVersionNotFound), content)
	}
}

func TestBump(t *testing.T) {
	base := version.Version{Major: 2, Minor: 3, Patch: 4}

	tests := []struct {
		d    version.Direction
		c    version.Component
		want version.Version
	}{
		{version.Increment, version.Major, version.Version{3, 0, 0}},
		{version.Increment, version.Minor, version.Version{2, 4, 0}},
		{version.Increment, version.Patch, version.Version{2, 3, 5}},
		{version.Decrement, version.Major, version.Version{1, 0, 0}},
		{version.Decrement, version.Minor, version.Version{2, 2, 0}},
		{version.Decrement, version.Patch, version.Version{2, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.d.String()+"_"+tt.c.String(), func(t *testing.T) {
			got, err := base.Bump(tt.d, tt.c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBumpPatchInverse(t *testing.T) {
	for _, v := range []version.Version{{0, 0, 1}, {1, 2, 3}, {9, 0, 41}} {
		up, err := v.Bump(version.Increment, version.Patch)
		require.NoError(t, err)
		back, err := up.Bump(version.Decrement, version.Patch)
		require.NoError(t, err)
		assert.Equal(t, v, back)

		down, err := v.Bump(version.Decrement, version.Patch)
		require.NoError(t, err)
		back, err = down.Bump(version.Increment, version.Patch)
		require.NoError(t, err)
		assert.Equal(t, v, back)
	}
}

func TestBumpUnderflow(t *testing.T) {
	v := version.Version{Major: 0, Minor: 0, Patch: 0}

	for _, c := range []version.Component{version.Major, version.Minor, version.Patch} {
		got, err := v.Bump(version.Decrement, c)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, version.ErrVersionUnderflow))
		assert.Equal(t, v, got)
	}
}

func TestParseArguments(t *testing.T) {
	d, err := version.ParseDirection("decrement")
	require.NoError(t, err)
	assert.Equal(t, version.Decrement, d)

	c, err := version.ParseComponent("minor")
	require.NoError(t, err)
	assert.Equal(t, version.Minor, c)

	_, err = version.ParseDirection("up")
	assert.True(t, errors.HasCode(err, version.ErrInvalidArgument))

	_, err = version.ParseComponent("build")
	assert.True(t, errors.HasCode(err, version.ErrInvalidArgument))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "crayon.version = '3.0.0';", version.Version{3, 0, 0}.Format("crayon"))
}

func TestRewrite(t *testing.T) {
	old, next, out, err := version.Rewrite("x\ncrayon.version = '2.3.4';\ny", "crayon", version.Increment, version.Minor)
	require.NoError(t, err)

	assert.Equal(t, version.Version{2, 3, 4}, old)
	assert.Equal(t, version.Version{2, 4, 0}, next)
	assert.Equal(t, "crayon.version = '2.4.0';", out)
}
