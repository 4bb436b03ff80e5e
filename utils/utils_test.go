package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	values := []int{1, 2, 3, 4, 5, 6}
	even := Filter(values, func(v int) bool { return v%2 == 0 })
	assert.Equal(t, []int{2, 4, 6}, even)

	none := Filter(values, func(v int) bool { return v > 100 })
	assert.Empty(t, none)

	// order of the input is preserved
	words := []string{"beta", "alpha", "betamax"}
	matched := Filter(words, func(v string) bool { return len(v) > 4 })
	assert.Equal(t, []string{"alpha", "betamax"}, matched)
}

func TestFileExtension(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name     string
		input    string
		expected string
	}

	testCases := []testCase{
		{name: "windows package", input: "game.exe", expected: ".exe"},
		{name: "android package", input: "game.apk", expected: ".apk"},
		{name: "uppercase extension", input: "Setup.EXE", expected: ".exe"},
		{name: "multiple dots", input: "my.game.v2.apk", expected: ".apk"},
		{name: "no extension", input: "README", expected: ""},
		{name: "trailing dot", input: "weird.", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FileExtension(tc.input))
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0 B", FormatFileSize(0))
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1 KB", FormatFileSize(1024))
	assert.Equal(t, "1.5 MB", FormatFileSize(1572864))
	assert.Equal(t, "1 GB", FormatFileSize(1073741824))
}
