package utils

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Filter returns the values of a slice matching f, in their original order.
func Filter[T any](s []T, f func(T) bool) []T {
	var r []T
	for _, v := range s {
		if f(v) {
			r = append(r, v)
		}
	}
	return r
}

// FileExtension returns the lowercased extension of a filename including the
// leading dot, or "" if the name has none.
func FileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "." {
		return ""
	}
	return strings.ToLower(ext)
}

var fileSizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a byte count as a human readable string, e.g.
// "1.5 MB". Sizes are rounded to at most two decimal places.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(fileSizeUnits) {
		i = len(fileSizeUnits) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(i))
	formatted := strconv.FormatFloat(value, 'f', -1, 64)
	if dot := strings.Index(formatted, "."); dot >= 0 && len(formatted) > dot+3 {
		formatted = fmt.Sprintf("%.2f", value)
		formatted = strings.TrimRight(strings.TrimRight(formatted, "0"), ".")
	}
	return formatted + " " + fileSizeUnits[i]
}
