package shared

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{"short ascii untouched", "timeout", 10, "timeout"},
		{"exact length", "timeout", 7, "timeout"},
		{"cuts ascii", "timeout", 4, "time"},
		{"counts characters not bytes", "café crème", 4, "café"},
		{"keeps multibyte sequences whole", "日本語のエラー", 3, "日本語"},
		{"emoji", "🔥🔥🔥", 2, "🔥🔥"},
		{"zero", "abc", 0, ""},
		{"empty", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateRunes(tt.input, tt.n)
			assert.Equal(t, tt.expected, got)
			assert.True(t, utf8.ValidString(got))
		})
	}

	t.Run("byte limit would split a rune", func(t *testing.T) {
		// 999 ASCII bytes then a 3 byte rune straddling byte 1000
		msg := strings.Repeat("a", 999) + "境界" + strings.Repeat("b", 10)
		got := TruncateRunes(msg, MaxMessageLength)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, MaxMessageLength, utf8.RuneCountInString(got))
		assert.True(t, strings.HasSuffix(got, "境"))
	})
}
