package shared

// MaxMessageLength bounds stored error and failure messages
const MaxMessageLength = 1000

// TruncateRunes cuts s to at most n characters without splitting a UTF-8
// sequence. Column limits count characters, not bytes.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
