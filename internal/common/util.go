package common

// WipeByteArray overwrites b with zeros. Used for OTP codes read from the
// terminal once they have been submitted. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// IsDigits reports whether s consists of exactly n ASCII digits.
func IsDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// OnlyDigits drops every non-digit from s and truncates the result to max
// characters (max <= 0 means no limit).
func OnlyDigits(s string, max int) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
			if max > 0 && len(out) == max {
				break
			}
		}
	}
	return string(out)
}
