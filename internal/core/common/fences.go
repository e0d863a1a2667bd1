package common

import "strings"

// StripFences removes markdown code fences wrapping LLM output. The accepted
// shape is: optional leading fence with an optional language tag, then the
// content, then an optional trailing fence. Nested fences are unwrapped until
// a fixed point, so the function is idempotent.
func StripFences(s string) string {
	out := strings.TrimSpace(s)
	for {
		next := stripOnce(out)
		if next == out {
			return out
		}
		out = next
	}
}

func stripOnce(s string) string {
	out := s
	if strings.HasPrefix(out, "```") {
		out = out[3:]
		// the language tag occupies the rest of the fence, up to whitespace
		i := 0
		for i < len(out) && isTagByte(out[i]) {
			i++
		}
		out = out[i:]
	}
	out = strings.TrimSpace(out)
	if strings.HasSuffix(out, "```") {
		out = strings.TrimSuffix(out, "```")
	}
	return strings.TrimSpace(out)
}

func isTagByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '+':
		return true
	}
	return false
}
