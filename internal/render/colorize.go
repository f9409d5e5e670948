package render

import "strings"

// ansi color codes
const (
	colorReset  = "\033[0m"
	colorKey    = "\033[36m" // cyan for keys
	colorString = "\033[32m" // green for strings
	colorNumber = "\033[33m" // yellow for numbers
	colorBool   = "\033[35m" // magenta for booleans
	colorNull   = "\033[90m" // gray for null
	colorRed    = "\033[31m"
)

// Colorize adds ANSI colors to a body panel. Only JSON bodies are touched;
// the text is scanned as-is so key order and layout survive.
func Colorize(p Panels) string {
	switch p.BodyKind {
	case BodyJSON:
		if _, ok := p.data.(string); ok {
			return p.Body
		}
		return colorizeJSON(p.Body)
	case BodyParseError:
		return colorRed + p.Body + colorReset
	default:
		return p.Body
	}
}

func colorizeJSON(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"':
			j := endOfString(s, i)
			color := colorString
			if isKey(s, j) {
				color = colorKey
			}
			sb.WriteString(color + s[i:j] + colorReset)
			i = j
		case c == '-' || (c >= '0' && c <= '9'):
			j := i + 1
			for j < len(s) && strings.IndexByte("0123456789.eE+-", s[j]) >= 0 {
				j++
			}
			sb.WriteString(colorNumber + s[i:j] + colorReset)
			i = j
		case strings.HasPrefix(s[i:], "true"):
			sb.WriteString(colorBool + "true" + colorReset)
			i += 4
		case strings.HasPrefix(s[i:], "false"):
			sb.WriteString(colorBool + "false" + colorReset)
			i += 5
		case strings.HasPrefix(s[i:], "null"):
			sb.WriteString(colorNull + "null" + colorReset)
			i += 4
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// endOfString returns the index just past the string literal starting at i.
func endOfString(s string, i int) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(s)
}

func isKey(s string, j int) bool {
	for ; j < len(s); j++ {
		switch s[j] {
		case ' ', '\t', '\n', '\r':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}
