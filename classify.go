package safedecoding

import "strings"

// Classify pattern-matches a type expression into a TypeDescriptor. Both the
// sugared spellings ("T?", "[T]", "[K: V]") and the generic-call spellings
// ("Optional<T>", "Array<T>", "Set<T>", "Dictionary<K, V>") of the same shape
// classify identically. Classification is purely syntactic; unclassifiable
// expressions fall through to Scalar, so there is no failure mode.
func Classify(expr string) TypeDescriptor {
	s := strings.TrimSpace(expr)
	if s == "" {
		return ScalarType(s)
	}

	// optional sugar: T?
	if strings.HasSuffix(s, "?") && balanced(s[:len(s)-1]) {
		return OptionalType(Classify(s[:len(s)-1]))
	}

	// bracket sugar: [T] or [K: V]
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") && balanced(s) {
		inner := s[1 : len(s)-1]
		if i := topLevelIndex(inner, ':'); i >= 0 {
			return DictionaryType(Classify(inner[:i]), Classify(inner[i+1:]))
		}
		return ArrayType(Classify(inner))
	}

	// generic-call spellings
	if name, args, ok := splitGeneric(s); ok {
		switch {
		case name == "Optional" && len(args) == 1:
			return OptionalType(Classify(args[0]))
		case name == "Array" && len(args) == 1:
			return ArrayType(Classify(args[0]))
		case name == "Set" && len(args) == 1:
			return SetType(Classify(args[0]))
		case name == "Dictionary" && len(args) == 2:
			return DictionaryType(Classify(args[0]), Classify(args[1]))
		}
	}

	return ScalarType(s)
}

// balanced reports whether every <...> and [...] pair in s closes at or above
// depth zero. A trailing "?" on an unbalanced prefix must not strip.
func balanced(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '<', '[':
			depth++
		case '>', ']':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// topLevelIndex returns the index of the first sep rune appearing at bracket
// depth zero, or -1.
func topLevelIndex(s string, sep rune) int {
	depth := 0
	for i, r := range s {
		switch r {
		case '<', '[':
			depth++
		case '>', ']':
			depth--
		default:
			if r == sep && depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitGeneric decomposes "Name<A, B>" into its name and top-level argument
// list. It returns ok=false for anything that is not a single generic call.
func splitGeneric(s string) (name string, args []string, ok bool) {
	open := strings.IndexRune(s, '<')
	if open <= 0 || !strings.HasSuffix(s, ">") || !balanced(s) {
		return "", nil, false
	}
	name = strings.TrimSpace(s[:open])
	body := s[open+1 : len(s)-1]
	depth := 0
	start := 0
	for i, r := range body {
		switch r {
		case '<', '[':
			depth++
		case '>', ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(body[start:i]))
				start = i + 1
			}
		}
	}
	args = append(args, strings.TrimSpace(body[start:]))
	return name, args, true
}
