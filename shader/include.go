package shader

import (
	"strings"

	"go.uber.org/zap"

	"github.com/leaappelsmeier/hydra"
)

// nextLine returns the first line of text including its '\n', plus the
// remaining text.
func nextLine(text string) (line, rest string) {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx+1], text[idx+1:]
	}
	return text, ""
}

// acceptPrefix strips a leading prefix, reporting whether it was present.
func acceptPrefix(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

// skipSpace removes leading whitespace, including line breaks.
func skipSpace(s string) string {
	return strings.TrimLeft(s, " \t\r\n")
}

// replaceIncludes substitutes every #include line with the content of the
// referenced file, recursively. Each file is inlined at most once per
// top-level call; the files pulled in are recorded in alreadyIncluded. An
// unresolvable #include is logged and left in place.
func replaceIncludes(parentPath, original string, alreadyIncluded map[string]struct{}, locator hydra.FileLocator, cache hydra.FileCache) string {
	var result strings.Builder

	for original != "" {
		var line string
		line, original = nextLine(original)

		if ref, ok := includeReference(line); ok {
			if target, found := locator.FindFile(cache, parentPath, ref); found {
				if _, done := alreadyIncluded[target]; !done {
					alreadyIncluded[target] = struct{}{}

					content, err := cache.Content(target)
					if err != nil {
						Logger().Error("failed to read #include'd file",
							zap.String("path", target), zap.Error(err))
						continue
					}

					result.WriteString(replaceIncludes(target, content, alreadyIncluded, locator, cache))
				}
				continue
			}

			Logger().Error("couldn't locate file to #include", zap.String("reference", ref))
			// fall through, keeping the original #include statement
		}

		result.WriteString(line)
	}

	return result.String()
}

// includeReference extracts the file reference of a "#include" line.
func includeReference(line string) (string, bool) {
	rest := skipSpace(line)

	rest, ok := acceptPrefix(rest, "#")
	if !ok {
		return "", false
	}

	rest, ok = acceptPrefix(skipSpace(rest), "include")
	if !ok {
		return "", false
	}

	return strings.TrimSpace(rest), true
}
