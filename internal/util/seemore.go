package util

import "strings"

const (
	SeeMorePadding  = 500
	ZeroWidthSpace  = "​"
	seeMoreMinLines = 6
)

// ApplySeeMorePadding puts header on its own line followed by a run of
// zero-width spaces, which makes the chat client fold text behind a
// "see more" link.
func ApplySeeMorePadding(text, header string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	header = strings.TrimSpace(header)

	var b strings.Builder
	b.Grow(len(header) + len(text) + SeeMorePadding*len(ZeroWidthSpace) + 1)
	b.WriteString(header)
	b.WriteString(strings.Repeat(ZeroWidthSpace, SeeMorePadding))
	if !strings.HasPrefix(text, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(text)
	return b.String()
}

// StripLeadingHeader removes header (and the blank line after it) from the
// start of text.
func StripLeadingHeader(text, header string) string {
	if strings.TrimSpace(header) == "" {
		return text
	}
	for _, sep := range []string{"\r\n\r\n", "\n\n", "\r\n", "\n", ""} {
		if strings.HasPrefix(text, header+sep) {
			return strings.TrimPrefix(text, header+sep)
		}
	}
	return text
}

// FoldLong folds text whose first line is header once it grows past a few
// lines. Short texts are returned unchanged.
func FoldLong(text, header string) string {
	if strings.Count(text, "\n")+1 < seeMoreMinLines {
		return text
	}
	return ApplySeeMorePadding(StripLeadingHeader(text, header), header)
}
