package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

// Content stream decoding. PDF page content encodes text through the
// text-showing operators Tj, ' and TJ; the string arguments are
// parenthesized with backslash escapes. This covers text-based recipe PDFs;
// scanned (image-only) PDFs yield no text and are rejected upstream.

var (
	// (string) Tj  or  (string) '
	showTextRE = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*(?:Tj|')`)
	// [ (str) -120 (str) ... ] TJ
	showArrayRE = regexp.MustCompile(`\[((?:\\.|[^\]\\])*)\]\s*TJ`)
	// strings inside a TJ array
	arrayStringRE = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)
	// text block boundaries approximate line structure
	textBlockRE = regexp.MustCompile(`BT|ET|T\*|TD|Td`)
)

// DecodeContent extracts the shown text from a single page's content stream.
// Line structure is approximated: each text-positioning operator starts a
// new line.
func DecodeContent(content string) string {
	var b strings.Builder

	// Split on positioning operators so separately positioned runs do not
	// glue together into one word.
	segments := textBlockRE.Split(content, -1)
	for _, segment := range segments {
		var parts []string
		for _, m := range showTextRE.FindAllStringSubmatch(segment, -1) {
			parts = append(parts, unescapeString(m[1]))
		}
		for _, m := range showArrayRE.FindAllStringSubmatch(segment, -1) {
			for _, sm := range arrayStringRE.FindAllStringSubmatch(m[1], -1) {
				parts = append(parts, unescapeString(sm[1]))
			}
		}
		line := strings.TrimSpace(strings.Join(parts, ""))
		if line != "" {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	return strings.TrimSpace(b.String())
}

// unescapeString resolves PDF string escapes: \( \) \\ \n \r \t and octal
// character codes.
func unescapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '(', ')', '\\':
			b.WriteByte(s[i])
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j-i < 3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			if code, err := strconv.ParseUint(s[i:j], 8, 16); err == nil && code < 256 {
				b.WriteByte(byte(code))
			}
			i = j - 1
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
