package mesh

import (
	"strings"
	"unicode/utf8"
)

// SplitText splits text into packets of at most maxBytes bytes.
// It prefers line boundaries and never cuts a UTF-8 sequence. Unless a line
// is longer than maxBytes, joining the packets with "\n" restores text.
func SplitText(text string, maxBytes int) []string {
	if maxBytes <= 0 || len(text) <= maxBytes {
		return []string{text}
	}
	var (
		chunks  []string
		current strings.Builder
		open    bool
	)
	flush := func() {
		if open {
			chunks = append(chunks, current.String())
			current.Reset()
			open = false
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if open && current.Len()+1+len(line) <= maxBytes {
			current.WriteByte('\n')
			current.WriteString(line)
			continue
		}
		flush()
		for len(line) > maxBytes {
			cut := maxBytes
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = maxBytes
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		// a blank line still opens a chunk so it survives the split
		current.WriteString(line)
		open = true
	}
	flush()
	return chunks
}
