package parser

import (
	"iter"
	"regexp"
	"strings"
)

const (
	// quoteMarker starts every line of a block-quote.
	quoteMarker = ">"

	// blockStart is the prefix of the first line of a block.
	blockStart = "> "
)

var commentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)

// StripComments removes every <!-- ... --> region. Each region ends at the
// first closing marker after it opens; the result is not rescanned.
func StripComments(text string) string {
	return commentPattern.ReplaceAllString(text, "")
}

// Blocks yields the block-quotes of text in document order. A block
// starts at a line beginning with "> " and runs over every following
// line beginning with ">". Blocks are yielded with their markers intact.
func Blocks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		var block []string
		for _, line := range strings.Split(StripComments(text), "\n") {
			line = strings.TrimSuffix(line, "\r")
			switch {
			case block != nil && strings.HasPrefix(line, quoteMarker):
				block = append(block, line)
			case strings.HasPrefix(line, blockStart):
				block = []string{line}
			default:
				if block != nil {
					if !yield(strings.Join(block, "\n")) {
						return
					}
					block = nil
				}
			}
		}
		if block != nil {
			yield(strings.Join(block, "\n"))
		}
	}
}

// blockLines strips the quote marker (and one following space) from each
// line, trims it, and drops blank lines.
func blockLines(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(line, quoteMarker) {
			continue
		}
		line = strings.TrimPrefix(line, quoteMarker)
		line = strings.TrimPrefix(line, " ")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
