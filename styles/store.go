package styles

import (
	"slices"
	"strings"
)

// Block markers. All markers are matched at the start of a line and are
// case sensitive. The ">::" and "{#" terminators come from the workflow
// files that predate this format and only close a block, never open one.
const (
	OpenMarker = ">>>"

	sectionMarker = ">::"
	commentMarker = "{#"
)

// terminators lists every line prefix that ends an open block.
var terminators = []string{OpenMarker, sectionMarker, commentMarker}

// Span locates a style block inside a text as a half-open range of line
// indexes: Start is the open-marker line, End is the terminator line (or the
// number of lines when the block runs to the end of the text).
type Span struct {
	Start      int
	End        int
	Terminated bool
}

// Block is one style definition found in a text.
type Block struct {
	Name string // name as written after the open marker, trimmed
	Body string // lines between the marker and the terminator, joined with "\n"
	Span Span
}

// scanState is the state of the single-pass block scanner.
type scanState int

const (
	seekingStart scanState = iota
	inBlock
	done
)

// FindStyleBlock locates the first block named name (case-insensitive)
// inside text. It returns false when name is not a valid style name or when
// no such block exists.
func FindStyleBlock(text, name string) (Span, bool) {
	name = NormalizeStyleName(name)
	if name == "" {
		return Span{}, false
	}
	return findBlock(splitLines(text), nameKey(name))
}

// RemoveStyleFromText removes the block named name from text.
//
// The text is returned unchanged when the name is not valid or no block
// matches. When the block has no terminator everything from its open marker
// to the end of the text is dropped. Otherwise the lines on both sides of
// the block are rejoined with "\n".
//
// Example:
//
//	text := "a\n>>>Retro\nold {$@}\n>>>Neon\nneon {$@}"
//	RemoveStyleFromText(text, "retro")  // "a\n>>>Neon\nneon {$@}"
func RemoveStyleFromText(text, name string) string {
	name = NormalizeStyleName(name)
	if name == "" {
		return text
	}

	lines := splitLines(text)
	span, found := findBlock(lines, nameKey(name))
	if !found {
		return text
	}
	if !span.Terminated {
		return strings.Join(lines[:span.Start], "\n")
	}
	return strings.Join(slices.Concat(lines[:span.Start], lines[span.End:]), "\n")
}

// AppendStyleToText appends a block named name holding template to text.
//
// No deduplication takes place; call RemoveStyleFromText first to replace
// an existing block. A line break is inserted when text does not already
// end with one, so the open marker always starts a line.
func AppendStyleToText(text, name, template string) string {
	var b strings.Builder
	b.Grow(len(text) + len(OpenMarker) + len(name) + len(template) + 5)

	b.WriteString(text)
	if text != "" && !endsWithLineBreak(text) {
		b.WriteByte('\n')
	}
	b.WriteString(OpenMarker)
	b.WriteString(name)
	b.WriteByte('\n')
	b.WriteString(template)
	b.WriteString("\n\n\n")
	return b.String()
}

// ParseBlocks returns every style block in text, in order of appearance.
// Text outside blocks is ignored.
func ParseBlocks(text string) []Block {
	lines := splitLines(text)

	var blocks []Block
	current := -1
	closeBlock := func(end int, terminated bool) {
		if current < 0 {
			return
		}
		blocks = append(blocks, Block{
			Name: markerName(lines[current]),
			Body: strings.Join(lines[current+1:end], "\n"),
			Span: Span{Start: current, End: end, Terminated: terminated},
		})
		current = -1
	}

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, OpenMarker):
			closeBlock(i, true)
			current = i
		case isTerminator(line):
			closeBlock(i, true)
		}
	}
	closeBlock(len(lines), false)

	return blocks
}

// findBlock runs the seekingStart -> inBlock -> done scan for the block
// whose trimmed marker text matches key case-insensitively. Marker text is
// not unquoted, so ">>>'Custom 1'" is not the block "Custom 1".
func findBlock(lines []string, key string) (Span, bool) {
	state := seekingStart
	span := Span{Start: -1, End: len(lines)}

scan:
	for i, line := range lines {
		switch state {
		case seekingStart:
			if !strings.HasPrefix(line, OpenMarker) {
				continue
			}
			if nameKey(markerName(line)) == key {
				span.Start = i
				state = inBlock
			}
		case inBlock:
			if isTerminator(line) {
				span.End = i
				span.Terminated = true
				state = done
				break scan
			}
		}
	}

	if state == seekingStart {
		return Span{}, false
	}
	return span, true
}

// markerName extracts the style name from an open-marker line.
func markerName(line string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, OpenMarker))
}

func isTerminator(line string) bool {
	for _, prefix := range terminators {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func endsWithLineBreak(s string) bool {
	return strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\r")
}

// splitLines splits text on "\n", "\r\n" and "\r". A final line break does
// not produce a trailing empty line, and an empty text has no lines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
