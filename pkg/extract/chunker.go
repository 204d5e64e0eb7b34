package extract

import (
	"strings"
	"unicode/utf8"
)

// Default chunking parameters, tuned for dense legal text.
const (
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 200
)

// separators are tried in order; the first one present in the text is
// used to split, and longer pieces recurse on the remaining separators.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunker splits text recursively on semantic boundaries, producing
// chunks of at most Size characters with roughly Overlap characters of
// shared context between consecutive chunks.
type Chunker struct {
	Size    int
	Overlap int
}

// NewChunker returns a chunker with the given size and overlap.
// Non-positive values fall back to the defaults.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			overlap = size / 10
		}
	}
	return &Chunker{Size: size, Overlap: overlap}
}

// Split breaks text into chunks. Whitespace-only input yields no
// chunks.
func (c *Chunker) Split(text string) []string {
	return c.split(text, separators)
}

func (c *Chunker) split(text string, seps []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= c.Size {
		return []string{strings.TrimSpace(text)}
	}

	sep, rest := pickSeparator(text, seps)
	if sep == "" {
		// No boundary left; hard-cut the text.
		return c.hardSplit(text)
	}

	pieces := strings.SplitAfter(text, sep)
	return c.merge(pieces, rest)
}

// merge greedily packs pieces into chunks of at most Size characters.
// Oversized pieces recurse on finer separators. When a chunk is
// flushed, the next one is seeded with its tail to preserve context
// across the boundary.
func (c *Chunker) merge(pieces []string, rest []string) []string {
	var chunks []string
	var cur strings.Builder

	flush := func() string {
		out := strings.TrimSpace(cur.String())
		cur.Reset()
		if out != "" {
			chunks = append(chunks, out)
		}
		return out
	}

	for _, piece := range pieces {
		if len(piece) > c.Size {
			flush()
			chunks = append(chunks, c.split(piece, rest)...)
			continue
		}
		if cur.Len()+len(piece) > c.Size {
			flushed := flush()
			if tail := c.overlapTail(flushed); tail != "" {
				cur.WriteString(tail)
				cur.WriteString(" ")
			}
		}
		cur.WriteString(piece)
	}
	flush()

	return chunks
}

// overlapTail returns up to Overlap trailing bytes of chunk, aligned
// to rune and then word boundaries so a cut never splits a multi-byte
// character.
func (c *Chunker) overlapTail(chunk string) string {
	if c.Overlap == 0 || chunk == "" {
		return ""
	}
	if len(chunk) <= c.Overlap {
		return chunk
	}
	cut := alignRuneForward(chunk, len(chunk)-c.Overlap)
	tail := chunk[cut:]
	if idx := strings.IndexAny(tail, " \n"); idx >= 0 {
		tail = tail[idx+1:]
	}
	return strings.TrimSpace(tail)
}

// hardSplit cuts text into Size-length chunks with Overlap carryover,
// used only when no separator is available. Cut points are aligned to
// rune boundaries.
func (c *Chunker) hardSplit(text string) []string {
	var chunks []string
	step := c.Size - c.Overlap
	for start := 0; start < len(text); {
		end := start + c.Size
		if end >= len(text) {
			end = len(text)
		} else {
			end = alignRuneBack(text, end)
		}
		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(text) {
			break
		}
		start = alignRuneForward(text, start+step)
	}
	return chunks
}

// alignRuneForward moves i forward to the nearest rune start.
func alignRuneForward(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}

// alignRuneBack moves i backward to the nearest rune start.
func alignRuneBack(s string, i int) int {
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

func pickSeparator(text string, seps []string) (string, []string) {
	for i, s := range seps {
		if s == "" {
			return "", nil
		}
		if strings.Contains(text, s) {
			return s, seps[i+1:]
		}
	}
	return "", nil
}
