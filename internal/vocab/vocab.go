package vocab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Boundary marks both the start padding of a context and the end of a name.
const Boundary = '.'

var (
	ErrEmptyVocabulary       = errors.New("empty vocabulary")
	ErrMissingBoundarySymbol = errors.New("vocabulary has no boundary symbol")
	ErrDuplicateCharacter    = errors.New("duplicate vocabulary character")
	ErrUnknownCharacter      = errors.New("unknown character")
	ErrIndexOutOfRange       = errors.New("index out of range")
)

// Vocabulary is the closed, ordered character set a model was trained on.
// A character's index is its position in the construction input.
type Vocabulary struct {
	chars    []rune
	index    map[rune]int
	boundary int
}

// New builds a Vocabulary from chars. The slice is copied.
func New(chars []rune) (*Vocabulary, error) {
	if len(chars) == 0 {
		return nil, ErrEmptyVocabulary
	}
	v := &Vocabulary{
		chars:    make([]rune, len(chars)),
		index:    make(map[rune]int, len(chars)),
		boundary: -1,
	}
	copy(v.chars, chars)
	for i, c := range v.chars {
		if prev, ok := v.index[c]; ok {
			return nil, fmt.Errorf("%w: %q at %d and %d", ErrDuplicateCharacter, c, prev, i)
		}
		v.index[c] = i
		if c == Boundary {
			v.boundary = i
		}
	}
	if v.boundary < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingBoundarySymbol, Boundary)
	}
	return v, nil
}

// Parse reads one character per line. Blank lines are skipped.
func Parse(r io.Reader) (*Vocabulary, error) {
	var chars []rune
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimRight(sc.Text(), "\r")
		if s == "" {
			continue
		}
		if utf8.RuneCountInString(s) != 1 {
			return nil, fmt.Errorf("line %d: expected a single character, got %q", line, s)
		}
		c, _ := utf8.DecodeRuneInString(s)
		chars = append(chars, c)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return New(chars)
}

// Load reads a vocabulary file from path.
func Load(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	v, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary %s: %w", path, err)
	}
	return v, nil
}

// Size returns the number of characters, boundary included.
func (v *Vocabulary) Size() int { return len(v.chars) }

// BoundaryIndex returns the index of the boundary symbol.
func (v *Vocabulary) BoundaryIndex() int { return v.boundary }

// IndexOf returns the index of c.
func (v *Vocabulary) IndexOf(c rune) (int, error) {
	i, ok := v.index[c]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCharacter, c)
	}
	return i, nil
}

// CharAt returns the character at index i.
func (v *Vocabulary) CharAt(i int) (rune, error) {
	if i < 0 || i >= len(v.chars) {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(v.chars))
	}
	return v.chars[i], nil
}

// Chars returns a copy of the characters in index order.
func (v *Vocabulary) Chars() []rune {
	out := make([]rune, len(v.chars))
	copy(out, v.chars)
	return out
}

// Encode maps every character of s to its index.
func (v *Vocabulary) Encode(s string) ([]int, error) {
	ids := make([]int, 0, len(s))
	for _, c := range s {
		i, err := v.IndexOf(c)
		if err != nil {
			return nil, err
		}
		ids = append(ids, i)
	}
	return ids, nil
}

// Decode is the inverse of Encode. Boundary indices are dropped.
func (v *Vocabulary) Decode(ids []int) (string, error) {
	var sb strings.Builder
	sb.Grow(len(ids))
	for _, id := range ids {
		c, err := v.CharAt(id)
		if err != nil {
			return "", err
		}
		if id == v.boundary {
			continue
		}
		sb.WriteRune(c)
	}
	return sb.String(), nil
}
