package inspect

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/elliottpearl/libertinus-analysis/core"
)

// Pair is a base character followed by a combining character.
type Pair struct {
	Base, Mark rune
}

func (p Pair) String() string {
	return fmt.Sprintf("%s+%s", CodePoint(p.Base), CodePoint(p.Mark))
}

// CodePoint formats a rune as U+XXXX.
func CodePoint(r rune) string {
	return fmt.Sprintf("U+%04X", r)
}

// Cross returns all pairs of bases × marks, marks varying fastest.
func Cross(bases, marks []rune) []Pair {
	pairs := make([]Pair, 0, len(bases)*len(marks))
	for _, b := range bases {
		for _, m := range marks {
			pairs = append(pairs, Pair{Base: b, Mark: m})
		}
	}
	return pairs
}

// ParsePair parses a single pair. Accepted forms are
//
//	a+U+0300    a:0300    U+0061:U+0300    0x61+0x300    u+U+0308
//
// A character is either given literally (a single rune) or as a
// hexadecimal code-point, optionally prefixed by "U+" or "0x". Without a
// ':' the pair is split at the one '+' which leaves a valid character on
// either side.
func ParsePair(s string) (Pair, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsRune(s, ':') {
		parts := strings.Split(s, ":")
		if len(parts) != 2 {
			return Pair{}, core.Error(core.EUSAGE, "malformed pair %q", s)
		}
		base, err := ParseCodePoint(parts[0])
		if err != nil {
			return Pair{}, err
		}
		mark, err := ParseCodePoint(parts[1])
		if err != nil {
			return Pair{}, err
		}
		return Pair{Base: base, Mark: mark}, nil
	}
	var pairs []Pair
	for i, c := range s {
		if c != '+' {
			continue
		}
		base, err := ParseCodePoint(s[:i])
		if err != nil {
			continue
		}
		mark, err := ParseCodePoint(s[i+1:])
		if err != nil {
			continue
		}
		pairs = append(pairs, Pair{Base: base, Mark: mark})
	}
	switch len(pairs) {
	case 0:
		return Pair{}, core.Error(core.EUSAGE, "malformed pair %q", s)
	case 1:
		return pairs[0], nil
	}
	return Pair{}, core.Error(core.EUSAGE, "ambiguous pair %q, use ':' to separate base and mark", s)
}

// ParseCodePoint parses a single character, see ParsePair.
func ParseCodePoint(s string) (rune, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	}
	hex := s
	for _, prefix := range []string{"U+", "u+", "0x", "0X"} {
		hex = strings.TrimPrefix(hex, prefix)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || hex == "" || n > unicode.MaxRune {
		return 0, core.Error(core.EUSAGE, "not a code-point: %q", s)
	}
	return rune(n), nil
}

// ParsePairs parses a list of pairs separated by commas or white space.
func ParsePairs(s string) ([]Pair, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	pairs := make([]Pair, 0, len(fields))
	for _, f := range fields {
		p, err := ParsePair(f)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// ReadPairs reads pairs from a line-oriented source. Text after '#' is a
// comment, blank lines are skipped. Errors mention the line number.
func ReadPairs(r io.Reader) ([]Pair, error) {
	var pairs []Pair
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		ps, err := ParsePairs(line)
		if err != nil {
			return nil, core.WrapError(err, core.EUSAGE, "line %d: %s", lineno, core.UserMessage(err))
		}
		pairs = append(pairs, ps...)
	}
	if err := scanner.Err(); err != nil {
		return nil, core.WrapError(err, core.EIO, "cannot read pairs")
	}
	return pairs, nil
}
