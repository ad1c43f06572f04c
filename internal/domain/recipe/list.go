package recipe

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/recipedex/internal/domain"
)

// ParseList decodes a serialized list of strings. Accepted forms are a JSON array of
// strings and a bracketed list of single- or double-quoted strings ("['a', "b's"]").
// Everything else fails with domain.ErrMalformedList.
func ParseList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", domain.ErrMalformedList)
	}

	if s == "null" {
		return nil, fmt.Errorf("%w: null", domain.ErrMalformedList)
	}

	var out []string
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		if out == nil {
			out = []string{}
		}
		return out, nil
	}

	p := listParser{src: s}
	out, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedList, err)
	}
	return out, nil
}

// FormatList serializes a string list as a JSON array. '&', '<' and '>' are kept
// literal so substring matching sees the ingredient names as written.
func FormatList(items []string) string {
	if items == nil {
		items = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// listParser scans a bracketed, comma-separated list of quoted string literals.
type listParser struct {
	src string
	pos int
}

func (p *listParser) parse() ([]string, error) {
	p.skipSpace()
	if !p.consume('[') {
		return nil, fmt.Errorf("expected '[' at offset %d", p.pos)
	}

	items := []string{}
	p.skipSpace()
	if p.consume(']') {
		return items, p.expectEnd()
	}

	for {
		p.skipSpace()
		item, err := p.quoted()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		p.skipSpace()
		if p.consume(']') {
			return items, p.expectEnd()
		}
		if !p.consume(',') {
			return nil, fmt.Errorf("expected ',' or ']' at offset %d", p.pos)
		}
		// trailing comma
		p.skipSpace()
		if p.consume(']') {
			return items, p.expectEnd()
		}
	}
}

func (p *listParser) quoted() (string, error) {
	if p.pos >= len(p.src) {
		return "", fmt.Errorf("unexpected end of input")
	}
	quote := p.src[p.pos]
	if quote != '\'' && quote != '"' {
		return "", fmt.Errorf("expected quoted string at offset %d", p.pos)
	}
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\':
			if p.pos+1 >= len(p.src) {
				return "", fmt.Errorf("dangling escape at offset %d", p.pos)
			}
			b.WriteByte(unescape(p.src[p.pos+1]))
			p.pos += 2
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", fmt.Errorf("unterminated string")
}

func (p *listParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *listParser) consume(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *listParser) expectEnd() error {
	p.skipSpace()
	if p.pos != len(p.src) {
		return fmt.Errorf("unexpected trailing data at offset %d", p.pos)
	}
	return nil
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}
