// SPDX-License-Identifier: MIT

package oifits

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	blockSize = 2880
	cardSize  = 80
	keySize   = 8
	valueCol  = 20 // fixed-format values end in column 30
)

// Card is a single keyword record. Value is nil for commentary cards and
// otherwise one of string, bool, int, int64 or float64.
type Card struct {
	Key     string
	Value   any
	Comment string
}

// Header is an ordered list of cards. END is implicit.
type Header struct {
	Cards []Card
}

// Add appends a card.
func (h *Header) Add(key string, value any, comment string) {
	h.Cards = append(h.Cards, Card{Key: key, Value: value, Comment: comment})
}

// Get returns the value of the first card named key.
func (h Header) Get(key string) (any, bool) {
	for _, c := range h.Cards {
		if c.Key == key && c.Value != nil {
			return c.Value, true
		}
	}

	return nil, false
}

// String returns a string-valued keyword.
func (h Header) String(key string) (string, bool) {
	v, ok := h.Get(key)
	s, isStr := v.(string)

	return s, ok && isStr
}

// Int returns an integer-valued keyword.
func (h Header) Int(key string) (int, bool) {
	v, ok := h.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	}

	return 0, false
}

// Float returns a numeric keyword as float64.
func (h Header) Float(key string) (float64, bool) {
	v, ok := h.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}

	return 0, false
}

// Bool returns a logical keyword.
func (h Header) Bool(key string) (bool, bool) {
	v, ok := h.Get(key)
	b, isBool := v.(bool)

	return b, ok && isBool
}

// formatCard renders c as exactly 80 ASCII characters.
func formatCard(c Card) (string, error) {
	if len(c.Key) > keySize || !printable(c.Key) || !printable(c.Comment) {
		return "", fmt.Errorf("key %q: %w", c.Key, ErrBadCard)
	}
	if c.Value == nil {
		return pad(fmt.Sprintf("%-8s%s", c.Key, c.Comment), cardSize), nil
	}

	var val string
	switch v := c.Value.(type) {
	case string:
		if !printable(v) {
			return "", fmt.Errorf("key %s: non-ASCII value: %w", c.Key, ErrBadCard)
		}
		quoted := "'" + pad(strings.ReplaceAll(v, "'", "''"), 8) + "'"
		val = fmt.Sprintf("%-*s", valueCol, quoted)
	case bool:
		b := "F"
		if v {
			b = "T"
		}
		val = fmt.Sprintf("%*s", valueCol, b)
	case int:
		val = fmt.Sprintf("%*d", valueCol, v)
	case int64:
		val = fmt.Sprintf("%*d", valueCol, v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", fmt.Errorf("key %s: non-finite value: %w", c.Key, ErrBadCard)
		}
		val = fmt.Sprintf("%*s", valueCol, formatFloat(v))
	default:
		return "", fmt.Errorf("key %s: value type %T: %w", c.Key, c.Value, ErrBadCard)
	}

	line := fmt.Sprintf("%-8s= %s", c.Key, val)
	if len(line) > cardSize {
		return "", fmt.Errorf("key %s: value too long: %w", c.Key, ErrBadCard)
	}
	if c.Comment != "" {
		line += " / " + c.Comment
	}
	if len(line) > cardSize {
		line = line[:cardSize]
	}

	return pad(line, cardSize), nil
}

// formatFloat renders v so that it always parses back as a real.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'G', -1, 64)
	if !strings.ContainsAny(s, ".E") {
		s += ".0"
	}

	return s
}

// parseCard decodes one 80-character card.
func parseCard(line string) (Card, error) {
	key := strings.TrimSpace(line[:keySize])
	if len(line) < keySize+2 || line[keySize:keySize+2] != "= " {
		return Card{Key: key, Comment: strings.TrimRight(line[keySize:], " ")}, nil
	}

	rest := strings.TrimLeft(line[keySize+2:], " ")
	if strings.HasPrefix(rest, "'") {
		var sb strings.Builder
		i := 1
		for ; i < len(rest); i++ {
			if rest[i] == '\'' {
				if i+1 < len(rest) && rest[i+1] == '\'' {
					sb.WriteByte('\'')
					i++
					continue
				}
				break
			}
			sb.WriteByte(rest[i])
		}
		if i >= len(rest) {
			return Card{}, fmt.Errorf("key %s: unterminated string: %w", key, ErrBadCard)
		}

		return Card{Key: key, Value: strings.TrimRight(sb.String(), " "), Comment: comment(rest[i+1:])}, nil
	}

	tok, cmt := rest, ""
	if slash := strings.IndexByte(rest, '/'); slash >= 0 {
		tok, cmt = rest[:slash], comment(rest[slash:])
	}
	tok = strings.TrimSpace(tok)
	switch tok {
	case "T":
		return Card{Key: key, Value: true, Comment: cmt}, nil
	case "F":
		return Card{Key: key, Value: false, Comment: cmt}, nil
	case "":
		return Card{Key: key, Comment: cmt}, nil
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return Card{Key: key, Value: n, Comment: cmt}, nil
	}
	f, err := strconv.ParseFloat(strings.Replace(tok, "D", "E", 1), 64)
	if err != nil {
		return Card{}, fmt.Errorf("key %s: value %q: %w", key, tok, ErrBadCard)
	}

	return Card{Key: key, Value: f, Comment: cmt}, nil
}

// comment extracts the text after the first '/' of s.
func comment(s string) string {
	slash := strings.IndexByte(s, '/')
	if slash < 0 {
		return ""
	}

	return strings.TrimSpace(s[slash+1:])
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}

	return s + strings.Repeat(" ", n-len(s))
}

func printable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}

	return true
}
