/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package graph

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gofrs/uuid/v5"

	"github.com/bittoy/objectgraph/node"
)

// ParseDocument reads the reference node collaborator's document syntax: a
// JSON superset where any scalar, sequence or mapping value may be
// preceded by a `!tag`/`?tag` class-type sigil and/or an `&name` anchor
// definition, and a value position may instead hold a `*name` alias that
// reuses the exact Node previously bound to that anchor (true pointer
// sharing, not a deep copy) — spec §6 "Node collaborator".
//
// This is the reference implementation named in spec §1 as an external
// collaborator kept out of the core's scope; it is sufficient for the
// worked scenarios and the example program, not a schema-complete parser.
func ParseDocument(data []byte) (node.Node, error) {
	p := &parser{src: string(data), anchors: make(map[string]node.Node)}
	p.skipSpace()
	n, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("graph: unexpected trailing input at offset %d", p.pos)
	}
	return n, nil
}

type parser struct {
	src     string
	pos     int
	anchors map[string]node.Node
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',' {
			p.pos++
			continue
		}
		break
	}
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("graph: at offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

// parseValue consumes an optional tag sigil, an optional anchor
// definition, an optional alias reference, and then the raw value itself,
// in whichever order the source presents them.
func (p *parser) parseValue() (node.Node, error) {
	var tag string
	var anchorName string

	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unexpected end of input")
		}
		switch c {
		case '!', '?':
			t, err := p.readSigilName(c)
			if err != nil {
				return nil, err
			}
			tag = t
			continue
		case '&':
			name, err := p.readSigilName('&')
			if err != nil {
				return nil, err
			}
			anchorName = name
			continue
		case '*':
			name, err := p.readSigilName('*')
			if err != nil {
				return nil, err
			}
			target, ok := p.anchors[name]
			if !ok {
				return nil, p.errorf("alias *%s refers to an undefined anchor", name)
			}
			return target, nil
		}
		break
	}

	raw, err := p.parseRaw(tag)
	if err != nil {
		return nil, err
	}
	if anchorName != "" {
		id, err := mintAnchorID()
		if err != nil {
			return nil, err
		}
		setAnchor(raw, id)
		p.anchors[anchorName] = raw
	}
	return raw, nil
}

// readSigilName reads a sigil character followed by a bare identifier
// (letters, digits, underscore, dot, hyphen), e.g. "!MyType", "&a",
// "*a". For '!'/'?' the sigil itself is kept so the caller can hand the
// raw "!MyType"/"?MyType" string straight to the node constructors, which
// strip exactly one leading sigil themselves (node.StripSigil).
func (p *parser) readSigilName(sigil byte) (string, error) {
	start := p.pos
	p.pos++ // consume sigil
	nameStart := p.pos
	isRune := isIdentRune
	if sigil == '!' || sigil == '?' {
		isRune = isTagRune
	}
	for p.pos < len(p.src) && isRune(rune(p.src[p.pos])) {
		p.pos++
	}
	if p.pos == nameStart {
		return "", p.errorf("expected identifier after %q", string(sigil))
	}
	if sigil == '!' || sigil == '?' {
		return p.src[start:p.pos], nil
	}
	return p.src[nameStart:p.pos], nil
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '-' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isTagRune additionally allows ':' so namespaced tags like "ns::Color"
// round-trip; keys and anchor/alias names never need it, so callers that
// read those keep using isIdentRune.
func isTagRune(r rune) bool {
	return r == ':' || isIdentRune(r)
}

func (p *parser) parseRaw(tag string) (node.Node, error) {
	p.skipSpace()
	c, ok := p.peek()
	if !ok {
		return nil, p.errorf("unexpected end of input")
	}
	switch {
	case c == '{':
		return p.parseMapping(tag)
	case c == '[':
		return p.parseSequence(tag)
	case c == '"':
		s, err := p.parseQuotedString()
		if err != nil {
			return nil, err
		}
		return node.NewScalar(s, tag), nil
	case strings.HasPrefix(p.src[p.pos:], "null"):
		p.pos += len("null")
		return node.NewNull(tag), nil
	default:
		s, err := p.parseBareScalar()
		if err != nil {
			return nil, err
		}
		return node.NewScalar(s, tag), nil
	}
}

func (p *parser) parseMapping(tag string) (node.Node, error) {
	p.pos++ // consume '{'
	var pairs []node.Pair
	p.skipSpace()
	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated mapping")
		}
		if c == '}' {
			p.pos++
			break
		}
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if c, ok := p.peek(); !ok || c != ':' {
			return nil, p.errorf("expected ':' after mapping key %q", key)
		}
		p.pos++ // consume ':'
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, node.Pair{Key: key, Value: val})
		p.skipSpace()
		if c, ok := p.peek(); ok && c == '}' {
			p.pos++
			break
		}
	}
	return node.NewMapping(tag, pairs...), nil
}

func (p *parser) parseKey() (string, error) {
	p.skipSpace()
	c, ok := p.peek()
	if !ok {
		return "", p.errorf("expected mapping key")
	}
	if c == '"' {
		return p.parseQuotedString()
	}
	start := p.pos
	for p.pos < len(p.src) && isIdentRune(rune(p.src[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected mapping key")
	}
	return p.src[start:p.pos], nil
}

func (p *parser) parseSequence(tag string) (node.Node, error) {
	p.pos++ // consume '['
	var items []node.Node
	p.skipSpace()
	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated sequence")
		}
		if c == ']' {
			p.pos++
			break
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		p.skipSpace()
		if c, ok := p.peek(); ok && c == ']' {
			p.pos++
			break
		}
	}
	return node.NewSequence(tag, items...), nil
}

func (p *parser) parseQuotedString() (string, error) {
	p.pos++ // consume opening quote
	var sb strings.Builder
	for {
		if p.pos >= len(p.src) {
			return "", p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		if c == '"' {
			p.pos++
			return sb.String(), nil
		}
		if c == '\\' && p.pos+1 < len(p.src) {
			p.pos++
			switch p.src[p.pos] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"', '\\':
				sb.WriteByte(p.src[p.pos])
			default:
				sb.WriteByte(p.src[p.pos])
			}
			p.pos++
			continue
		}
		sb.WriteByte(c)
		p.pos++
	}
}

func (p *parser) parseBareScalar() (string, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ',' || c == '}' || c == ']' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected a value")
	}
	return p.src[start:p.pos], nil
}

func setAnchor(n node.Node, id string) {
	switch v := n.(type) {
	case *node.Scalar:
		v.Anchor = id
	case *node.Sequence:
		v.Anchor = id
	case *node.Mapping:
		v.Anchor = id
	case *node.Null:
		v.Anchor = id
	}
}

func mintAnchorID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("graph: minting anchor id: %w", err)
	}
	return id.String(), nil
}
