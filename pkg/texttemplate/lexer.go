// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"regexp"
	"strings"
	"unicode"

	"carvel.dev/vtt/pkg/filepos"
)

type TokenKind int

const (
	TokenText TokenKind = iota
	TokenOutput
	TokenTag
)

const (
	outputOpen  = "{{"
	outputClose = "}}"
	tagOpen     = "{%"
	tagClose    = "%}"
)

var (
	tagNameRegexp = regexp.MustCompile(`^([A-Za-z_]\w*)\s*`)
	endRawRegexp  = regexp.MustCompile(`{%-?\s*endraw\s*-?%}`)
)

// Token is a lexical piece of a template. For tags, Name and Markup are set;
// for outputs, Content holds the expression.
type Token struct {
	Kind     TokenKind
	Content  string
	Name     string
	Markup   string
	Position *filepos.Position

	trimLeft  bool
	trimRight bool
}

type lexer struct {
	name string
	data string

	line int
	col  int
}

func lex(name string, data string) ([]Token, error) {
	l := &lexer{name: name, data: data, line: 1, col: 1}
	return l.run()
}

func (l *lexer) run() ([]Token, error) {
	var tokens []Token
	offset := 0

	for offset < len(l.data) {
		openIdx, isTag := l.nextOpening(offset)
		if openIdx < 0 {
			tokens = append(tokens, l.textToken(l.data[offset:]))
			break
		}
		if openIdx > offset {
			tokens = append(tokens, l.textToken(l.data[offset:openIdx]))
		}

		closeMarker := outputClose
		if isTag {
			closeMarker = tagClose
		}

		pos := l.position()
		contentStart := openIdx + len(tagOpen)
		closeIdx := strings.Index(l.data[contentStart:], closeMarker)
		if closeIdx < 0 {
			return nil, NewSyntaxError(pos, "", "Missing closing '%s' for '%s'", closeMarker, l.data[openIdx:contentStart])
		}
		closeIdx += contentStart

		tok, err := l.markerToken(l.data[contentStart:closeIdx], isTag, pos)
		if err != nil {
			return nil, err
		}
		l.advance(l.data[openIdx : closeIdx+len(closeMarker)])
		offset = closeIdx + len(closeMarker)
		tokens = append(tokens, tok)

		if isTag && tok.Name == "raw" {
			loc := endRawRegexp.FindStringIndex(l.data[offset:])
			if loc == nil {
				return nil, NewSyntaxError(pos, "raw", "'raw' tag was never closed")
			}
			// raw content is emitted as text; the raw tag pair itself produces nothing
			tokens = tokens[:len(tokens)-1]
			tokens = append(tokens, l.textToken(l.data[offset:offset+loc[0]]))
			l.advance(l.data[offset+loc[0] : offset+loc[1]])
			offset += loc[1]
		}
	}

	l.applyTrims(tokens)

	return tokens, nil
}

func (l *lexer) nextOpening(offset int) (int, bool) {
	outputIdx := strings.Index(l.data[offset:], outputOpen)
	tagIdx := strings.Index(l.data[offset:], tagOpen)

	switch {
	case outputIdx < 0 && tagIdx < 0:
		return -1, false
	case outputIdx < 0:
		return offset + tagIdx, true
	case tagIdx < 0:
		return offset + outputIdx, false
	case tagIdx < outputIdx:
		return offset + tagIdx, true
	default:
		return offset + outputIdx, false
	}
}

func (l *lexer) textToken(content string) Token {
	tok := Token{Kind: TokenText, Content: content, Position: l.position()}
	l.advance(content)
	return tok
}

func (l *lexer) markerToken(content string, isTag bool, pos *filepos.Position) (Token, error) {
	tok := Token{Position: pos}

	if strings.HasPrefix(content, "-") {
		tok.trimLeft = true
		content = content[1:]
	}
	if strings.HasSuffix(content, "-") {
		tok.trimRight = true
		content = content[:len(content)-1]
	}
	content = strings.TrimSpace(content)

	if !isTag {
		tok.Kind = TokenOutput
		tok.Content = content
		if len(content) == 0 {
			return tok, NewSyntaxError(pos, "", "Expected expression inside '{{ }}'")
		}
		return tok, nil
	}

	tok.Kind = TokenTag
	tok.Content = content

	match := tagNameRegexp.FindStringSubmatch(content)
	if match == nil {
		return tok, NewSyntaxError(pos, "", "Expected tag name inside '{%% %%}', but was '%s'", content)
	}
	tok.Name = match[1]
	tok.Markup = content[len(match[0]):]

	return tok, nil
}

func (l *lexer) position() *filepos.Position {
	return filepos.NewPositionInFile(l.line, l.name).WithColumn(l.col)
}

func (l *lexer) advance(consumed string) {
	for _, ch := range consumed {
		if ch == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
}

func (l *lexer) applyTrims(tokens []Token) {
	for i, tok := range tokens {
		if tok.Kind == TokenText {
			continue
		}
		if tok.trimLeft && i > 0 && tokens[i-1].Kind == TokenText {
			tokens[i-1].Content = strings.TrimRightFunc(tokens[i-1].Content, unicode.IsSpace)
		}
		if tok.trimRight && i+1 < len(tokens) && tokens[i+1].Kind == TokenText {
			tokens[i+1].Content = strings.TrimLeftFunc(tokens[i+1].Content, unicode.IsSpace)
		}
	}
}
