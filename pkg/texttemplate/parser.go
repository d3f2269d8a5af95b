// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"strings"

	"carvel.dev/vtt/pkg/filepos"
)

// TokenStream is the parse state handed to directive factories.
type TokenStream struct {
	name     string
	tokens   []Token
	idx      int
	registry *Registry

	current *Token
}

// NewTokenStream lexes data (named name for error positions).
func NewTokenStream(name string, data []byte, registry *Registry) (*TokenStream, error) {
	tokens, err := lex(name, string(data))
	if err != nil {
		return nil, err
	}
	return &TokenStream{name: name, tokens: tokens, registry: registry}, nil
}

// Name of the template being parsed.
func (s *TokenStream) Name() string { return s.name }

// Registry used to resolve nested tags.
func (s *TokenStream) Registry() *Registry { return s.registry }

// Position of the tag currently being built, or of the end of the template.
func (s *TokenStream) Position() *filepos.Position {
	if s.current != nil {
		return s.current.Position
	}
	return filepos.NewUnknownPositionInFile(s.name)
}

// ParseAll parses every remaining token; stray end tags are errors.
func (s *TokenStream) ParseAll() (NodeList, error) {
	nodes, _, err := s.ParseUntil()
	return nodes, err
}

// ParseUntil parses nodes until one of stopTags is reached. The stop tag is
// consumed and returned; it is nil when the template ended first.
func (s *TokenStream) ParseUntil(stopTags ...string) (NodeList, *Token, error) {
	nodes := NodeList{}

	for s.idx < len(s.tokens) {
		tok := s.tokens[s.idx]
		s.idx++

		switch tok.Kind {
		case TokenText:
			if len(tok.Content) > 0 {
				nodes = append(nodes, &NodeText{Position: tok.Position, Content: tok.Content})
			}

		case TokenOutput:
			nodes = append(nodes, &NodeOutput{Position: tok.Position, Expr: tok.Content})

		case TokenTag:
			for _, stopTag := range stopTags {
				if tok.Name == stopTag {
					return nodes, &tok, nil
				}
			}

			node, err := s.parseTag(tok)
			if err != nil {
				return nil, nil, err
			}
			nodes = append(nodes, node)
		}
	}

	return nodes, nil, nil
}

// ParseBlock is the generic block body routine: it parses nodes up to the
// matching "end<tagName>" tag.
func (s *TokenStream) ParseBlock(tagName string) (NodeList, error) {
	openPos := s.Position()

	nodes, end, err := s.ParseUntil("end" + tagName)
	if err != nil {
		return nil, err
	}
	if end == nil {
		return nil, NewSyntaxError(openPos, tagName, "Missing closing 'end%s' tag", tagName)
	}
	return nodes, nil
}

// SkipBlock discards tokens up to the matching "end<tagName>" tag, honoring
// nested blocks of the same name. Nested content is not parsed.
func (s *TokenStream) SkipBlock(tagName string) error {
	openPos := s.Position()
	depth := 0

	for s.idx < len(s.tokens) {
		tok := s.tokens[s.idx]
		s.idx++

		if tok.Kind != TokenTag {
			continue
		}
		switch tok.Name {
		case tagName:
			depth++
		case "end" + tagName:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}

	return NewSyntaxError(openPos, tagName, "Missing closing 'end%s' tag", tagName)
}

func (s *TokenStream) parseTag(tok Token) (Node, error) {
	factory, found := s.registry.Lookup(tok.Name)
	if !found {
		if strings.HasPrefix(tok.Name, "end") || tok.Name == "else" || tok.Name == "elsif" {
			return nil, NewSyntaxError(tok.Position, tok.Name, "Unexpected '%s' tag without matching opening tag", tok.Name)
		}
		return nil, NewSyntaxError(tok.Position, tok.Name, "Unknown tag (known tags: %s)", strings.Join(s.registry.Names(), ", "))
	}

	prev := s.current
	s.current = &tok
	defer func() { s.current = prev }()

	directive, err := factory(tok.Name, tok.Markup, s)
	if err != nil {
		return nil, err
	}

	return &NodeTag{Name: tok.Name, Position: tok.Position, Directive: directive}, nil
}
