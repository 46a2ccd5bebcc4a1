package vql

import (
	"github.com/leapstack-labs/vql/pkg/parser"
	"github.com/leapstack-labs/vql/pkg/token"
)

// Extension grammar:
//
//	create_datasource → CREATE DATASOURCE name CONFIG "(" config_entry* ")"
//	config_entry      → name "=" STRING
//	name              → identifier | quoted identifier | keyword
//
// Keywords match case-insensitively. Entries are not separated.

// ParseCreateDataSource parses one CREATE DATASOURCE statement starting at
// the cursor's current token. It stops after the closing parenthesis.
func ParseCreateDataSource(c Cursor) (*CreateDataSource, error) {
	start := c.Token()
	if !start.Is("CREATE") {
		return nil, errorAt(ErrExpectedCreate, start)
	}
	c.NextToken()

	if tok := c.Token(); !tok.Is("DATASOURCE") {
		return nil, errorAt(ErrExpectedDataSource, tok)
	}
	c.NextToken()

	name := c.Token()
	if !isName(name) {
		return nil, errorAt(ErrExpectedTableName, name)
	}
	c.NextToken()

	if tok := c.Token(); !tok.Is("CONFIG") {
		return nil, errorAt(ErrExpectedConfig, tok)
	}
	c.NextToken()

	if tok := c.Token(); !c.Match(token.LPAREN) {
		return nil, errorAt(ErrExpectedLParen, tok)
	}

	ds := &CreateDataSource{
		NodeInfo:  parser.NodeInfo{Start: start.Pos},
		TableName: name.Literal,
	}
	// A missing ")" ends in ErrExpectedIdentifier at ";" or end of input.
	for !c.Check(token.RPAREN) {
		entry, err := ParseConfigEntry(c)
		if err != nil {
			return nil, err
		}
		ds.ConfigParameters = append(ds.ConfigParameters, entry)
	}
	c.NextToken()

	return ds, nil
}

// ParseConfigEntry parses name = 'value' at the cursor's current token.
// A missing "=" is reported by the cursor's Expect.
func ParseConfigEntry(c Cursor) (ConfigEntry, error) {
	name := c.Token()
	if !isName(name) {
		return ConfigEntry{}, errorAt(ErrExpectedIdentifier, name)
	}
	c.NextToken()

	if err := c.Expect(token.EQ); err != nil {
		return ConfigEntry{}, err
	}

	value := c.Token()
	if value.Type != token.STRING {
		return ConfigEntry{}, errorAt(ErrExpectedValue, value)
	}
	c.NextToken()

	return ConfigEntry{Name: name.Literal, Value: value.Literal, Pos: name.Pos}, nil
}

// isName reports whether tok can name a data source or config entry.
func isName(tok token.Token) bool {
	return tok.IsWord() && tok.Literal != ""
}
