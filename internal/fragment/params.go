package fragment

import "strings"

// Params is the parameter part of a fragment, the text after the first
// parameter separator.
//
// The zero value means "no parameters". ParamsOf("") means parameters exist
// and consist of a single empty value. The distinction matters when values
// are appended one by one.
type Params struct {
	raw string
	set bool
}

// ParamsOf wraps a raw parameter part.
func ParamsOf(raw string) Params {
	return Params{raw: raw, set: true}
}

// IsSet reports whether a parameter part is present, even an empty one.
func (p Params) IsSet() bool {
	return p.set
}

// IsEmpty reports whether there is nothing to render.
func (p Params) IsEmpty() bool {
	return !p.set || p.raw == ""
}

// String returns the raw parameter part, "" when absent.
func (p Params) String() string {
	return p.raw
}

// Tokens splits the parameter part into its tokens. It returns nil when
// no parameter part is present.
func (c *Codec) Tokens(p Params) []string {
	if !p.set {
		return nil
	}
	return strings.Split(p.raw, c.paramSeparator)
}

// Count returns the number of tokens.
func (c *Codec) Count(p Params) int {
	return len(c.Tokens(p))
}

// Positional returns the token at the 0-based position.
// Named tokens are returned as they are; positions count every token.
func (c *Codec) Positional(p Params, pos int) (string, bool) {
	if pos < 0 {
		return "", false
	}
	tokens := c.Tokens(p)
	if pos >= len(tokens) {
		return "", false
	}
	return tokens[pos], true
}

// Named returns the value of the first token whose key equals name.
// A token is split on the first value separator, so "k=a=b" has the value "a=b".
func (c *Codec) Named(p Params, name string) (string, bool) {
	for _, token := range c.Tokens(p) {
		key, value, ok := c.SplitToken(token)
		if ok && key == name {
			return value, true
		}
	}
	return "", false
}

// SplitToken splits a named token into key and value. ok is false for
// positional tokens.
func (c *Codec) SplitToken(token string) (key, value string, ok bool) {
	return strings.Cut(token, c.valueSeparator)
}

// NamedToken renders a named token.
func (c *Codec) NamedToken(name, value string) string {
	return name + c.valueSeparator + value
}

// AppendPositional appends a positional value.
func (c *Codec) AppendPositional(p Params, value string) Params {
	if !p.set {
		return ParamsOf(value)
	}
	return ParamsOf(p.raw + c.paramSeparator + value)
}

// AppendNamed appends a named value.
func (c *Codec) AppendNamed(p Params, name, value string) Params {
	return c.AppendPositional(p, c.NamedToken(name, value))
}

// Join builds a parameter part from tokens. An empty token list gives no parameters.
func (c *Codec) Join(tokens []string) Params {
	if len(tokens) == 0 {
		return Params{}
	}
	return ParamsOf(strings.Join(tokens, c.paramSeparator))
}
