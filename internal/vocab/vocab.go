// Package vocab supplies domain vocabulary terms to the context prompt
// builder. Dictionaries group terms by topic and can be toggled without
// touching the terms themselves.
package vocab

// Provider yields the terms from all enabled dictionaries, in dictionary
// order then term order. The prompt builder applies its own cap; providers
// return everything enabled.
type Provider interface {
	EnabledTerms() []string
}

// Dictionary is a named, toggleable group of vocabulary terms.
type Dictionary struct {
	Name    string
	Enabled bool
	Terms   []string
}

// Static is a fixed in-memory Provider over a dictionary list.
type Static struct {
	dictionaries []Dictionary
}

// NewStatic returns a Provider over the given dictionaries.
func NewStatic(dictionaries []Dictionary) *Static {
	return &Static{dictionaries: dictionaries}
}

// EnabledTerms returns the terms of every enabled dictionary, oldest
// dictionary first.
func (s *Static) EnabledTerms() []string {
	var terms []string
	for _, d := range s.dictionaries {
		if !d.Enabled {
			continue
		}
		terms = append(terms, d.Terms...)
	}
	return terms
}

// None is a Provider with no terms.
type None struct{}

// EnabledTerms always returns nil.
func (None) EnabledTerms() []string { return nil }
