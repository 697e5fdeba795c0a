package cypher

import "strings"

// Separator joins cypher specs in a chain config.
const Separator = "-"

// Chain is an ordered sequence of cyphers applied left to right.
type Chain struct {
	specs   []string
	cyphers []Cypher
}

// ParseChain splits a chain config on '-', trims each token, skips blank
// tokens and creates one cypher per remaining token. The first invalid
// token aborts parsing and its error is returned unchanged.
func ParseChain(config string) (Chain, error) {
	var chain Chain
	for _, token := range strings.Split(config, Separator) {
		spec := strings.TrimSpace(token)
		if spec == "" {
			continue
		}
		c, err := Create(spec)
		if err != nil {
			return Chain{}, err
		}
		chain.specs = append(chain.specs, spec)
		chain.cyphers = append(chain.cyphers, c)
	}
	return chain, nil
}

// Cyphers returns the cyphers in application order.
func (c Chain) Cyphers() []Cypher {
	return append([]Cypher(nil), c.cyphers...)
}

// Specs returns the parsed spec tokens in application order.
func (c Chain) Specs() []string {
	return append([]string(nil), c.specs...)
}

// Len returns the number of cyphers in the chain.
func (c Chain) Len() int { return len(c.cyphers) }

// String renders the chain back into config form.
func (c Chain) String() string { return strings.Join(c.specs, Separator) }

// ApplyTo runs text through every cypher in order.
func (c Chain) ApplyTo(text string) string {
	for _, cy := range c.cyphers {
		text = cy.ApplyTo(text)
	}
	return text
}
