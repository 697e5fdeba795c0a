package cypher

import (
	"sort"

	"github.com/kbukum/cypherstream/errors"
)

const (
	caesarName = "CaesarCypher"
	rot8Name   = "Rot8Cypher"
	atbashName = "AtbashCypher"
)

// constructor validates a direction token and builds a cypher.
type constructor func(token string) (Cypher, error)

// Family describes a registered cypher family.
type Family struct {
	Letter byte
	Name   string
	Tokens []string
}

type family struct {
	Family
	build constructor
}

var families = map[byte]family{
	'C': {Family{'C', caesarName, []string{"0", "1"}}, shifting(caesarName, 1)},
	'R': {Family{'R', rot8Name, []string{"0", "1"}}, shifting(rot8Name, 8)},
	'A': {Family{'A', atbashName, nil}, atbash},
}

// shifting returns a constructor for a rotating family: token "1" encodes
// with +step, token "0" decodes with -step.
func shifting(name string, step int) constructor {
	return func(token string) (Cypher, error) {
		switch token {
		case "1":
			return shiftCypher{name: name, shift: step}, nil
		case "0":
			return shiftCypher{name: name, shift: -step}, nil
		}
		return nil, errors.IncorrectShiftSpec(name, token)
	}
}

func atbash(token string) (Cypher, error) {
	if token != "" {
		return nil, errors.IncorrectShiftSpec(atbashName, token)
	}
	return atbashCypher{}, nil
}

// Create parses a single cypher spec such as "C1", "R0" or "A".
// An empty spec or unknown family letter yields an UNKNOWN_CYPHER error;
// a bad direction token yields INCORRECT_SHIFT_SPEC.
func Create(spec string) (Cypher, error) {
	if spec == "" {
		return nil, errors.UnknownCypher(spec)
	}
	f, ok := families[spec[0]]
	if !ok {
		return nil, errors.UnknownCypher(spec)
	}
	return f.build(spec[1:])
}

// Families returns the registered families ordered by letter.
func Families() []Family {
	out := make([]Family, 0, len(families))
	for _, f := range families {
		out = append(out, f.Family)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Letter < out[j].Letter
	})
	return out
}
