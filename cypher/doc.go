// Package cypher implements the classical character-substitution cyphers
// applied by a cypherstream pipeline.
//
// A cypher spec is a short token: the first character selects the family
// and the rest is the direction token.
//
//	C0, C1  Caesar, decode/encode (shift ∓1)
//	R0, R1  Rot8, decode/encode (shift ∓8)
//	A       Atbash (self-inverse, takes no token)
//
// Specs are joined with '-' into a chain, applied left to right:
//
//	chain, err := cypher.ParseChain("C1-R1-A")
//	out := chain.ApplyTo("Hello, World!")
//
// Only the ASCII English alphabet is translated; every other character,
// including multi-byte runes, passes through unchanged.
package cypher
