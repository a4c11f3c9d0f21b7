// Package verify resolves borderline albums through the external authority.
// Borderline albums accumulate in the library until a verification run drains
// them through the batching gateway; each answer either confirms a
// compilation, refutes it, or settles the diversity guess permanently when
// the authority has no match.
package verify
