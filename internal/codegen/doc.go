// Package codegen drives one generation run over a finalized grammar: it
// builds the symbol enum, resolves the stack layout and translates every
// rule action, printer and initial action, reporting all problems as
// diagnostics.
package codegen
