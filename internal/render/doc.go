// Package render turns ledger state into self-contained asset
// documents: a vector image plus structured metadata, both embedded
// in a single data URI so no off-ledger fetch is ever needed.
//
// Rendering is a pure function. Identical inputs produce byte-identical
// output: there is no randomness, no clock, and no external state.
// Layout is fixed by Layout parameters; user-supplied text is
// XML-escaped before it touches markup and wrapped by a fixed
// rune-width, fixed line-count policy, so hostile or oversized verses
// can neither inject markup nor overflow the canvas.
package render
