// Package token defines lexical token kinds for the osta compiler.
// Invariants:
//   - Token.Text is the exact source text covered by Token.Span.
//   - Token.Span is half-open (Start..End) and never empty for a produced token.
//   - Width is meaningful only for IntType, UintType and FloatType;
//     Op only for Operator.
//   - Sigil identifiers (@name, #name, $name) are classified here and never
//     expanded by the lexer.
//   - Keywords are case-sensitive: only the lowercase spelling is reserved.
package token
