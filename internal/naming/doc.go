// Package naming assigns every grammar symbol its YYSYMBOL_* identifier in
// the generated symbol-kind enumeration.
//
// EnumName is pure and depends only on the symbol. BuildTable names a whole
// grammar and rejects collisions, since two symbols sharing an enum member
// would silently alias in the generated parser.
package naming
