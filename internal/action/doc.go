// Package action rewrites user code attached to grammar rules into C that
// addresses the parser stacks directly.
//
// Scan finds reference tokens ($$, $N, @$, @N, $name, $<tag>N and the
// $stack_$ / $stack_N forms of declared stacks) and classifies each as a
// Ref. Translate resolves every Ref against the owning rule and the stack
// layout and splices the accessor into the text. Everything that is not a
// reference, including whitespace, comments and string literals, is copied
// byte for byte.
//
// For a rule with L right-hand side items, position N lives at offset N-L
// from the stack top: the last item is at 0, the first at 1-L.
package action
