package grammar

// StackDecl declares an extra stack kept in sync with the value and
// location stacks. Fields is the slot record layout as written in the
// grammar, e.g. "{ long l2; }"; Tag is the member used by accessors.
type StackDecl struct {
	Name   string
	Fields string
	Tag    string
}
