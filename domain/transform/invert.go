package transform

// Invert derives the best-effort inverse of a rule. The second result
// reports whether the inverse is exact: lossy or many-to-one rules come
// back as Direct with exact=false, flagging the inverted connection for
// manual review.
func Invert(r Rule) (Rule, bool) {
	switch r.Kind {
	case KindDirect, "":
		return Direct(), true

	case KindUpperCase, KindLowerCase, KindTrim:
		// Case and whitespace are not recoverable.
		return Direct(), false

	case KindReplace:
		if r.Old == "" || r.New == "" || r.Old == r.New {
			return Direct(), false
		}
		return Rule{Kind: KindReplace, Old: r.New, New: r.Old}, true

	case KindDateFormat:
		return Rule{Kind: KindDateFormat, FromFmt: r.ToFmt, ToFmt: r.FromFmt}, true

	case KindLookup:
		inverse := make(map[string]string, len(r.Table))
		exact := true
		for k, v := range r.Table {
			if _, dup := inverse[v]; dup {
				exact = false // non-injective table
			}
			inverse[v] = k
		}
		return Rule{Kind: KindLookup, Table: inverse}, exact

	case KindConcat, KindArithmetic, KindFormula, KindSubstring, KindDefault:
		// Many-to-one or lossy: cannot be inverted faithfully.
		return Direct(), false

	default:
		return Direct(), false
	}
}
