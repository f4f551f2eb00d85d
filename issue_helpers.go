package goshape

// IssueAt creates an Issue at the given path with provided code, message and params map.
// This is a convenience helper to improve readability at call sites with many parameters.
func IssueAt(p PathRef, code, msg string, params map[string]any) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: params}
}

// JoinPointer appends the relative pointer p under base. Both are JSON
// Pointers; "/" and "" denote the root.
func JoinPointer(base, p string) string {
	if base == "" || base == "/" {
		if p == "" {
			return "/"
		}
		return p
	}
	if p == "" || p == "/" {
		return base
	}
	if p[0] == '/' {
		return base + p
	}
	return base + "/" + p
}

// PrefixIssues rebases every issue of err under base, including the issues
// kept for union variants. Errors that are not Issues become a single
// parse_error issue at base.
func PrefixIssues(base string, err error) Issues {
	if err == nil {
		return nil
	}
	iss, ok := AsIssues(err)
	if !ok {
		return Issues{Issue{Path: JoinPointer(base, ""), Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		it.Path = JoinPointer(base, it.Path)
		if len(it.Variants) > 0 {
			vs := make([]Issues, len(it.Variants))
			for i, v := range it.Variants {
				vs[i] = PrefixIssues(base, v)
			}
			it.Variants = vs
		}
		out = append(out, it)
	}
	return out
}
