package ignore

// Context is the immutable rule list effective inside one directory.
// The zero value holds no rules.
type Context struct {
	rules []Rule
}

// Extend returns a new context with additionalRules appended after the
// inherited ones. The receiver is left untouched.
func (ruleContext Context) Extend(additionalRules []Rule) Context {
	if len(additionalRules) == 0 {
		return ruleContext
	}
	extendedRules := make([]Rule, 0, len(ruleContext.rules)+len(additionalRules))
	extendedRules = append(extendedRules, ruleContext.rules...)
	extendedRules = append(extendedRules, additionalRules...)
	return Context{rules: extendedRules}
}

// Matcher compiles the accumulated rules.
func (ruleContext Context) Matcher() *Matcher {
	return NewMatcher(ruleContext.rules)
}
