package wordcheck

// Chain executes rules in sequence.
type Chain struct {
	rules []Rule
}

// NewChain creates a new rule chain.
func NewChain(rules ...Rule) *Chain {
	return &Chain{rules: rules}
}

// Add adds a rule to the chain.
func (c *Chain) Add(r Rule) {
	c.rules = append(c.rules, r)
}

// Execute runs all rules in sequence.
// Returns immediately if any rule rejects the word.
func (c *Chain) Execute(word string) Result {
	for _, r := range c.rules {
		result := r.Check(word)
		if !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Rules returns all rules in the chain.
func (c *Chain) Rules() []Rule {
	return c.rules
}
