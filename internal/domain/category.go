package domain

// CategorySet is the closed, ordered set of event categories a deployment
// accepts. Order matters for presentation (the browser form renders the
// buttons in this order), membership matters for validation.
type CategorySet struct {
	names []string
	index map[string]struct{}
}

// NewCategorySet builds a category set from an ordered list of labels.
// Duplicate labels are collapsed, first occurrence wins.
func NewCategorySet(names []string) CategorySet {
	set := CategorySet{
		index: make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		if _, seen := set.index[name]; seen {
			continue
		}
		set.index[name] = struct{}{}
		set.names = append(set.names, name)
	}
	return set
}

// Contains reports whether the label is a member of the set.
func (cs CategorySet) Contains(name string) bool {
	_, ok := cs.index[name]
	return ok
}

// Names returns the labels in presentation order.
func (cs CategorySet) Names() []string {
	out := make([]string, len(cs.names))
	copy(out, cs.names)
	return out
}

// Len returns the number of categories.
func (cs CategorySet) Len() int {
	return len(cs.names)
}
