package dom

import "strings"

// Attributes is an ordered mapping from lowercased attribute name to string
// value. Source order is preserved for iteration; a duplicate Set keeps the
// first-assigned position but overwrites the value, matching "last-write-
// wins on duplicates" (spec §3) since the tokenizer resolves duplicate
// attribute names before Attributes ever sees them — see htmlparse/token.
type Attributes struct {
	order []string
	vals  map[string]string
}

// NewAttributes returns an empty, ready-to-use attribute map.
func NewAttributes() *Attributes {
	return &Attributes{vals: make(map[string]string)}
}

// Set assigns a value to a (lowercased) attribute name.
func (a *Attributes) Set(name, value string) {
	name = strings.ToLower(name)
	if _, exists := a.vals[name]; !exists {
		a.order = append(a.order, name)
	}
	a.vals[name] = value
}

// Get returns an attribute's value and whether it was present.
func (a *Attributes) Get(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.vals[strings.ToLower(name)]
	return v, ok
}

// GetOr returns an attribute's value, or def if absent.
func (a *Attributes) GetOr(name, def string) string {
	if v, ok := a.Get(name); ok {
		return v
	}
	return def
}

// Remove deletes an attribute, if present.
func (a *Attributes) Remove(name string) {
	name = strings.ToLower(name)
	if _, ok := a.vals[name]; !ok {
		return
	}
	delete(a.vals, name)
	for i, k := range a.order {
		if k == name {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.order)
}

// Keys returns attribute names in source order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	return a.order
}

// Each invokes f for every attribute in source order.
func (a *Attributes) Each(f func(name, value string)) {
	if a == nil {
		return
	}
	for _, k := range a.order {
		f(k, a.vals[k])
	}
}

// ClassList splits the "class" attribute on whitespace.
func (a *Attributes) ClassList() []string {
	class, _ := a.Get("class")
	return strings.Fields(class)
}

// HasClass reports whether the element's class list contains name.
func (a *Attributes) HasClass(name string) bool {
	for _, c := range a.ClassList() {
		if c == name {
			return true
		}
	}
	return false
}
