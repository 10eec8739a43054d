package style

import (
	"sort"
	"strings"

	"github.com/kestrelweb/corebrowser/css/parser"
	"github.com/kestrelweb/corebrowser/dom"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("corebrowser.style")
}

// matchedRule pairs a selector with the rule it belongs to, retaining the
// rule's position in the stylesheet for spec §4.4's "ties resolve by source
// order" and the declarations to apply once sorted.
type matchedRule struct {
	selector Selector
	decls    []parser.Declaration
	order    int
}

// Selector is re-exported so callers never need to import css/parser
// directly just to match against a styled tree.
type Selector = parser.Selector

// compound is a maximal run of simple-selector parts (no combinator).
type compound []parser.SelectorPart

// splitCompounds breaks a selector's parts into compounds separated by
// combinators, e.g. "div.a > p" becomes [[div,.a], [p]] with one Child
// combinator between them.
func splitCompounds(parts []parser.SelectorPart) ([]compound, []parser.CombinatorKind) {
	var groups []compound
	var combs []parser.CombinatorKind
	var cur compound
	for _, p := range parts {
		if p.Kind == parser.PartCombinator {
			groups = append(groups, cur)
			combs = append(combs, p.Combinator)
			cur = nil
			continue
		}
		cur = append(cur, p)
	}
	groups = append(groups, cur)
	return groups, combs
}

func matchesCompound(c compound, el *dom.Node) bool {
	for _, p := range c {
		if !matchSimple(p, el) {
			return false
		}
	}
	return true
}

// matchSelector reports whether sel matches el against its ancestor chain,
// walking right-to-left as spec §4.4 step 3 specifies. Adjacent/general
// sibling combinators are not matched: a selector containing one never
// matches any element.
// MatchesSelector exports matchSelector for callers outside the cascade
// (js/host's document.querySelector/querySelectorAll) that need selector
// matching against a live DOM node without going through style resolution.
func MatchesSelector(sel parser.Selector, el *dom.Node) bool {
	return matchSelector(sel, el)
}

func matchSelector(sel parser.Selector, el *dom.Node) bool {
	groups, combs := splitCompounds(sel.Parts)
	if len(groups) == 0 || !matchesCompound(groups[len(groups)-1], el) {
		return false
	}
	cur := el
	for i := len(groups) - 2; i >= 0; i-- {
		comb := combs[i]
		group := groups[i]
		switch comb {
		case parser.Child:
			parent := cur.ParentElement()
			if parent == nil || !matchesCompound(group, parent) {
				return false
			}
			cur = parent
		case parser.Descendant:
			found := false
			for anc := cur.ParentElement(); anc != nil; anc = anc.ParentElement() {
				if matchesCompound(group, anc) {
					cur = anc
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func matchSimple(part parser.SelectorPart, el *dom.Node) bool {
	switch part.Kind {
	case parser.PartUniversal:
		return true
	case parser.PartType:
		return strings.EqualFold(part.Name, el.Tag)
	case parser.PartID:
		v, ok := el.Attrs.Get("id")
		return ok && v == part.Name
	case parser.PartClass:
		return el.Attrs.HasClass(part.Name)
	case parser.PartAttribute:
		v, ok := el.Attrs.Get(part.Name)
		if !ok {
			return false
		}
		switch part.AttrOp {
		case parser.AttrExists:
			return true
		case parser.AttrEquals:
			return v == part.AttrValue
		case parser.AttrIncludes:
			for _, w := range strings.Fields(v) {
				if w == part.AttrValue {
					return true
				}
			}
			return false
		case parser.AttrDashMatch:
			return v == part.AttrValue || strings.HasPrefix(v, part.AttrValue+"-")
		case parser.AttrPrefix:
			return strings.HasPrefix(v, part.AttrValue)
		case parser.AttrSuffix:
			return strings.HasSuffix(v, part.AttrValue)
		case parser.AttrSubstring:
			return strings.Contains(v, part.AttrValue)
		}
		return false
	case parser.PartPseudoClass, parser.PartPseudoElement:
		// :hover/:active/:focus/:visited never match (spec §4.4 step 3);
		// no other pseudo-classes are modelled, so none of them match.
		return false
	}
	return false
}

// Resolve computes el's style given its parent's already-resolved style and
// the full set of stylesheet rules (spec §4.4).
func Resolve(el *dom.Node, parentStyle ComputedStyle, rules []parser.Rule) ComputedStyle {
	cs := inheritFrom(parentStyle)
	tagDefault(el.Tag, &cs)

	var matched []matchedRule
	for ruleIdx, rule := range rules {
		for _, sel := range rule.Selectors {
			if matchSelector(sel, el) {
				matched = append(matched, matchedRule{selector: sel, decls: rule.Declarations, order: ruleIdx})
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].selector.Specificity.Less(matched[j].selector.Specificity)
	})

	applyPass := func(important bool) {
		for _, m := range matched {
			for _, d := range m.decls {
				if d.Important == important {
					applyDeclaration(&cs, d, parentStyle)
				}
			}
		}
	}
	applyPass(false)
	applyPass(true)

	if styleAttr, ok := el.Attrs.Get("style"); ok && styleAttr != "" {
		inline := parser.Parse("x{" + styleAttr + "}")
		if len(inline.Rules) > 0 {
			for _, d := range inline.Rules[0].Declarations {
				applyDeclaration(&cs, d, parentStyle)
			}
		}
	}

	tracer().Debugf("resolved style for <%s>: display=%v", el.Tag, cs.Display)
	return cs
}
