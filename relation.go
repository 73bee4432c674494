package main

import "strings"

const (
	// attributeDelims splits field and payload types. The space is kept so
	// that raw pointer qualifiers stay attached to their type name.
	attributeDelims = "<[(;,)]>"
	// returnDelims splits method return types.
	returnDelims = "<[(;, )]>"

	ptrMut   = "*mut "
	ptrConst = "*const "
)

// IsComposition reports whether b holds an a by value.
func IsComposition(a, b *DeclarationGroup) bool {
	name := a.Name()
	if name == "" {
		return false
	}
	for _, ty := range b.attributeTypes() {
		for _, tok := range splitTypeText(ty, attributeDelims) {
			if tok == name {
				return true
			}
		}
	}
	return false
}

// IsAggregation reports whether b holds a raw pointer to a.
func IsAggregation(a, b *DeclarationGroup) bool {
	name := a.Name()
	if name == "" {
		return false
	}
	mut, cst := ptrMut+name, ptrConst+name
	for _, ty := range b.attributeTypes() {
		for _, tok := range splitTypeText(ty, attributeDelims) {
			if tok == mut || tok == cst {
				return true
			}
		}
	}
	return false
}

// IsDependency reports whether a method parameter of b ends with the name of a.
func IsDependency(a, b *DeclarationGroup) bool {
	name := a.Name()
	if name == "" {
		return false
	}
	for _, m := range b.implMethods() {
		for _, p := range m.Params {
			if strings.HasSuffix(p, name) {
				return true
			}
		}
	}
	return false
}

// IsAssociation reports whether a method of b returns an a.
func IsAssociation(a, b *DeclarationGroup) bool {
	name := a.Name()
	if name == "" {
		return false
	}
	for _, m := range b.implMethods() {
		if !m.HasReturn {
			continue
		}
		for _, tok := range splitTypeText(m.Return, returnDelims) {
			if tok == name {
				return true
			}
		}
	}
	return false
}

// IsRealization reports whether b implements the trait a.
func IsRealization(a, b *DeclarationGroup) bool {
	name := a.Name()
	if name == "" {
		return false
	}
	for _, impl := range b.Implems {
		if impl.Trait == name {
			return true
		}
	}
	return false
}

// IsRelated reports whether any of the five predicates holds from a toward b.
func IsRelated(a, b *DeclarationGroup) bool {
	return IsAssociation(a, b) ||
		IsDependency(a, b) ||
		IsAggregation(a, b) ||
		IsComposition(a, b) ||
		IsRealization(a, b)
}

// Kind returns the dominant relation from a toward b. Predicates are tried
// in a fixed order and the first match wins.
func Kind(a, b *DeclarationGroup) Relation {
	switch {
	case IsComposition(a, b):
		return RelationComposition
	case IsAggregation(a, b):
		return RelationAggregation
	case IsDependency(a, b):
		return RelationDependency
	case IsAssociation(a, b):
		return RelationAssociation
	case IsRealization(a, b):
		return RelationRealization
	default:
		return RelationNone
	}
}

// Arrowhead maps a relation onto the UML 2.5 edge table.
func (r Relation) Arrowhead() Arrowhead {
	switch r {
	case RelationAssociation, RelationDependency:
		return ArrowVee
	case RelationAggregation:
		return ArrowOpenDiamond
	case RelationComposition:
		return ArrowFilledDiamond
	case RelationRealization:
		return ArrowOpenTriangle
	default:
		return ArrowNone
	}
}

// LineStyle maps a relation onto the UML 2.5 edge table.
func (r Relation) LineStyle() LineStyle {
	switch r {
	case RelationDependency, RelationRealization:
		return LineDashed
	default:
		return LineSolid
	}
}
