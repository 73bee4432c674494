package main

// NextGroup reads the group starting at cursor. The declaration at cursor is
// the primary; every impl block directly following it is consumed into the
// group. It returns the group, the cursor of the next primary, and false once
// the stream is exhausted.
func NextGroup(decls []Declaration, cursor int) (DeclarationGroup, int, bool) {
	if cursor < 0 || cursor >= len(decls) {
		return DeclarationGroup{}, cursor, false
	}
	end := cursor + 1
	for end < len(decls) && decls[end].Kind == DeclImpl {
		end++
	}
	return buildGroup(decls[cursor], decls[cursor+1:end]), end, true
}

// ExtractGroups splits a declaration stream into groups. Groups whose primary
// is not a struct, enum or trait are kept with a None entity so callers can
// account for them; they never reach the graph.
func ExtractGroups(decls []Declaration) []DeclarationGroup {
	var groups []DeclarationGroup
	cursor := 0
	for {
		group, next, ok := NextGroup(decls, cursor)
		if !ok {
			return groups
		}
		groups = append(groups, group)
		cursor = next
	}
}

// Classify turns a primary declaration into an Entity. Only structs with
// named fields, enums and traits are recognised.
func Classify(d Declaration) Entity {
	switch d.Kind {
	case DeclStruct:
		if structShape(d) != ShapeNamed {
			return Entity{}
		}
		return structEntity(d)
	case DeclEnum:
		return enumEntity(d)
	case DeclTrait:
		return traitEntity(d)
	default:
		return Entity{}
	}
}

// buildGroup classifies primary and splits impls into inherent method blocks
// and trait implementations.
func buildGroup(primary Declaration, impls []Declaration) DeclarationGroup {
	group := DeclarationGroup{
		Entity: Classify(primary),
		Module: primary.Module,
	}
	// Impl blocks trailing an unrecognised item are dropped for good.
	if group.IsNone() {
		return group
	}
	for _, impl := range impls {
		if len(impl.Trait) == 0 {
			group.Methods = append(group.Methods, inherentMethods(impl.Methods))
			continue
		}
		group.Implems = append(group.Implems, traitImplementation(impl))
	}
	return group
}

// structShape resolves the shape of a struct, inferring it from the fields
// when the parser left it blank.
func structShape(d Declaration) Shape {
	if d.Shape != "" {
		return d.Shape
	}
	for _, f := range d.Fields {
		if f.Name == "" {
			return ShapeTuple
		}
	}
	return ShapeNamed
}

// variantShape resolves the shape of an enum variant the same way.
func variantShape(v RawVariant) Shape {
	if v.Shape != "" {
		return v.Shape
	}
	if len(v.Fields) == 0 {
		return ShapeUnit
	}
	if v.Fields[0].Name == "" {
		return ShapeTuple
	}
	return ShapeNamed
}
