package main

import "strings"

// structEntity keeps the named fields of a struct.
func structEntity(d Declaration) Entity {
	e := Entity{Kind: EntityStruct, Name: d.Name, Public: d.Public}
	for _, f := range d.Fields {
		if f.Name == "" {
			continue
		}
		e.Fields = append(e.Fields, Field{Public: f.Public, Name: f.Name, Type: f.Type})
	}
	return e
}

// enumEntity records the type parameters and each variant with its tuple
// payload.
func enumEntity(d Declaration) Entity {
	e := Entity{
		Kind:       EntityEnum,
		Name:       d.Name,
		Public:     d.Public,
		TypeParams: append([]string(nil), d.Generics...),
	}
	for _, v := range d.Variants {
		variant := Variant{Name: v.Name}
		// Struct-style payloads are not captured.
		if variantShape(v) == ShapeTuple {
			for _, f := range v.Fields {
				variant.Payload = append(variant.Payload, f.Type)
			}
		}
		e.Variants = append(e.Variants, variant)
	}
	return e
}

// traitEntity records the type parameters and the required methods.
func traitEntity(d Declaration) Entity {
	e := Entity{
		Kind:       EntityTrait,
		Name:       d.Name,
		Public:     d.Public,
		TypeParams: append([]string(nil), d.Generics...),
	}
	for _, m := range d.Methods {
		// Required methods without a declared return type leave no trace.
		if m.Return == nil {
			continue
		}
		e.Methods = append(e.Methods, TraitMethod{
			Name:   m.Name,
			Inputs: paramTypes(m.Params),
			Return: *m.Return,
		})
	}
	return e
}

// inherentMethods builds the signatures of an inherent impl block. A missing
// return type is recorded as absent rather than dropping the method.
func inherentMethods(methods []RawMethod) []MethodSignature {
	sigs := make([]MethodSignature, 0, len(methods))
	for _, m := range methods {
		sig := MethodSignature{Public: m.Public, Name: m.Name}
		for _, p := range m.Params {
			sig.Params = append(sig.Params, paramText(p))
		}
		if m.Return != nil {
			sig.Return, sig.HasReturn = *m.Return, true
		}
		sigs = append(sigs, sig)
	}
	return sigs
}

// traitImplementation builds an `impl Trait for Type` block. The trait name
// and its generic arguments come from the first segment of the path.
func traitImplementation(d Declaration) TraitImplementation {
	first := d.Trait[0]
	impl := TraitImplementation{
		Trait: first.Name,
		Args:  append([]string(nil), first.Args...),
	}
	for _, m := range d.Methods {
		sig := MethodSignature{Name: m.Name, Params: paramTypes(m.Params)}
		if m.Return != nil {
			sig.Return, sig.HasReturn = *m.Return, true
		}
		impl.Methods = append(impl.Methods, sig)
	}
	return impl
}

// paramText renders a parameter as written in an inherent method: receivers
// in their short form, everything else as `pattern: type`.
func paramText(p RawParam) string {
	if p.Name == "self" {
		switch p.Type {
		case "", "Self":
			return "self"
		case "&Self":
			return "&self"
		case "&mut Self":
			return "&mut self"
		default:
			return "self: " + p.Type
		}
	}
	if p.Name == "" {
		return p.Type
	}
	return p.Name + ": " + p.Type
}

// paramTypes lists parameter type texts. A bare `self` counts as Self.
func paramTypes(params []RawParam) []string {
	types := make([]string, 0, len(params))
	for _, p := range params {
		if p.Name == "self" && p.Type == "" {
			types = append(types, "Self")
			continue
		}
		types = append(types, p.Type)
	}
	return types
}

// attributeTypes lists the type texts a group holds by value or pointer:
// struct field types and enum variant payloads. Traits hold nothing.
func (g *DeclarationGroup) attributeTypes() []string {
	switch g.Entity.Kind {
	case EntityStruct:
		types := make([]string, 0, len(g.Entity.Fields))
		for _, f := range g.Entity.Fields {
			types = append(types, f.Type)
		}
		return types
	case EntityEnum:
		var types []string
		for _, v := range g.Entity.Variants {
			types = append(types, v.Payload...)
		}
		return types
	default:
		return nil
	}
}

// implMethods lists inherent and trait-impl methods in declaration order.
func (g *DeclarationGroup) implMethods() []MethodSignature {
	var methods []MethodSignature
	for _, block := range g.Methods {
		methods = append(methods, block...)
	}
	for _, impl := range g.Implems {
		methods = append(methods, impl.Methods...)
	}
	return methods
}

// splitTypeText tokenizes canonical type text on any of the delimiter runes.
// Empty tokens are dropped.
func splitTypeText(text, delims string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(delims, r)
	})
}
