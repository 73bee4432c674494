package main

import (
	"html"
	"strings"
)

var recordEscaper = strings.NewReplacer(`{`, `&#123;`, `}`, `&#125;`, `|`, `&#124;`)

// escapeRecord makes text safe inside a record label. Record field
// separators become numeric entities as well, since the DOT encoder only
// emits plain quoted strings.
func escapeRecord(s string) string {
	return recordEscaper.Replace(html.EscapeString(s))
}

// Label renders the record label of a group: the entity section, then the
// inherent methods, then trait-impl methods when showImpl is set. Lines are
// separated by newlines; text is already escaped.
func Label(g *DeclarationGroup, showImpl bool) string {
	sections := []string{entityLabel(&g.Entity)}
	if lines := methodLines(g.Methods); len(lines) > 0 {
		sections = append(sections, strings.Join(lines, "\n"))
	}
	if showImpl {
		if lines := implemLines(g.Implems); len(lines) > 0 {
			sections = append(sections, strings.Join(lines, "\n"))
		}
	}
	return "{" + strings.Join(sections, "|") + "}"
}

func entityLabel(e *Entity) string {
	var b strings.Builder
	switch e.Kind {
	case EntityStruct:
		b.WriteString("«Structure»\n" + escapeRecord(e.Name))
		lines := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			lines = append(lines, visibility(f.Public)+" "+escapeRecord(f.Name+": "+f.Type))
		}
		if len(lines) > 0 {
			b.WriteString("|" + strings.Join(lines, "\n"))
		}
	case EntityEnum:
		b.WriteString("«Enumeration»\n" + escapeRecord(e.Name))
		lines := make([]string, 0, len(e.Variants))
		for _, v := range e.Variants {
			if len(v.Payload) == 0 {
				lines = append(lines, escapeRecord(v.Name))
				continue
			}
			lines = append(lines, escapeRecord(v.Name+"("+strings.Join(v.Payload, ", ")+")"))
		}
		if len(lines) > 0 {
			b.WriteString("|" + strings.Join(lines, "\n"))
		}
	case EntityTrait:
		b.WriteString("«Trait»\n" + escapeRecord(e.Name) + "|")
		lines := make([]string, 0, len(e.Methods))
		for _, m := range e.Methods {
			lines = append(lines, escapeRecord(m.Name+"("+strings.Join(m.Inputs, ", ")+") -> "+m.Return))
		}
		b.WriteString(strings.Join(lines, "\n"))
	}
	return b.String()
}

func methodLines(blocks [][]MethodSignature) []string {
	var lines []string
	for _, block := range blocks {
		for _, m := range block {
			lines = append(lines, visibility(m.Public)+" "+escapeRecord(signatureText(m)))
		}
	}
	return lines
}

func implemLines(impls []TraitImplementation) []string {
	var lines []string
	for _, impl := range impls {
		for _, m := range impl.Methods {
			lines = append(lines, escapeRecord(signatureText(m)))
		}
	}
	return lines
}

func signatureText(m MethodSignature) string {
	text := m.Name + "(" + strings.Join(m.Params, ", ") + ")"
	if m.HasReturn {
		text += " -> " + m.Return
	}
	return text
}

func visibility(public bool) string {
	if public {
		return "+"
	}
	return "-"
}
