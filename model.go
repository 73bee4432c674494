package main

// DeclKind is the item kind discriminant reported by the parser.
type DeclKind string

const (
	DeclStruct DeclKind = "struct"
	DeclEnum   DeclKind = "enum"
	DeclTrait  DeclKind = "trait"
	DeclImpl   DeclKind = "impl"
)

// Shape describes how a struct or enum variant carries its data.
type Shape string

const (
	ShapeNamed Shape = "named" // braces, possibly empty
	ShapeTuple Shape = "tuple"
	ShapeUnit  Shape = "unit"
)

// Declaration is one top-level item as produced by the parser.
type Declaration struct {
	Kind     DeclKind      `yaml:"kind" json:"kind"`
	Name     string        `yaml:"name" json:"name"`
	Public   bool          `yaml:"pub" json:"pub"`
	Module   string        `yaml:"module" json:"module,omitempty"`
	Generics []string      `yaml:"generics" json:"generics,omitempty"`
	Shape    Shape         `yaml:"shape" json:"shape,omitempty"`
	Fields   []RawField    `yaml:"fields" json:"fields,omitempty"`
	Variants []RawVariant  `yaml:"variants" json:"variants,omitempty"`
	Methods  []RawMethod   `yaml:"methods" json:"methods,omitempty"`
	Trait    []PathSegment `yaml:"trait" json:"trait,omitempty"` // impl blocks only; empty for inherent impls
}

// RawField is a struct field. Tuple fields carry an empty name.
type RawField struct {
	Name   string `yaml:"name" json:"name,omitempty"`
	Public bool   `yaml:"pub" json:"pub"`
	Type   string `yaml:"type" json:"type"`
}

// RawVariant is an enum variant.
type RawVariant struct {
	Name   string     `yaml:"name" json:"name"`
	Shape  Shape      `yaml:"shape" json:"shape,omitempty"`
	Fields []RawField `yaml:"fields" json:"fields,omitempty"`
}

// RawParam is a method parameter. Receivers use the name "self".
type RawParam struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

// RawMethod is a method inside a trait or impl block. A nil Return means the
// return type was elided.
type RawMethod struct {
	Name   string     `yaml:"name" json:"name"`
	Public bool       `yaml:"pub" json:"pub"`
	Params []RawParam `yaml:"params" json:"params,omitempty"`
	Return *string    `yaml:"return" json:"return,omitempty"`
}

// PathSegment is one segment of an implemented-trait path.
type PathSegment struct {
	Name string   `yaml:"name" json:"name"`
	Args []string `yaml:"args" json:"args,omitempty"`
}

// EntityKind tags the Entity union.
type EntityKind int

const (
	EntityNone EntityKind = iota
	EntityStruct
	EntityEnum
	EntityTrait
)

func (k EntityKind) String() string {
	switch k {
	case EntityStruct:
		return "struct"
	case EntityEnum:
		return "enum"
	case EntityTrait:
		return "trait"
	default:
		return "none"
	}
}

// Entity is the classified primary declaration of a group.
type Entity struct {
	Kind       EntityKind
	Name       string
	Public     bool
	TypeParams []string      // enum and trait only
	Fields     []Field       // struct only
	Variants   []Variant     // enum only
	Methods    []TraitMethod // trait only
}

// Field is a named struct field.
type Field struct {
	Public bool
	Name   string
	Type   string
}

// Variant is an enum variant with its tuple payload types.
type Variant struct {
	Name    string
	Payload []string
}

// TraitMethod is a required trait method with an explicit return type.
type TraitMethod struct {
	Name   string
	Inputs []string
	Return string
}

// MethodSignature is a method from an inherent or trait implementation block.
type MethodSignature struct {
	Public    bool
	Name      string
	Params    []string
	Return    string
	HasReturn bool
}

// TraitImplementation is one `impl Trait for Type` block.
type TraitImplementation struct {
	Trait   string
	Args    []string
	Methods []MethodSignature
}

// DeclarationGroup is a primary declaration with its trailing impl blocks.
type DeclarationGroup struct {
	Entity  Entity
	Module  string
	Methods [][]MethodSignature
	Implems []TraitImplementation
}

// Name returns the entity name, empty for None groups.
func (g *DeclarationGroup) Name() string {
	if g.Entity.Kind == EntityNone {
		return ""
	}
	return g.Entity.Name
}

// IsNone reports whether the primary declaration was not a struct, enum or trait.
func (g *DeclarationGroup) IsNone() bool {
	return g.Entity.Kind == EntityNone
}

// Relation is a UML 2.5 relationship kind, without generalization.
type Relation int

const (
	RelationNone Relation = iota
	RelationComposition
	RelationAggregation
	RelationDependency
	RelationAssociation
	RelationRealization
)

func (r Relation) String() string {
	switch r {
	case RelationComposition:
		return "composition"
	case RelationAggregation:
		return "aggregation"
	case RelationDependency:
		return "dependency"
	case RelationAssociation:
		return "association"
	case RelationRealization:
		return "realization"
	default:
		return "none"
	}
}

// Arrowhead is the renderer-neutral arrow shape of an edge.
type Arrowhead string

const (
	ArrowNone          Arrowhead = "none"
	ArrowVee           Arrowhead = "vee"
	ArrowOpenDiamond   Arrowhead = "open-diamond"
	ArrowFilledDiamond Arrowhead = "filled-diamond"
	ArrowOpenTriangle  Arrowhead = "open-triangle"
)

// LineStyle is the stroke style of an edge.
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
)

// Node is a rendered graph vertex.
type Node struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Module string `json:"module,omitempty"`
	Label  string `json:"label"`
}

// GraphEdge is a rendered, deduplicated relationship.
type GraphEdge struct {
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	Relation  string    `json:"relation"`
	Arrowhead Arrowhead `json:"arrowhead"`
	Style     LineStyle `json:"style"`
}

// Graph is the assembled output handed to renderers and sinks.
type Graph struct {
	Nodes []Node      `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}
