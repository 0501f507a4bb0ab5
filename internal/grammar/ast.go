package grammar

import (
	"go/token"
)

// File all invocations of a .props file in order of appearance
type File struct {
	Imports []*Import
	Enums   []*Enum
}

// Import package import needed by initializers, Name is empty unless the import is renamed
type Import struct {
	Pos  token.Position
	Name string
	Path string
}

// Form how default records are given in an enum
type Form int

const (
	// FormInline each variant may end its initializers with its own ..default
	FormInline Form = iota
	// FormTrailing a single ..default follows the last variant and applies to all of them
	FormTrailing
)

func (f Form) String() string {
	switch f {
	case FormInline:
		return "inline"
	case FormTrailing:
		return "trailing"
	default:
		return "unknown"
	}
}

// Enum an invocation
type Enum struct {
	Pos      token.Position
	Doc      []string
	Name     string
	Record   string
	Lazy     bool
	Form     Form
	Variants []*Variant

	// Default trailing default record, FormTrailing only
	Default *Expr
}

// DefaultOf returns default record expression in effect for the given variant, nil if there's none
func (e *Enum) DefaultOf(v *Variant) *Expr {
	if v.Default != nil {
		return v.Default
	}
	return e.Default
}

// HasPayload checks if any variant carries its own data
func (e *Enum) HasPayload() bool {
	for _, v := range e.Variants {
		if v.Payload.Kind != PayloadNone {
			return true
		}
	}
	return false
}

// Variant a variant descriptor
type Variant struct {
	Pos   token.Position
	Doc   []string
	Name  string
	Inits []*Init

	// Default inline default record, FormInline only
	Default *Expr

	Payload      Payload
	Discriminant *Expr
}

// Init returns initializer of the given record field
func (v *Variant) Init(field string) *Init {
	for _, i := range v.Inits {
		if i.Field == field {
			return i
		}
	}
	return nil
}

// Init a record field initializer
type Init struct {
	Pos   token.Position
	Field string
	Value *Expr
}

// Expr Go expression as it was written
type Expr struct {
	Pos  token.Position
	Text string
}

func (e *Expr) String() string {
	return e.Text
}

// PayloadKind shape of variant's own data
type PayloadKind int

const (
	// PayloadNone unit variant
	PayloadNone PayloadKind = iota
	// PayloadTuple positional slots: Variant {...} (T1, T2)
	PayloadTuple
	// PayloadStruct named fields: Variant {...} { Name T }
	PayloadStruct
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadNone:
		return "none"
	case PayloadTuple:
		return "tuple"
	case PayloadStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Payload variant's own data
type Payload struct {
	Kind   PayloadKind
	Fields []*PayloadField
}

// PayloadField named field or positional slot of a payload. Name is empty for slots
type PayloadField struct {
	Pos  token.Position
	Doc  []string
	Name string
	Type string
	Tag  string
}
