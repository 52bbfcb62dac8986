package decl

// Kind is the declaration shape reported by the front-end.
type Kind uint8

const (
	KindClass Kind = iota
	KindEnum
	KindInterface
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	case KindInterface:
		return "interface"
	default:
		return "unknown"
	}
}

// AdapterBinding substitutes Source by Target for modeling purposes.
type AdapterBinding struct {
	Source Identity
	Target Usage
}

// Directives are the annotation-like facts a front-end extracted for a
// declaration. HasSubtypes/HasSeeAlso distinguish an absent directive from
// one that lists nothing.
type Directives struct {
	Subtypes     []Identity
	HasSubtypes  bool
	SeeAlso      []Identity
	HasSeeAlso   bool
	Adapter      *AdapterBinding
	Ignored      bool
	EnumAsObject bool
}

// Choice is an alternate name/namespace/type a polymorphic member may take.
type Choice struct {
	Name      string
	Namespace string
	Type      Usage
	Adapter   *AdapterBinding
}

// Member is a field/property accessor as the front-end sees it.
type Member struct {
	Name    string
	Type    Usage
	Hint    *Usage
	Adapter *AdapterBinding
	Value   bool
	Ignored bool
	Choices []Choice
	SeeAlso []Identity
}

// Declaration is the front-end's view of one type declaration.
type Declaration struct {
	ID         Identity
	Kind       Kind
	Members    []Member
	Super      *Usage
	Implements []Identity
	Constants  []string
	Pos        string
	Directives Directives
}

// Member returns the member with the given name.
func (d *Declaration) Member(name string) (*Member, bool) {
	for i := range d.Members {
		if d.Members[i].Name == name {
			return &d.Members[i], true
		}
	}
	return nil, false
}
