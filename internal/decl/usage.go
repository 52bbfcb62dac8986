package decl

import (
	"fmt"
	"strings"
)

// Primitive is the semantic kind of a value the model never decomposes.
type Primitive uint8

const (
	PrimInvalid Primitive = iota
	PrimString
	PrimWholeNumber
	PrimNumber
	PrimBoolean
	PrimDate
	PrimObject
	PrimArray
)

func (p Primitive) String() string {
	switch p {
	case PrimString:
		return "string"
	case PrimWholeNumber:
		return "whole-number"
	case PrimNumber:
		return "number"
	case PrimBoolean:
		return "boolean"
	case PrimDate:
		return "date"
	case PrimObject:
		return "object"
	case PrimArray:
		return "array"
	default:
		return fmt.Sprintf("Primitive(%d)", p)
	}
}

// ParsePrimitive accepts the names printed by String plus a few aliases.
func ParsePrimitive(s string) (Primitive, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "text":
		return PrimString, true
	case "whole-number", "whole_number", "integer", "int":
		return PrimWholeNumber, true
	case "number", "float", "decimal":
		return PrimNumber, true
	case "boolean", "bool":
		return PrimBoolean, true
	case "date":
		return PrimDate, true
	case "object":
		return PrimObject, true
	case "array":
		return PrimArray, true
	}
	return PrimInvalid, false
}

// UsageKind tags the variant held by a Usage.
type UsageKind uint8

const (
	UsageInvalid UsageKind = iota
	UsagePrimitive
	UsageArray
	UsageContainer
	UsageMap
	UsageTypeVar
	UsageWildcard
	UsageDeclared
	UsageAdapted
	UsageUnsupported
)

func (k UsageKind) String() string {
	switch k {
	case UsagePrimitive:
		return "primitive"
	case UsageArray:
		return "array"
	case UsageContainer:
		return "container"
	case UsageMap:
		return "map"
	case UsageTypeVar:
		return "typevar"
	case UsageWildcard:
		return "wildcard"
	case UsageDeclared:
		return "declared"
	case UsageAdapted:
		return "adapted"
	case UsageUnsupported:
		return "unsupported"
	default:
		return "invalid"
	}
}

// Usage is one occurrence of a type reference. Only the fields relevant to
// Kind are populated:
//
//	UsagePrimitive   Prim
//	UsageArray       Elem
//	UsageContainer   Elem, Stream
//	UsageMap         Key, Value
//	UsageTypeVar     Name, Bound (may be nil)
//	UsageWildcard    Extends and/or Super
//	UsageDeclared    ID, Args
//	UsageAdapted     ID (source), Target
//	UsageUnsupported Name (description)
type Usage struct {
	Kind    UsageKind
	Prim    Primitive
	Elem    *Usage
	Stream  bool
	Key     *Usage
	Value   *Usage
	Name    string
	Bound   *Usage
	Extends *Usage
	Super   *Usage
	ID      Identity
	Args    []Usage
	Target  *Usage
}

// Prim builds a primitive usage.
func Prim(p Primitive) Usage { return Usage{Kind: UsagePrimitive, Prim: p} }

// ArrayOf builds an array usage.
func ArrayOf(elem Usage) Usage { return Usage{Kind: UsageArray, Elem: &elem} }

// ContainerOf builds a collection usage.
func ContainerOf(elem Usage) Usage { return Usage{Kind: UsageContainer, Elem: &elem} }

// StreamOf builds a stream-shaped container usage.
func StreamOf(elem Usage) Usage { return Usage{Kind: UsageContainer, Elem: &elem, Stream: true} }

// MapOf builds a map-like usage.
func MapOf(key, value Usage) Usage { return Usage{Kind: UsageMap, Key: &key, Value: &value} }

// TypeVar builds a type variable usage; bound may be nil.
func TypeVar(name string, bound *Usage) Usage {
	return Usage{Kind: UsageTypeVar, Name: name, Bound: bound}
}

// Wildcard builds a wildcard usage; either bound may be nil.
func Wildcard(extends, super *Usage) Usage {
	return Usage{Kind: UsageWildcard, Extends: extends, Super: super}
}

// Declared builds a reference to a declaration.
func Declared(id Identity, args ...Usage) Usage {
	return Usage{Kind: UsageDeclared, ID: id, Args: args}
}

// Adapted wraps a usage site whose source type is substituted by target.
func Adapted(source Identity, target Usage) Usage {
	return Usage{Kind: UsageAdapted, ID: source, Target: &target}
}

// Unsupported records a usage shape the model does not handle.
func Unsupported(desc string) Usage { return Usage{Kind: UsageUnsupported, Name: desc} }

// IsZero reports whether u carries no usage at all.
func (u Usage) IsZero() bool { return u.Kind == UsageInvalid }

func (u Usage) String() string {
	switch u.Kind {
	case UsagePrimitive:
		return u.Prim.String()
	case UsageArray:
		return "[]" + u.Elem.String()
	case UsageContainer:
		if u.Stream {
			return "stream<" + u.Elem.String() + ">"
		}
		return "collection<" + u.Elem.String() + ">"
	case UsageMap:
		return "map<" + u.Key.String() + ", " + u.Value.String() + ">"
	case UsageTypeVar:
		if u.Bound != nil {
			return u.Name + " extends " + u.Bound.String()
		}
		return u.Name
	case UsageWildcard:
		switch {
		case u.Extends != nil:
			return "? extends " + u.Extends.String()
		case u.Super != nil:
			return "? super " + u.Super.String()
		}
		return "?"
	case UsageDeclared:
		if len(u.Args) == 0 {
			return string(u.ID)
		}
		args := make([]string, len(u.Args))
		for i := range u.Args {
			args[i] = u.Args[i].String()
		}
		return string(u.ID) + "[" + strings.Join(args, ", ") + "]"
	case UsageAdapted:
		return string(u.ID) + " as " + u.Target.String()
	case UsageUnsupported:
		return "unsupported(" + u.Name + ")"
	}
	return "<invalid>"
}
