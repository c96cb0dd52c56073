package schema

import "github.com/ssargent/wowformats/pkg/version"

// Validate checks the version-independent consistency of a field.
func (f Field) Validate() error {
	owner := f.Owner
	if f.Name == "" {
		return Errorf(owner, "?", "field has no name")
	}
	if f.RemovedIn != version.Unknown && f.RemovedIn < f.IntroducedIn {
		return Errorf(owner, f.Name, "removed in %s before being introduced in %s", f.RemovedIn, f.IntroducedIn)
	}

	switch {
	case f.Kind == KindComposite:
		if !registered(f.Composite) {
			return Errorf(owner, f.Name, "composite type is not registered")
		}
	case f.Composite != nil:
		return Errorf(owner, f.Name, "composite type attached to %s field", f.Kind)
	case !f.Kind.IsPrimitive() && f.Kind != KindLocString:
		return Errorf(owner, f.Name, "cannot resolve %s to a primitive type", f.Kind)
	}

	if f.ForeignKey != nil {
		if f.Enum != nil {
			return Errorf(owner, f.Name, "field cannot be both a foreign key and an enum")
		}
		if !f.Kind.IsInteger() {
			return Errorf(owner, f.Name, "foreign key must wrap an integer type, not %s", f.Kind)
		}
		if f.ForeignKey.Table == "" || f.ForeignKey.Field == "" {
			return Errorf(owner, f.Name, "foreign key needs a table and a field")
		}
	}
	if f.Enum != nil && !f.Kind.IsInteger() {
		return Errorf(owner, f.Name, "enum %s must have an integer underlying type, not %s", f.Enum.Name, f.Kind)
	}

	switch f.Shape {
	case ShapeScalar:
		if len(f.ArraySizes) > 0 {
			return Errorf(owner, f.Name, "array size declared on a field that is not a collection")
		}
	case ShapeArray, ShapeList:
		if len(f.ArraySizes) == 0 {
			return Errorf(owner, f.Name, "collection field has no array size")
		}
		if f.Kind == KindLocString {
			return Errorf(owner, f.Name, "localized strings cannot be collections")
		}
		for _, size := range f.ArraySizes {
			if size.Count <= 0 {
				return Errorf(owner, f.Name, "array size %d is not positive", size.Count)
			}
		}
	default:
		return Errorf(owner, f.Name, "unknown shape %d", int(f.Shape))
	}

	for _, mv := range f.Moves {
		if mv.After == "" {
			return Errorf(owner, f.Name, "move in %s names no predecessor", mv.In)
		}
	}
	return nil
}
