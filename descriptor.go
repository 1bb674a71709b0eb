package hostcell

// Descriptor is what the declarative binding front end hands this library
// about an instance type: a name for diagnostics plus the named fields and
// default-value expressions the codegen collected from source annotations.
type Descriptor struct {
	// TypeName is the source-level name of the extension type.
	TypeName string

	// Fields lists the declared fields in declaration order.
	Fields []Field
}

// Field describes one declared field of an extension type.
type Field struct {
	// Name is the field's source-level name.
	Name string

	// Default is the default-value expression, verbatim, or "" if none.
	Default string

	// Exported reports whether the field is visible to the host.
	Exported bool
}

// FieldNamed returns the field with the given name.
func (d Descriptor) FieldNamed(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
