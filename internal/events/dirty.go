package events

// DirtyFields is the set of column names a mutation changed.
type DirtyFields map[string]struct{}

// NewDirtyFields builds a set from the provided column names.
func NewDirtyFields(fields ...string) DirtyFields {
	set := make(DirtyFields, len(fields))
	for _, field := range fields {
		if field == "" {
			continue
		}
		set[field] = struct{}{}
	}
	return set
}

// Has reports whether the field was changed.
func (d DirtyFields) Has(field string) bool {
	_, ok := d[field]
	return ok
}

// Any reports whether at least one of the fields was changed.
func (d DirtyFields) Any(fields ...string) bool {
	for _, field := range fields {
		if d.Has(field) {
			return true
		}
	}
	return false
}

// Empty reports whether no fields were changed.
func (d DirtyFields) Empty() bool {
	return len(d) == 0
}

// Fields returns the contained column names in unspecified order.
func (d DirtyFields) Fields() []string {
	out := make([]string, 0, len(d))
	for field := range d {
		out = append(out, field)
	}
	return out
}
