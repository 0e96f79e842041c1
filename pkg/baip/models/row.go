package models

// OutputRow is one assembled output line, positionally aligned to the
// configured cell order.
type OutputRow []Value

// Strings returns the serialised form of each field.
func (r OutputRow) Strings() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = v.String()
	}
	return out
}
