package models

// Results is an insertion-ordered collection of sheet records keyed by
// extraction key. Putting an existing key replaces its record in place, so
// the last write wins while the first position is kept.
type Results struct {
	keys    []string
	records map[string]SheetRecord
}

// NewResults returns an empty collection.
func NewResults() *Results {
	return &Results{records: make(map[string]SheetRecord)}
}

// Put stores rec under key.
func (r *Results) Put(key string, rec SheetRecord) {
	if r.records == nil {
		r.records = make(map[string]SheetRecord)
	}
	if _, ok := r.records[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.records[key] = rec
}

// Get returns the record stored under key.
func (r *Results) Get(key string) (SheetRecord, bool) {
	rec, ok := r.records[key]
	return rec, ok
}

// Merge puts every record of other into r, in other's order.
func (r *Results) Merge(other *Results) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		r.Put(key, other.records[key])
	}
}

// Keys returns the keys in insertion order.
func (r *Results) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of records.
func (r *Results) Len() int {
	return len(r.keys)
}
