package store

// Fake records inserted documents for test assertions.
type Fake struct {
	// Docs contains every successfully inserted document.
	Docs []Document

	// InsertError, if set, will be returned by Insert.
	InsertError error

	// Failed counts inserts rejected via InsertError.
	Failed int
}

// NewFake creates a Fake store for testing.
func NewFake() *Fake {
	return &Fake{}
}

// Insert records the document.
func (f *Fake) Insert(doc Document) error {
	if f.InsertError != nil {
		f.Failed++
		return f.InsertError
	}
	f.Docs = append(f.Docs, doc)
	return nil
}

// Kinds returns the Kind of each recorded document, in order.
func (f *Fake) Kinds() []string {
	kinds := make([]string, len(f.Docs))
	for i, d := range f.Docs {
		kinds[i] = d.Kind
	}
	return kinds
}

// Reset clears recorded documents.
func (f *Fake) Reset() {
	f.Docs = nil
	f.InsertError = nil
	f.Failed = 0
}
