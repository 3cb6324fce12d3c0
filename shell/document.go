package shell

// Document is a raw JSON record as kept by a document store.
// Version increases with every successful save and drives optimistic concurrency.
type Document struct {
	ID      string
	Body    []byte
	Version uint64
}
