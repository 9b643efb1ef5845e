package driven

// Normaliser converts a page's storage-format body into readable markdown.
type Normaliser interface {
	// Normalise returns the markdown rendering of storage-format markup.
	Normalise(storage string) (string, error)
}
