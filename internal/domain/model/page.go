package model

// Page selects one page of a list endpoint. Non-positive values are treated
// as unset and are not sent to the provider.
type Page struct {
	Number int
	Size   int
}

// NormalizedNumber returns the page number, or 0 when unset.
func (p Page) NormalizedNumber() int {
	return max(p.Number, 0)
}

// NormalizedSize returns the page size, or 0 when unset.
func (p Page) NormalizedSize() int {
	return max(p.Size, 0)
}
