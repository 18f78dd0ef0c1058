package index

// PostingEntry represents a document that contains a term, the field it appeared in,
// and the term's frequency within that field for that document.
type PostingEntry struct {
	DocID     uint32  // Internal numeric ID for efficiency
	FieldName string  // The name of the field where the term was found (e.g., "title", "tags")
	TermFreq  float64 // Number of occurrences of the term within this field for this document
	Positions []int   // Token positions within the analyzed field text
}

// PostingList is a slice of PostingEntry.
// Entries for the same term are appended in document insertion order; the search
// service aggregates per-document frequencies before ranking, so no sort order
// is maintained here.
type PostingList []PostingEntry
