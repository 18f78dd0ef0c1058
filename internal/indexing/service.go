package indexing

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gcbaptista/go-query-engine/index"
	"github.com/gcbaptista/go-query-engine/internal/analyzer"
	"github.com/gcbaptista/go-query-engine/internal/errors"
	"github.com/gcbaptista/go-query-engine/model"
	"github.com/gcbaptista/go-query-engine/store"
)

// Service implements the indexing logic for a single index.
// It fulfills the services.Indexer interface. Field text is run through the
// same analysis pipeline the query compiler uses, so stemmed query terms match
// stemmed index terms.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	analyzer      *analyzer.Analyzer
}

// NewService creates a new indexing Service.
// It assumes that invertedIndex and documentStore are properly initialized,
// and that invertedIndex.Settings is not nil.
func NewService(invertedIndex *index.InvertedIndex, documentStore *store.DocumentStore) (*Service, error) {
	if invertedIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if documentStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if invertedIndex.Index == nil {
		invertedIndex.Index = make(map[string]index.PostingList)
	}
	if documentStore.Docs == nil {
		documentStore.Docs = make(map[uint32]model.Document)
	}
	if documentStore.ExternalIDtoInternalID == nil {
		documentStore.ExternalIDtoInternalID = make(map[string]uint32)
	}
	if invertedIndex.Settings == nil {
		return nil, fmt.Errorf("inverted index settings cannot be nil")
	}

	an := &analyzer.Analyzer{
		KeepStopWords: invertedIndex.Settings.DisableStopWords,
		NoStemming:    invertedIndex.Settings.DisableStemming,
	}

	return &Service{
		invertedIndex: invertedIndex,
		documentStore: documentStore,
		analyzer:      an,
	}, nil
}

// AddDocuments adds a batch of documents to the index.
// Documents are processed in micro-batches to minimize lock contention and
// allow search operations to interleave during large ingestions.
func (s *Service) AddDocuments(docs []model.Document) error {
	const microBatchSize = 10

	for i := 0; i < len(docs); i += microBatchSize {
		end := i + microBatchSize
		if end > len(docs) {
			end = len(docs)
		}

		if err := s.addDocumentMicroBatch(docs[i:end]); err != nil {
			return fmt.Errorf("failed to add document micro-batch starting at index %d: %w", i, err)
		}

		// Yield between micro-batches so pending readers can acquire locks.
		if i+microBatchSize < len(docs) {
			time.Sleep(1 * time.Millisecond)
		}
	}
	return nil
}

func (s *Service) addDocumentMicroBatch(docs []model.Document) error {
	// Lock order: index before store, same as the search path.
	s.invertedIndex.Mu.Lock()
	s.documentStore.Mu.Lock()
	defer s.invertedIndex.Mu.Unlock()
	defer s.documentStore.Mu.Unlock()

	for _, doc := range docs {
		if err := s.addSingleDocumentUnsafe(doc); err != nil {
			return err
		}
	}
	return nil
}

// addSingleDocumentUnsafe handles the processing and indexing of a single document.
// It assumes that the caller already holds locks on documentStore and invertedIndex.
func (s *Service) addSingleDocumentUnsafe(doc model.Document) error {
	docIDValue, docIDExists := doc["documentID"]
	if !docIDExists {
		return fmt.Errorf("document documentID not found in document map; documentID must be provided with key 'documentID'")
	}
	docIDStr, isStr := docIDValue.(string)
	if !isStr {
		return fmt.Errorf("document documentID has an invalid type, expected string")
	}
	docIDStr = strings.TrimSpace(docIDStr)
	if docIDStr == "" {
		return fmt.Errorf("document documentID cannot be empty or whitespace-only")
	}

	internalID, exists := s.documentStore.ExternalIDtoInternalID[docIDStr]
	if exists {
		// Update: remove the old document's postings before re-indexing.
		if oldDoc, ok := s.documentStore.Docs[internalID]; ok {
			s.removeDocumentTokensUnsafe(internalID, oldDoc)
		} else {
			log.Printf("Warning: Document with internalID %d found in ExternalIDtoInternalID but not in Docs. Cannot clean up old tokens for documentID %s.", internalID, docIDStr)
		}
	} else {
		internalID = s.documentStore.NextID
		s.documentStore.ExternalIDtoInternalID[docIDStr] = internalID
		s.documentStore.NextID++
	}

	s.documentStore.Docs[internalID] = doc

	for _, fieldName := range s.invertedIndex.Settings.SearchableFields {
		fieldValue, ok := doc[fieldName]
		if !ok {
			continue
		}
		for _, text := range fieldStrings(fieldValue) {
			s.indexFieldTextUnsafe(internalID, fieldName, text)
		}
	}

	return nil
}

// indexFieldTextUnsafe analyzes one field text and appends posting entries.
func (s *Service) indexFieldTextUnsafe(docID uint32, fieldName, text string) {
	tokens := s.analyzer.Analyze(text)
	if len(tokens) == 0 {
		return
	}

	positionsByTerm := make(map[string][]int)
	for pos, token := range tokens {
		positionsByTerm[token] = append(positionsByTerm[token], pos)
	}

	for term, positions := range positionsByTerm {
		s.invertedIndex.Index[term] = append(s.invertedIndex.Index[term], index.PostingEntry{
			DocID:     docID,
			FieldName: fieldName,
			TermFreq:  float64(len(positions)),
			Positions: positions,
		})
	}
}

// removeDocumentTokensUnsafe strips a document's posting entries from the index.
func (s *Service) removeDocumentTokensUnsafe(docID uint32, doc model.Document) {
	terms := make(map[string]struct{})
	for _, fieldName := range s.invertedIndex.Settings.SearchableFields {
		fieldValue, ok := doc[fieldName]
		if !ok {
			continue
		}
		for _, text := range fieldStrings(fieldValue) {
			for _, token := range s.analyzer.Analyze(text) {
				terms[token] = struct{}{}
			}
		}
	}

	for term := range terms {
		postingList, ok := s.invertedIndex.Index[term]
		if !ok {
			continue
		}
		kept := postingList[:0]
		for _, entry := range postingList {
			if entry.DocID != docID {
				kept = append(kept, entry)
			}
		}
		if len(kept) == 0 {
			delete(s.invertedIndex.Index, term)
		} else {
			s.invertedIndex.Index[term] = kept
		}
	}
}

// DeleteDocument removes a single document by its external ID.
func (s *Service) DeleteDocument(docID string) error {
	s.invertedIndex.Mu.Lock()
	s.documentStore.Mu.Lock()
	defer s.invertedIndex.Mu.Unlock()
	defer s.documentStore.Mu.Unlock()

	internalID, exists := s.documentStore.ExternalIDtoInternalID[docID]
	if !exists {
		return errors.NewDocumentNotFoundError(docID)
	}

	if doc, ok := s.documentStore.Docs[internalID]; ok {
		s.removeDocumentTokensUnsafe(internalID, doc)
	}

	delete(s.documentStore.Docs, internalID)
	delete(s.documentStore.ExternalIDtoInternalID, docID)
	return nil
}

// DeleteAllDocuments clears the document store and the inverted index.
func (s *Service) DeleteAllDocuments() error {
	s.invertedIndex.Mu.Lock()
	s.documentStore.Mu.Lock()
	defer s.invertedIndex.Mu.Unlock()
	defer s.documentStore.Mu.Unlock()

	s.documentStore.Docs = make(map[uint32]model.Document)
	s.documentStore.ExternalIDtoInternalID = make(map[string]uint32)
	s.documentStore.NextID = 0
	s.invertedIndex.Index = make(map[string]index.PostingList)
	return nil
}

// fieldStrings extracts the indexable strings from a document field value.
func fieldStrings(fieldValue interface{}) []string {
	switch v := fieldValue.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}
