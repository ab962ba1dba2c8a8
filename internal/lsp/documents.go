package lsp

import "sync"

// document is an open buffer and its analysis, computed on first use.
type document struct {
	content string
	result  *AnalysisResult
}

// DocumentStore holds open document contents keyed by URI.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*document)}
}

func (s *DocumentStore) Open(uri, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = &document{content: content}
}

// Update replaces the content and drops the cached analysis.
func (s *DocumentStore) Update(uri, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = &document{content: content}
}

func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *DocumentStore) Get(uri string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	if !ok {
		return "", false
	}
	return doc.content, true
}

// Analysis returns the content of uri together with its analysis, running
// Analyze if the document changed since the last call.
func (s *DocumentStore) Analysis(uri string) (string, *AnalysisResult, bool) {
	s.mu.RLock()
	doc, ok := s.docs[uri]
	if ok && doc.result != nil {
		content, result := doc.content, doc.result
		s.mu.RUnlock()
		return content, result, true
	}
	s.mu.RUnlock()
	if !ok {
		return "", nil, false
	}

	result := Analyze(doc.content)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Only cache if the document was not replaced meanwhile.
	if cur, ok := s.docs[uri]; ok && cur == doc {
		doc.result = result
	}
	return doc.content, result, true
}
