package service

import (
	"sync"

	"github.com/google/uuid"
)

// Document is one open piece of text tracked across requests. Revision
// starts at 1 and bumps on every update.
type Document struct {
	ID       string
	Profile  string
	Version  string
	Content  string
	Revision int
}

// DocumentManager handles document operations
type DocumentManager struct {
	store *sync.Map // map[string]*Document
}

func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		store: &sync.Map{},
	}
}

// Open registers content under a fresh id and returns the stored document.
func (m *DocumentManager) Open(profile, version, content string) *Document {
	doc := &Document{
		ID:       uuid.NewString(),
		Profile:  profile,
		Version:  version,
		Content:  content,
		Revision: 1,
	}
	m.store.Store(doc.ID, doc)
	return doc
}

func (m *DocumentManager) Get(id string) (*Document, bool) {
	v, ok := m.store.Load(id)
	if !ok {
		return nil, false
	}
	doc, ok := v.(*Document)
	return doc, ok
}

// Update replaces the document's content wholesale. Documents are stored
// as immutable snapshots so readers never see a half-written update.
func (m *DocumentManager) Update(id, content string) (*Document, bool) {
	v, ok := m.store.Load(id)
	if !ok {
		return nil, false
	}
	prev := v.(*Document)
	doc := &Document{
		ID:       prev.ID,
		Profile:  prev.Profile,
		Version:  prev.Version,
		Content:  content,
		Revision: prev.Revision + 1,
	}
	m.store.Store(id, doc)
	return doc, true
}

func (m *DocumentManager) Delete(id string) {
	m.store.Delete(id)
}

func (m *DocumentManager) Len() int {
	n := 0
	m.store.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
