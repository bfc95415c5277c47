package models

// Link is an outgoing reference from a document to another document or URL.
type Link struct {
	ID     string `json:"id"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// Tag is a document-scoped tag definition.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// DocumentCreated introduces a new document with its initial content.
type DocumentCreated struct {
	DocID   string `json:"document_id"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

// DocumentUpdated replaces the content of a document. BaseHash is the content
// hash the author's edit was based on; a different local hash means the edit
// raced with another one.
type DocumentUpdated struct {
	DocID    string `json:"document_id"`
	Path     string `json:"path"`
	BaseHash string `json:"base_hash"`
	Content  string `json:"content"`
}

type DocumentDeleted struct {
	DocID string `json:"document_id"`
	Path  string `json:"path"`
}

type DocumentRenamed struct {
	DocID   string `json:"document_id"`
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
}

type LinkCreated struct {
	DocID string `json:"document_id"`
	Link  Link   `json:"link"`
}

type LinkUpdated struct {
	DocID string `json:"document_id"`
	Link  Link   `json:"link"`
}

type LinkDeleted struct {
	DocID  string `json:"document_id"`
	LinkID string `json:"link_id"`
}

type TagCreated struct {
	DocID string `json:"document_id"`
	Tag   Tag    `json:"tag"`
}

type TagUpdated struct {
	DocID string `json:"document_id"`
	Tag   Tag    `json:"tag"`
}

type TagDeleted struct {
	DocID string `json:"document_id"`
	TagID string `json:"tag_id"`
}

// TagAssigned attaches a tag by name to a document.
type TagAssigned struct {
	DocID   string `json:"document_id"`
	TagName string `json:"tag_name"`
}

type TagUnassigned struct {
	DocID   string `json:"document_id"`
	TagName string `json:"tag_name"`
}

// AttributeUpdated sets a document attribute. A nil Value removes the key.
type AttributeUpdated struct {
	DocID string  `json:"document_id"`
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

func (DocumentCreated) Kind() EventKind  { return KindDocumentCreated }
func (DocumentUpdated) Kind() EventKind  { return KindDocumentUpdated }
func (DocumentDeleted) Kind() EventKind  { return KindDocumentDeleted }
func (DocumentRenamed) Kind() EventKind  { return KindDocumentRenamed }
func (LinkCreated) Kind() EventKind      { return KindLinkCreated }
func (LinkUpdated) Kind() EventKind      { return KindLinkUpdated }
func (LinkDeleted) Kind() EventKind      { return KindLinkDeleted }
func (TagCreated) Kind() EventKind       { return KindTagCreated }
func (TagUpdated) Kind() EventKind       { return KindTagUpdated }
func (TagDeleted) Kind() EventKind       { return KindTagDeleted }
func (TagAssigned) Kind() EventKind      { return KindTagAssigned }
func (TagUnassigned) Kind() EventKind    { return KindTagUnassigned }
func (AttributeUpdated) Kind() EventKind { return KindAttributeUpdated }

func (p DocumentCreated) DocumentID() string  { return p.DocID }
func (p DocumentUpdated) DocumentID() string  { return p.DocID }
func (p DocumentDeleted) DocumentID() string  { return p.DocID }
func (p DocumentRenamed) DocumentID() string  { return p.DocID }
func (p LinkCreated) DocumentID() string      { return p.DocID }
func (p LinkUpdated) DocumentID() string      { return p.DocID }
func (p LinkDeleted) DocumentID() string      { return p.DocID }
func (p TagCreated) DocumentID() string       { return p.DocID }
func (p TagUpdated) DocumentID() string       { return p.DocID }
func (p TagDeleted) DocumentID() string       { return p.DocID }
func (p TagAssigned) DocumentID() string      { return p.DocID }
func (p TagUnassigned) DocumentID() string    { return p.DocID }
func (p AttributeUpdated) DocumentID() string { return p.DocID }
