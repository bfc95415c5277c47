package models

import "time"

// Document is the materialized state of one document, rebuilt from events.
//
// Links and Tags keep insertion order. TagRefs holds the names of tags
// assigned to the document.
type Document struct {
	ID          string            `json:"id"`
	Path        string            `json:"path"`
	Content     string            `json:"content"`
	ContentHash string            `json:"content_hash"`
	Links       []Link            `json:"links,omitempty"`
	Tags        []Tag             `json:"tags,omitempty"`
	TagRefs     []string          `json:"tag_refs,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
	UpdatedBy   string            `json:"updated_by"`
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := d
	out.Links = append([]Link(nil), d.Links...)
	out.Tags = append([]Tag(nil), d.Tags...)
	out.TagRefs = append([]string(nil), d.TagRefs...)
	if d.Attributes != nil {
		out.Attributes = make(map[string]string, len(d.Attributes))
		for k, v := range d.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}
