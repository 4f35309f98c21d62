package board

import (
	"encoding/json"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Meta holds the share settings persisted next to the objects.
type Meta struct {
	// PasswordHash is a bcrypt hash of the share password, empty when the
	// board is not password protected.
	PasswordHash string `json:"password,omitempty"`

	// ExpiresAt is the share-link expiry, nil when the link does not expire.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// SetPassword hashes and stores the share password. An empty password clears
// the protection.
func (m *Meta) SetPassword(plain string) error {
	if plain == "" {
		m.PasswordHash = ""
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash. A board
// without a password accepts any input.
func (m *Meta) CheckPassword(plain string) bool {
	if m.PasswordHash == "" {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(plain)) == nil
}

// Expired reports whether the share link has expired at the given instant.
func (m *Meta) Expired(now time.Time) bool {
	return m.ExpiresAt != nil && now.After(*m.ExpiresAt)
}

// Document is the persisted form of one board: the ordered object sequence
// plus share metadata.
type Document struct {
	Objects []Object `json:"objects"`
	Meta    Meta     `json:"meta,omitempty"`
	OwnerID string   `json:"ownerId,omitempty"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Objects: []Object{}}
}

// IndexOf returns the position of the object with the given id, or -1.
func (d *Document) IndexOf(id string) int {
	for i, o := range d.Objects {
		if o.ID() == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy of the document with cloned objects.
func (d *Document) Clone() *Document {
	c := &Document{
		Objects: make([]Object, len(d.Objects)),
		Meta:    d.Meta,
		OwnerID: d.OwnerID,
	}
	for i, o := range d.Objects {
		c.Objects[i] = o.Clone()
	}
	return c
}

// Encode serializes the document for storage.
func (d *Document) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// DecodeDocument parses a stored document. Absent, empty or malformed input
// yields an empty document rather than an error: a broken row must never
// make a board unloadable.
func DecodeDocument(data []byte) *Document {
	if len(data) == 0 {
		return NewDocument()
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return NewDocument()
	}
	if d.Objects == nil {
		d.Objects = []Object{}
	}
	return &d
}
