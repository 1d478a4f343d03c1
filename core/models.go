package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// PageSeparator joins extracted page texts into a single document body.
const PageSeparator = "\n\n"

// SourceKey is the metadata key carrying a summary's source path.
const SourceKey = "source"

// ID is a unique identifier for stored records.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Role identifies the author of a chat message.
type Role string

const (
	// RoleHuman is a message written by the user.
	RoleHuman Role = "human"
	// RoleAI is a message produced by the chat model.
	RoleAI Role = "ai"
	// RoleSystem is an instruction message.
	RoleSystem Role = "system"
)

// Message is a single role-tagged chat message.
type Message struct {
	Role    Role
	Content string
}

// HumanMessage returns a Message authored by the user.
func HumanMessage(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

// Document is the extracted text of one source file.
type Document struct {
	Source string   // Record identifier, e.g. "docs/book.pdf"
	Path   string   // Filesystem path the pages were read from
	Pages  []string // One entry per extracted page
}

// Text concatenates every page, separated by a blank line.
func (d *Document) Text() string {
	return strings.Join(d.Pages, PageSeparator)
}

// SummaryRecord is a document summary together with its embedding.
type SummaryRecord struct {
	Id         ID
	Source     string
	Content    string
	Vector     []float32 // Embedding of Content
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// SearchResult pairs a stored summary with its similarity score.
type SearchResult struct {
	Record *SummaryRecord
	Score  float32
}
