package core

import "fmt"

// ValidateMessage validates a Message according to domain rules.
//
// Validation rules:
//   - Role must be human, ai or system
//   - Content must not be empty
func ValidateMessage(msg *Message) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidMessage)
	}

	if err := ValidateRole(msg.Role); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	if msg.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyContent)
	}

	return nil
}

// ValidateRole validates that a Role has a known value.
func ValidateRole(role Role) error {
	switch role {
	case RoleHuman, RoleAI, RoleSystem:
		return nil
	}
	return fmt.Errorf("%w: value %q", ErrInvalidRole, string(role))
}

// ValidateDocument validates a Document produced by a loader.
// A document with zero pages is valid; its text is empty.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if doc.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptySource)
	}
	return nil
}

// ValidateSummaryRecord validates a SummaryRecord according to domain rules.
//
// Validation rules:
//   - Source must not be empty
//   - Content must not be empty
//
// NOT validated:
//   - Vector (can be empty until embedded)
//   - ID (0 is valid before the repository assigns one)
func ValidateSummaryRecord(record *SummaryRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidSummary)
	}

	if record.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSummary, ErrEmptySource)
	}

	if record.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSummary, ErrEmptyContent)
	}

	return nil
}
