package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	BatchID     ID
	VariableKey ID
)

// String conversions for domain IDs
func (id BatchID) String() string     { return ID(id).String() }
func (id VariableKey) String() string { return ID(id).String() }

// NewBatchID creates a fresh identifier for a multi-pair analysis batch.
func NewBatchID() BatchID {
	return BatchID(NewID())
}

// ParseVariableKey parses a string into VariableKey
func ParseVariableKey(s string) (VariableKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("variable key cannot be empty")
	}
	return VariableKey(s), nil
}

// PairKey names a (solar, mental) variable combination the way results and
// logs refer to it.
func PairKey(solar, mental VariableKey) string {
	return solar.String() + "__" + mental.String()
}
