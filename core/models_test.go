package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("find houses in Thanh Xuan")
		id2 := IDFromContent("find houses in Thanh Xuan")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content produces different ids", func(t *testing.T) {
		id1 := IDFromContent("question one")
		id2 := IDFromContent("question two")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("empty content is valid", func(t *testing.T) {
		id := IDFromContent("")
		assert.NotZero(t, id)
	})
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, ""},
		{"plain string", "42", "42"},
		{"string with whitespace", "  42\n", "42"},
		{"whitespace only", "   ", ""},
		{"integer", 42, "42"},
		{"int64", int64(99), "99"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeKey(tt.input))
		})
	}
}

func TestGraphRecordKey(t *testing.T) {
	t.Run("string id", func(t *testing.T) {
		r := GraphRecord{"id": " 12 "}
		assert.Equal(t, "12", r.Key())
	})

	t.Run("numeric id", func(t *testing.T) {
		r := GraphRecord{"id": 45}
		assert.Equal(t, "45", r.Key())
	})

	t.Run("missing id", func(t *testing.T) {
		r := GraphRecord{"full_address": "somewhere"}
		assert.Equal(t, "", r.Key())
	})

	t.Run("nil record", func(t *testing.T) {
		var r GraphRecord
		assert.Equal(t, "", r.Key())
	})
}

func TestListingCandidate(t *testing.T) {
	listing := &Listing{
		Key:  " 12 ",
		Text: "5-floor house with red book title",
		Metadata: map[string]string{
			"property_type": "townhouse",
		},
	}

	candidate := listing.Candidate(0.87)
	require.Equal(t, "12", candidate.Key)
	assert.Equal(t, listing.Text, candidate.Text)
	assert.Equal(t, 0.87, candidate.Score)
	assert.Equal(t, "townhouse", candidate.Attributes["property_type"])

	// Attribute map is a copy, not an alias of the metadata
	candidate.Attributes["property_type"] = "apartment"
	assert.Equal(t, "townhouse", listing.Metadata["property_type"])
}
