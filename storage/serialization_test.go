package storage

import (
	"testing"
	"time"

	"github.com/poiesic/domus/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestMarshalUnmarshalListing(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	listing := &core.Listing{
		Key:    "12",
		Text:   "5-floor townhouse, red book, Thanh Xuan district",
		Vector: []float32{0.1, 0.2, 0.3},
		Metadata: map[string]string{
			"property_type": "townhouse",
			"full_address":  "Thanh Xuan, Hanoi",
		},
		InsertedAt: now,
		UpdatedAt:  now,
	}

	data := MarshalListing(listing)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalListing(data)
	require.NoError(t, err)
	assert.Equal(t, listing.Key, decoded.Key)
	assert.Equal(t, listing.Text, decoded.Text)
	assert.Equal(t, listing.Vector, decoded.Vector)
	assert.Equal(t, listing.Metadata, decoded.Metadata)
	assert.True(t, listing.InsertedAt.Equal(decoded.InsertedAt))
	assert.True(t, listing.UpdatedAt.Equal(decoded.UpdatedAt))
}

func TestMarshalUnmarshalQueryExample(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	example := &core.QueryExample{
		Id:         core.IDFromContent("find houses with red book"),
		Question:   "find houses with red book",
		Cypher:     "MATCH (b:Listing) WHERE b.legal_status CONTAINS 'red book' RETURN b.id AS id",
		Vector:     []float32{0.4, 0.5},
		InsertedAt: now,
		UpdatedAt:  now,
	}

	data := MarshalQueryExample(example)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalQueryExample(data)
	require.NoError(t, err)
	assert.Equal(t, example.Id, decoded.Id)
	assert.Equal(t, example.Question, decoded.Question)
	assert.Equal(t, example.Cypher, decoded.Cypher)
	assert.Equal(t, example.Vector, decoded.Vector)
}

func TestUnmarshalListing_Truncated(t *testing.T) {
	listing := &core.Listing{Key: "12", Text: "some text"}
	data := MarshalListing(listing)

	_, err := UnmarshalListing(data[:2])
	assert.Error(t, err)
}
