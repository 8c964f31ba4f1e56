package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderMetadata_Resolved(t *testing.T) {
	assert.Equal(t, OrderMetadata{Copies: Unspecified, DueDate: Unspecified}, OrderMetadata{}.Resolved())
	assert.Equal(t, OrderMetadata{Copies: "3", DueDate: Unspecified}, OrderMetadata{Copies: "3"}.Resolved())
	assert.Equal(t, OrderMetadata{Copies: "1", DueDate: "2024-01-10"}, OrderMetadata{Copies: "1", DueDate: "2024-01-10"}.Resolved())
}

func TestOrderMetadata_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    OrderMetadata
		wantErr bool
	}{
		{name: "strings", input: `{"copies":"3","dueDate":"2024-01-10"}`, want: OrderMetadata{Copies: "3", DueDate: "2024-01-10"}},
		{name: "numeric copies", input: `{"copies":3}`, want: OrderMetadata{Copies: "3"}},
		{name: "decimal kept verbatim", input: `{"copies":2.50}`, want: OrderMetadata{Copies: "2.50"}},
		{name: "null and absent", input: `{"copies":null}`, want: OrderMetadata{}},
		{name: "boolean rejected", input: `{"copies":true}`, wantErr: true},
		{name: "object rejected", input: `{"dueDate":{"day":1}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got OrderMetadata
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderMetadata_NumericCopiesInOrderMap(t *testing.T) {
	var orders map[string]OrderMetadata
	require.NoError(t, json.Unmarshal([]byte(`{"doc1":{"copies":3,"dueDate":"2024-01-10"},"doc2":{}}`), &orders))

	assert.Equal(t, OrderMetadata{Copies: "3", DueDate: "2024-01-10"}, orders["doc1"].Resolved())
	assert.Equal(t, OrderMetadata{Copies: Unspecified, DueDate: Unspecified}, orders["doc2"].Resolved())
}
