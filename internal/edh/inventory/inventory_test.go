package inventory

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndexAggregates(t *testing.T) {
	idx := NewIndex([]Row{
		{Name: "Sol Ring", Quantity: 1, Source: "SetA"},
		{Name: "sol ring", Quantity: 2, Source: "SetB"},
		{Name: "Arcane Signet", Quantity: 1, Source: "SetA"},
		{Name: "SOL RING", Quantity: 0, Source: "SetA"},
	})

	card, ok := idx.Lookup("sol ring")
	require.True(t, ok)
	assert.Equal(t, 3, card.Quantity)
	assert.ElementsMatch(t, []string{"SetA", "SetB"}, card.Collections)
	assert.Equal(t, "Sol Ring", card.Name, "display name comes from the first row")
	assert.Equal(t, "SetA", card.FirstCollection())
	assert.Equal(t, "SetA; SetB", card.CollectionList())
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, []string{"Sol Ring", "Arcane Signet"}, idx.Names())
}

func TestRead(t *testing.T) {
	input := "Source,Name,Quantity,Notes\n" +
		"Precons,Sol Ring,1,\n" +
		"\"Binder, Blue\",Counterspell,2.0,foil\n" +
		"Precons,,3,\n" +
		"Precons,Counterspell,1,\n"

	idx, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	card, ok := idx.Lookup("COUNTERSPELL")
	require.True(t, ok)
	assert.Equal(t, 3, card.Quantity)
	assert.Equal(t, []string{"Binder, Blue", "Precons"}, card.Collections)
	assert.True(t, idx.Owns("sol ring"))
	assert.False(t, idx.Owns("Mana Crypt"))
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, err error)
	}{
		{
			name:  "missing column",
			input: "name,quantity\nSol Ring,1\n",
			check: func(t *testing.T, err error) {
				var colErr *ColumnError
				require.ErrorAs(t, err, &colErr)
				assert.Equal(t, "source", colErr.Column)
			},
		},
		{
			name:  "bad quantity",
			input: "name,quantity,source\nSol Ring,lots,A\n",
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "line 2")
			},
		},
		{
			name:  "empty file",
			input: "",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, ErrEmpty))
			},
		},
		{
			name:  "header only",
			input: "name,quantity,source\n",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, ErrEmpty))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffname,quantity,source\nSol Ring,1,A\n"), 0o644))

	idx, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())

	_, err = Load(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
