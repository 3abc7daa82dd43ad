package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	input := strings.Join([]string{
		"AMZ,Online",
		"AMAZON,Shopping",
		"FARMACIA, Health ",
	}, "\n")

	table, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, table, 3)

	assert.Equal(t, Rule{Pattern: "AMZ", Category: "Online"}, table[0])
	assert.Equal(t, Rule{Pattern: "AMAZON", Category: "Shopping"}, table[1])
	// Surrounding whitespace is trimmed.
	assert.Equal(t, Rule{Pattern: "FARMACIA", Category: "Health"}, table[2])
}

func TestLoadFailsFast(t *testing.T) {
	input := "AMZ,Online\njust-a-pattern\nFARMACIA,Health"

	table, err := Load(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Nil(t, table)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.csv")
	require.NoError(t, os.WriteFile(path, []byte("LIDL,Groceries\n"), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, "Groceries", table[0].Category)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestCategorize(t *testing.T) {
	table := []Rule{
		{Pattern: "AMZ", Category: "Online"},
		{Pattern: "AMAZON", Category: "Shopping"},
		{Pattern: "", Category: "Never"},
		{Pattern: "FARMACIA", Category: "Health"},
	}

	tests := []struct {
		merchant string
		want     string
	}{
		{"AMZ Mktp RO", "Online"},
		{"AMAZON EU SARL", "Shopping"},
		{"amazon.de", "Shopping"},
		{"FARMACIA TEI", "Health"},
		{"farmacia catena", "Health"},
		{"UNKNOWN SHOP", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.merchant, table), "merchant %q", tt.merchant)
	}
}

// When two patterns both occur in the merchant string, the earlier rule wins.
func TestCategorizeFirstMatchWins(t *testing.T) {
	table := []Rule{
		{Pattern: "FARM", Category: "First"},
		{Pattern: "FARMACIA", Category: "Second"},
	}
	assert.Equal(t, "First", Categorize("FARMACIA TEI", table))

	reversed := []Rule{
		{Pattern: "FARMACIA", Category: "Second"},
		{Pattern: "FARM", Category: "First"},
	}
	assert.Equal(t, "Second", Categorize("FARMACIA TEI", reversed))
}

