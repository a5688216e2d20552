package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRegistersSubcommands(t *testing.T) {
	root := rootCmd()

	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Subset(t, names, []string{"serve", "search", "document", "expand", "version"})
}

func TestVersionPrints(t *testing.T) {
	root := rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "ijus version 0.1.0\n", out.String())
}

func TestLookupCommandsValidateArgs(t *testing.T) {
	cases := map[string][]string{
		"search without query":  {"search"},
		"document without id":   {"document", "acordao"},
		"expand without text":   {"expand"},
		"serve with extra args": {"serve", "now"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			root := rootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(args)
			assert.Error(t, root.Execute())
		})
	}
}

func TestRequestsJoinArguments(t *testing.T) {
	search := searchRequest([]string{"dano", "moral "}, "TJSP", 5, true)
	assert.Equal(t, "dano moral", search.Query)
	assert.Equal(t, "TJSP", search.Tribunal)
	assert.Equal(t, 5, search.Size)
	assert.True(t, search.Expand)

	assert.Equal(t, "rescisão indireta", expandRequest([]string{" rescisão", "indireta"}).Text)
}
