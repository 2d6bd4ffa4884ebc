package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoris/HDPLDA/random"
)

func TestPlantedCorpus(t *testing.T) {
	cfg := corpusConfig{docs: 20, vocab: 40, length: 15, topics: 4}
	a, err := plantedCorpus(cfg, random.New(3))
	require.NoError(t, err)
	b, err := plantedCorpus(cfg, random.New(3))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	require.Len(t, a, 20)
	for _, sent := range a {
		assert.Len(t, sent, 15)
		for _, w := range sent {
			assert.True(t, strings.HasPrefix(w, "t"), w)
		}
	}

	_, err = plantedCorpus(corpusConfig{docs: 1, vocab: 2, length: 1, topics: 3}, random.New(1))
	assert.Error(t, err)
	_, err = plantedCorpus(corpusConfig{docs: 0, vocab: 2, length: 1, topics: 1}, random.New(1))
	assert.Error(t, err)
}

func TestInitThenInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json.zst")

	var initOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&initOut)
	root.SetArgs([]string{"init", "--docs", "10", "--vocab", "20", "--length", "12", "--topics", "2", "--out", path})
	require.NoError(t, root.Execute())
	assert.Contains(t, initOut.String(), "entities 10")

	var inspectOut bytes.Buffer
	root = newRootCmd()
	root.SetOut(&inspectOut)
	root.SetArgs([]string{"inspect", path})
	require.NoError(t, root.Execute())

	firstLine := func(s string) string { return strings.SplitN(s, "\n", 2)[0] }
	assert.Equal(t, firstLine(initOut.String()), firstLine(inspectOut.String()))
}

func TestInspectMissingFile(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"inspect", filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, root.Execute())
}
