package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const testCorpus = `
images:
  - _id: lake
    title: Sunset over the lake
    category: landscape
    tags: [sunset, lake]
    imageUrl: https://cdn.example.com/lake.jpg
  - _id: ridge
    title: Ridge at dusk
    category: landscape
  - _id: chapel
    title: Vows in the chapel
    category: wedding
    tags: [ceremony]
`

func writeCorpus(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCorpus), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).Run(append([]string{"galleryctl"}, args...))
	return stdout.String(), err
}

func decodeSearch(t *testing.T, out string) searchOutput {
	t.Helper()
	var res searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return res
}

func TestSearchCommand_Ranked(t *testing.T) {
	out, err := run(t, "search", "--corpus", writeCorpus(t), "--query", "Sunset")
	require.NoError(t, err)

	res := decodeSearch(t, out)
	assert.Equal(t, "ranked", res.Mode)
	assert.Equal(t, "Sunset", res.Query)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "lake", res.Items[0].ID)
	assert.Equal(t, "ridge", res.Items[1].ID)
	assert.Nil(t, res.Items[0].Signals)
}

func TestSearchCommand_Explain(t *testing.T) {
	out, err := run(t, "search", "--corpus", writeCorpus(t), "--query", "sunset", "--explain")
	require.NoError(t, err)

	res := decodeSearch(t, out)
	require.Len(t, res.Items, 2)
	assert.Contains(t, res.Synonyms, "dusk")

	lake := res.Items[0]
	require.NotNil(t, lake.Signals)
	require.NotNil(t, lake.Score)
	assert.Equal(t, 15, lake.Signals.Tag)
	assert.Equal(t, lake.Signals.Total(), *lake.Score)

	ridge := res.Items[1]
	require.NotNil(t, ridge.Signals)
	assert.Equal(t, 3, *ridge.Score)
	assert.Equal(t, 3, ridge.Signals.Synonym)
}

func TestSearchCommand_Pagination(t *testing.T) {
	out, err := run(t, "search", "--corpus", writeCorpus(t), "--query", "sunset", "--page", "2", "--limit", "1")
	require.NoError(t, err)

	res := decodeSearch(t, out)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Count)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "ridge", res.Items[0].ID)
}

func TestSearchCommand_EmptyQueryShuffles(t *testing.T) {
	out, err := run(t, "search", "--corpus", writeCorpus(t))
	require.NoError(t, err)

	res := decodeSearch(t, out)
	assert.Equal(t, "shuffle", res.Mode)
	assert.Equal(t, 3, res.Total)
	assert.Empty(t, res.Query)
}

func TestSearchCommand_NoMatch(t *testing.T) {
	path := writeCorpus(t)

	out, err := run(t, "search", "--corpus", path, "--query", "xylophone")
	require.NoError(t, err)
	res := decodeSearch(t, out)
	assert.Equal(t, 0, res.Total)
	assert.NotNil(t, res.Items)
	assert.Contains(t, out, `"items": []`)

	out, err = run(t, "search", "--corpus", path, "--query", "xylophone", "--fallback")
	require.NoError(t, err)
	res = decodeSearch(t, out)
	assert.True(t, res.Fallback)
	assert.Equal(t, 3, res.Total)
}

func TestSearchCommand_Category(t *testing.T) {
	out, err := run(t, "search", "--corpus", writeCorpus(t), "--category", "wedding")
	require.NoError(t, err)

	res := decodeSearch(t, out)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "chapel", res.Items[0].ID)
}

func TestSearchCommand_Errors(t *testing.T) {
	t.Run("corpus is required", func(t *testing.T) {
		_, err := run(t, "search", "--query", "sunset")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "corpus")
	})

	t.Run("missing corpus file", func(t *testing.T) {
		_, err := run(t, "search", "--corpus", filepath.Join(t.TempDir(), "nope.yaml"), "--query", "sunset")
		require.Error(t, err)
	})

	t.Run("missing synonyms file", func(t *testing.T) {
		_, err := run(t, "search", "--corpus", writeCorpus(t), "--synonyms", filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestSynonymsCommand_Table(t *testing.T) {
	out, err := run(t, "synonyms")
	require.NoError(t, err)

	var table map[string][]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &table))
	assert.Contains(t, table["evening"], "sunset")
}

func TestSynonymsCommand_ExpandJSON(t *testing.T) {
	extra := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(extra, []byte("drone: [aerial]\n"), 0o600))

	out, err := run(t, "synonyms", "--synonyms", extra, "--expand", "Drone Lake", "--format", "json")
	require.NoError(t, err)

	var exp expansion
	require.NoError(t, json.Unmarshal([]byte(out), &exp))
	assert.Equal(t, "drone lake", exp.Query)
	assert.Equal(t, []string{"drone", "lake"}, exp.Terms)
	assert.Contains(t, exp.Synonyms, "aerial")
}

func TestSynonymsCommand_UnknownFormat(t *testing.T) {
	_, err := run(t, "synonyms", "--format", "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toml")
}

func TestMCPCommand_RequiresCorpus(t *testing.T) {
	_, err := run(t, "mcp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corpus")
}

func TestSearchCommandFlags(t *testing.T) {
	cmd := searchCommand()

	t.Run("limit defaults to the gallery page size", func(t *testing.T) {
		var limitFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "limit" {
				limitFlag = f
				break
			}
		}
		require.NotNil(t, limitFlag)
		assert.Equal(t, 12, limitFlag.Value)
	})

	t.Run("corpus is required and reads env", func(t *testing.T) {
		var corpus *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "corpus" {
				corpus = f
				break
			}
		}
		require.NotNil(t, corpus)
		assert.True(t, corpus.Required)
		assert.Equal(t, []string{"GALLERYCTL_CORPUS"}, corpus.EnvVars)
	})
}
