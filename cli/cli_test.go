package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/meghashyamc/booksearch/services/search"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testBookName = "テスト書籍 テスト著者 100p_1234567890"

func writeTestLibrary(t *testing.T, assert *require.Assertions) string {
	baseDir := t.TempDir()

	bookDir := filepath.Join(baseDir, "out_1", testBookName)
	assert.NoError(os.MkdirAll(bookDir, 0755))

	records := []map[string]any{
		{"ocr_text": "これはテストデータです。", "local_filename": "test-001.jpg", "permalink_url": "https://example.com/test-001"},
		{"ocr_text": "テストデータとテストデータ", "local_filename": "test-002.jpg", "permalink_url": "https://example.com/test-002"},
		{"ocr_text": "関係のないページ", "local_filename": "test-003.jpg", "permalink_url": "https://example.com/test-003"},
	}
	content, err := json.Marshal(records)
	assert.NoError(err)
	assert.NoError(os.WriteFile(filepath.Join(bookDir, search.DefaultDataFile), content, 0644))

	return baseDir
}

func runCommand(assert *require.Assertions, args ...string) (string, error) {
	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--env", "test"}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestSearchCommandJSON(t *testing.T) {
	assert := require.New(t)
	baseDir := writeTestLibrary(t, assert)

	out, err := runCommand(assert, "search", "--base-dir", baseDir, "--format", "json", "テストデータ")
	assert.NoError(err)

	var response search.Response
	assert.NoError(json.Unmarshal([]byte(out), &response))
	assert.Len(response.Data, 2)
	assert.Equal("test-002.jpg", response.Data[0].Page)
	assert.InDelta(1.2, response.Data[0].Score, 1e-9)
	assert.Equal("test-001.jpg", response.Data[1].Page)
	assert.Equal("テスト書籍", response.Data[1].Title)
	assert.Equal("テスト著者", response.Data[1].Author)
	assert.Equal("1234567890", response.Data[1].ISBN)
}

func TestSearchCommandYAML(t *testing.T) {
	assert := require.New(t)
	baseDir := writeTestLibrary(t, assert)

	out, err := runCommand(assert, "search", "--base-dir", baseDir, "--format", "yaml", "--limit", "1", "テストデータ")
	assert.NoError(err)

	var response search.Response
	assert.NoError(yaml.Unmarshal([]byte(out), &response))
	assert.Len(response.Data, 1)
	assert.Equal("https://example.com/test-002", response.Data[0].URL)
}

func TestSearchCommandText(t *testing.T) {
	assert := require.New(t)
	baseDir := writeTestLibrary(t, assert)

	// The words are joined into "これは テスト", which no page contains as a phrase
	out, err := runCommand(assert, "search", "--base-dir", baseDir, "これは", "テスト")
	assert.NoError(err)
	assert.Contains(out, "[1] score 0.50")
	assert.Contains(out, "Title:  テスト書籍")
	assert.Contains(out, "Author: テスト著者")
	assert.Contains(out, "Page:   test-001.jpg")
	assert.Contains(out, "[2] score 0.25")
	assert.Contains(out, "Page:   test-002.jpg")
	assert.NotContains(out, "[3]")
}

func TestSearchCommandNoResults(t *testing.T) {
	assert := require.New(t)
	baseDir := writeTestLibrary(t, assert)

	out, err := runCommand(assert, "search", "--base-dir", baseDir, "存在しない")
	assert.NoError(err)
	assert.Equal("No results found.\n", out)

	out, err = runCommand(assert, "search", "--base-dir", filepath.Join(baseDir, "missing"), "--format", "json", "テスト")
	assert.NoError(err)
	assert.JSONEq(`{"data":[]}`, out)
}

func TestSearchCommandErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "NoQuery", args: []string{}},
		{name: "BlankQuery", args: []string{"  "}},
		{name: "NegativeLimit", args: []string{"--limit=-1", "テスト"}},
		{name: "UnknownFormat", args: []string{"--format", "xml", "テスト"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			args := append([]string{"search", "--base-dir", t.TempDir()}, testCase.args...)
			_, err := runCommand(assert, args...)
			assert.Error(err)
		})
	}
}

func TestParseFormat(t *testing.T) {
	assert := require.New(t)

	for _, format := range []string{"text", "json", "yaml"} {
		parsed, err := parseFormat(format)
		assert.NoError(err)
		assert.Equal(outputFormat(format), parsed)
	}

	_, err := parseFormat("JSON")
	assert.Error(err)
}
