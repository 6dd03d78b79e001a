package lint

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutRule(t *testing.T) {
	rule := LayoutRule{Exists: func(key string) bool { return key == "default" }}

	assert.Empty(t, rule.Check(Subject{Filename: ".verb.md", Layout: "default"}))
	assert.Empty(t, rule.Check(Subject{Filename: ".verb.md"}))

	got := rule.Check(Subject{Filename: ".verb.md", Layout: "fancy"})
	require.Len(t, got, 1)
	assert.Equal(t, "layout", got[0].Rule)
	assert.Equal(t, ".verb.md", got[0].Filename)
	assert.Contains(t, got[0].Message, `"fancy"`)
}

func TestRefLinksRule(t *testing.T) {
	content := []byte("Use [the api][api] and [cli][].\n\n[api]: https://example.com\n")

	got := RefLinksRule{}.Check(Subject{Filename: "README.md", Content: content})
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Line)
	assert.Equal(t, "reference link [cli] has no definition", got[0].Message)
}

func TestCollector(t *testing.T) {
	var c Collector
	c.Add(Warning{Filename: "a", Message: "one"})
	c.Run(LayoutRule{Exists: func(string) bool { return false }}, Subject{Filename: "b", Layout: "x"})

	ws := c.Warnings()
	require.Len(t, ws, 2)
	assert.Equal(t, "b", ws[1].Filename)

	ws[0].Message = "changed"
	assert.Equal(t, "one", c.Warnings()[0].Message)
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := TextFormatter{}.Format(&buf, []Warning{
		{Filename: ".verb.md", Message: "first"},
		{Filename: "README.md", Message: "second"},
	})
	require.NoError(t, err)
	assert.Equal(t, ".verb.md | first\nREADME.md | second\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter("json").Format(&buf, nil))

	var out struct {
		Count    int       `json:"count"`
		Warnings []Warning `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 0, out.Count)
	assert.NotNil(t, out.Warnings)
}
