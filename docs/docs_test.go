package docs_test

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/amirasaad/walletledger/docs"
	"github.com/amirasaad/walletledger/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type document struct {
	Paths       map[string]map[string]operation `json:"paths"`
	Definitions map[string]json.RawMessage      `json:"definitions"`
}

type operation struct {
	Parameters []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"parameters"`
	Responses map[string]struct {
		Schema map[string]any `json:"schema"`
	} `json:"responses"`
}

func readDoc(t *testing.T) document {
	t.Helper()
	var doc document
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))
	return doc
}

var pathParam = regexp.MustCompile(`:(\w+)`)

func TestDoc_CoversEveryAPIRoute(t *testing.T) {
	doc := readDoc(t)
	app := testutils.NewTestApp(t, nil)

	for _, r := range app.Fiber.GetRoutes(true) {
		if r.Method != fiber.MethodGet && r.Method != fiber.MethodPost {
			continue
		}
		if !strings.HasPrefix(r.Path, "/wallets") && !strings.HasPrefix(r.Path, "/transactions") {
			continue
		}
		path := pathParam.ReplaceAllString(r.Path, "{$1}")
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "missing path %s", path) {
			assert.Contains(t, ops, strings.ToLower(r.Method), "missing %s %s", r.Method, path)
		}
	}
}

func TestDoc_DefinitionsResolve(t *testing.T) {
	raw := docs.SwaggerInfo.ReadDoc()
	doc := readDoc(t)

	refs := regexp.MustCompile(`"#/definitions/([\w.]+)"`).FindAllStringSubmatch(raw, -1)
	require.NotEmpty(t, refs)
	for _, m := range refs {
		assert.Contains(t, doc.Definitions, m[1])
	}
}

func TestDoc_ListFilterDescriptions(t *testing.T) {
	doc := readDoc(t)
	list := doc.Paths["/wallets/{userId}/transactions"]["get"]

	got := map[string]string{}
	for _, p := range list.Parameters {
		got[p.Name] = p.Description
	}
	assert.Contains(t, got["from"], "at or after")
	assert.Contains(t, got["to"], "exclusive")
	assert.Contains(t, list.Responses, "400")
}
