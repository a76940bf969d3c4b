package xsd

import (
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/CognitoIQ/musicxml/internal/dependency"
	"github.com/CognitoIQ/musicxml/xmltree"
)

// FetchImports starts from a set of schema documents and recursively
// fetches any <import>/<include> dependencies they declare over HTTP,
// returning all of the documents (inputs first) in an order suitable for
// a single Parse call. Namespaces already present among the input
// documents are not re-fetched. client is typically http.DefaultClient;
// tests substitute a client that serves canned bodies.
func FetchImports(client *http.Client, docs ...[]byte) ([][]byte, error) {
	have := make(map[string]bool)
	var g dependency.Graph
	fetched := make(map[string][]byte)

	for _, doc := range docs {
		refs, err := Imports(doc)
		if err != nil {
			return nil, err
		}
		for _, tns := range targetNamespaces(doc) {
			have[tns] = true
		}
		for _, r := range refs {
			g.Add("__root__", r.Namespace)
			if err := fetchOne(client, r, have, fetched, &g, 1); err != nil {
				return nil, err
			}
		}
	}

	result := make([][]byte, 0, len(docs)+len(fetched))
	result = append(result, docs...)
	g.Flatten(func(ns string) {
		if ns == "__root__" {
			return
		}
		if data, ok := fetched[ns]; ok {
			result = append(result, data)
		}
	})
	return result, nil
}

const maxFetchDepth = 10

func fetchOne(client *http.Client, ref Ref, have map[string]bool, fetched map[string][]byte, g *dependency.Graph, depth int) error {
	if have[ref.Namespace] {
		return nil
	}
	if depth >= maxFetchDepth {
		return fmt.Errorf("xsd: maximum import depth of %d reached fetching %s", maxFetchDepth, ref.Namespace)
	}
	if ref.Location == "" {
		return fmt.Errorf("xsd: no schemaLocation given for namespace %s", ref.Namespace)
	}
	rsp, err := client.Get(ref.Location)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()
	body, err := ioutil.ReadAll(rsp.Body)
	if err != nil {
		return err
	}
	have[ref.Namespace] = true
	fetched[ref.Namespace] = body

	refs, err := Imports(body)
	if err != nil {
		return err
	}
	for _, r := range refs {
		g.Add(ref.Namespace, r.Namespace)
		if err := fetchOne(client, r, have, fetched, g, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func targetNamespaces(doc []byte) []string {
	root, err := xmltree.Parse(doc)
	if err != nil {
		return nil
	}
	var out []string
	if root.Name.Local == "schema" {
		out = append(out, root.Attr("", "targetNamespace"))
	}
	for _, s := range root.Search(schemaNS, "schema") {
		out = append(out, s.Attr("", "targetNamespace"))
	}
	return out
}
