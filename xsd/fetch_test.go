package xsd

import (
	"testing"

	"github.com/CognitoIQ/musicxml/internal/testutil"
)

const rootSchema = `
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
            targetNamespace="urn:root"
            xmlns:ext="urn:ext">
	<xs:import namespace="urn:ext" schemaLocation="http://example.com/ext.xsd"/>
	<xs:element name="thing" type="ext:widget"/>
</xs:schema>`

const extSchema = `
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:ext">
	<xs:complexType name="widget">
		<xs:sequence>
			<xs:element name="label" type="xs:string"/>
		</xs:sequence>
	</xs:complexType>
</xs:schema>`

func TestFetchImportsFollowsSchemaLocation(t *testing.T) {
	client := testutil.FakeClient("http://example.com/ext.xsd", []byte(extSchema))

	docs, err := FetchImports(&client, []byte(rootSchema))
	if err != nil {
		t.Fatalf("FetchImports: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected root doc plus one fetched import, got %d", len(docs))
	}

	schemas, err := Parse(docs...)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(schemas) != 2 {
		t.Fatalf("expected 2 parsed schemas, got %d", len(schemas))
	}
}

func TestFetchImportsReportsMissingSchemaLocation(t *testing.T) {
	doc := []byte(`
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:root">
	<xs:import namespace="urn:ext"/>
</xs:schema>`)
	client := testutil.FakeClient("http://example.com/unused.xsd", nil)
	if _, err := FetchImports(&client, doc); err == nil {
		t.Fatalf("expected an error, import has no schemaLocation to fetch")
	}
}
