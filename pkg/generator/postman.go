package generator

import (
	"encoding/json"
	"fmt"

	"github.com/entidraw/entidraw/pkg/document"
	"github.com/entidraw/entidraw/pkg/relsem"
)

// Postman collection v2.1 wire structs; only the subset the generated
// collection needs.
type postmanCollection struct {
	Info     postmanInfo       `json:"info"`
	Item     []postmanFolder   `json:"item"`
	Variable []postmanVariable `json:"variable"`
}

type postmanInfo struct {
	Name   string `json:"name"`
	Schema string `json:"schema"`
}

type postmanFolder struct {
	Name string        `json:"name"`
	Item []postmanItem `json:"item"`
}

type postmanItem struct {
	Name    string         `json:"name"`
	Request postmanRequest `json:"request"`
}

type postmanRequest struct {
	Method string       `json:"method"`
	Header []postmanKV  `json:"header,omitempty"`
	URL    postmanURL   `json:"url"`
	Body   *postmanBody `json:"body,omitempty"`
}

type postmanKV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type postmanURL struct {
	Raw  string   `json:"raw"`
	Host []string `json:"host"`
	Path []string `json:"path"`
}

type postmanBody struct {
	Mode string `json:"mode"`
	Raw  string `json:"raw"`
}

type postmanVariable struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// generatePostman renders the API test collection: one folder per entity
// with the CRUD requests the spring controller exposes, sharing the same
// resolver-derived resource paths.
func generatePostman(doc *document.Document, opts Options) (*Bundle, error) {
	collection := postmanCollection{
		Info: postmanInfo{
			Name:   opts.AppName + " API",
			Schema: "https://schema.getpostman.com/json/collection/v2.1.0/collection.json",
		},
		Variable: []postmanVariable{
			{Key: "baseUrl", Value: "http://localhost:8080"},
		},
	}

	for _, entity := range doc.Entities() {
		class := className(entity)
		path := relsem.Pluralize(relsem.Camel(relsem.Sanitize(entity.Name)))
		body := sampleBody(doc, entity)

		folder := postmanFolder{
			Name: class,
			Item: []postmanItem{
				{
					Name:    "List " + relsem.Pluralize(class),
					Request: request("GET", path, ""),
				},
				{
					Name:    "Get " + class,
					Request: request("GET", path+"/1", ""),
				},
				{
					Name:    "Create " + class,
					Request: request("POST", path, body),
				},
				{
					Name:    "Update " + class,
					Request: request("PUT", path+"/1", body),
				},
				{
					Name:    "Delete " + class,
					Request: request("DELETE", path+"/1", ""),
				},
			},
		}
		collection.Item = append(collection.Item, folder)
	}

	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode postman collection: %w", err)
	}
	return &Bundle{
		Target:    TargetPostman,
		Artifacts: []Artifact{{Path: opts.AppName + ".postman_collection.json", Content: data}},
	}, nil
}

func request(method, path, body string) postmanRequest {
	req := postmanRequest{
		Method: method,
		URL: postmanURL{
			Raw:  "{{baseUrl}}/api/" + path,
			Host: []string{"{{baseUrl}}"},
			Path: []string{"api", path},
		},
	}
	if body != "" {
		req.Header = []postmanKV{{Key: "Content-Type", Value: "application/json"}}
		req.Body = &postmanBody{Mode: "raw", Raw: body}
	}
	return req
}

// sampleBody builds an example JSON payload from the entity's attributes,
// inherited ones included, so requests are runnable as-is.
func sampleBody(doc *document.Document, entity document.Entity) string {
	payload := make(map[string]any)
	attrs := append(inheritedAttributes(doc, entity), entity.Attributes...)
	for _, attr := range attrs {
		if attr.PK {
			continue
		}
		payload[relsem.Camel(relsem.Sanitize(attr.Name))] = sampleValue(attr.Type)
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func sampleValue(p document.Primitive) any {
	switch p {
	case document.TypeInt, document.TypeLong:
		return 1
	case document.TypeFloat, document.TypeDouble:
		return 1.5
	case document.TypeBoolean:
		return true
	case document.TypeDate:
		return "2024-01-01"
	case document.TypeDateTime:
		return "2024-01-01T00:00:00Z"
	case document.TypeUUID:
		return "00000000-0000-0000-0000-000000000000"
	case document.TypeEmail:
		return "user@example.com"
	}
	return "example"
}
