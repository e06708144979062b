package generator

import (
	"encoding/json"
	"strings"
	"testing"
)

func parseCollection(t *testing.T, data []byte) postmanCollection {
	t.Helper()
	var col postmanCollection
	if err := json.Unmarshal(data, &col); err != nil {
		t.Fatalf("collection is not valid JSON: %v", err)
	}
	return col
}

func TestPostman_FolderPerEntityWithCRUD(t *testing.T) {
	bundle, err := Generate(TargetPostman, houseDoc(t), Options{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	raw := artifactByPath(t, bundle, "entidraw.postman_collection.json")
	col := parseCollection(t, []byte(raw))

	if col.Info.Name != "entidraw API" {
		t.Errorf("collection name = %q", col.Info.Name)
	}
	if len(col.Variable) != 1 || col.Variable[0].Key != "baseUrl" {
		t.Fatalf("baseUrl variable missing: %+v", col.Variable)
	}
	if len(col.Item) != 2 {
		t.Fatalf("folders = %d, want one per entity", len(col.Item))
	}

	var casa *postmanFolder
	for i := range col.Item {
		if col.Item[i].Name == "Casa" {
			casa = &col.Item[i]
		}
	}
	if casa == nil {
		t.Fatal("no Casa folder")
	}
	if len(casa.Item) != 5 {
		t.Fatalf("requests = %d, want the 5 CRUD operations", len(casa.Item))
	}

	wantMethods := map[string]string{
		"List Casas":  "GET",
		"Get Casa":    "GET",
		"Create Casa": "POST",
		"Update Casa": "PUT",
		"Delete Casa": "DELETE",
	}
	for _, item := range casa.Item {
		method, ok := wantMethods[item.Name]
		if !ok {
			t.Errorf("unexpected request %q", item.Name)
			continue
		}
		if item.Request.Method != method {
			t.Errorf("%s: method = %s, want %s", item.Name, item.Request.Method, method)
		}
		if !strings.HasPrefix(item.Request.URL.Raw, "{{baseUrl}}/api/casas") {
			t.Errorf("%s: url = %s", item.Name, item.Request.URL.Raw)
		}
	}
}

func TestPostman_WriteRequestsCarryBodyAndHeader(t *testing.T) {
	bundle, err := Generate(TargetPostman, staffDoc(t), Options{AppName: "staff"})
	if err != nil {
		t.Fatal(err)
	}
	raw := artifactByPath(t, bundle, "staff.postman_collection.json")
	col := parseCollection(t, []byte(raw))

	for _, folder := range col.Item {
		for _, item := range folder.Item {
			switch item.Request.Method {
			case "POST", "PUT":
				if item.Request.Body == nil || item.Request.Body.Mode != "raw" {
					t.Errorf("%s/%s: missing raw body", folder.Name, item.Name)
					continue
				}
				if len(item.Request.Header) != 1 || item.Request.Header[0].Value != "application/json" {
					t.Errorf("%s/%s: missing content-type header", folder.Name, item.Name)
				}
				if strings.Contains(item.Request.Body.Raw, `"id"`) {
					t.Errorf("%s/%s: sample body includes the primary key", folder.Name, item.Name)
				}
			default:
				if item.Request.Body != nil {
					t.Errorf("%s/%s: read request has a body", folder.Name, item.Name)
				}
			}
		}
	}
}

func TestPostman_SampleBodyFlattensInheritance(t *testing.T) {
	bundle, err := Generate(TargetPostman, staffDoc(t), Options{})
	if err != nil {
		t.Fatal(err)
	}
	raw := artifactByPath(t, bundle, "entidraw.postman_collection.json")
	col := parseCollection(t, []byte(raw))

	for _, folder := range col.Item {
		if folder.Name != "Empleado" {
			continue
		}
		for _, item := range folder.Item {
			if item.Request.Method != "POST" {
				continue
			}
			var payload map[string]any
			if err := json.Unmarshal([]byte(item.Request.Body.Raw), &payload); err != nil {
				t.Fatalf("sample body is not valid JSON: %v", err)
			}
			if payload["salario"] != 1.5 {
				t.Errorf("salario sample = %v", payload["salario"])
			}
			if payload["name"] != "example" {
				t.Errorf("inherited name sample = %v", payload["name"])
			}
			return
		}
	}
	t.Fatal("no Empleado POST request found")
}
