// Package openapi converts OpenAPI 3 documents into callable tool sets:
// each operation becomes a tool whose invocation proxies a real HTTP request.
package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Parameter is a flattened OpenAPI parameter (path, query, or header).
type Parameter struct {
	Name        string
	In          string
	Description string
	Required    bool
	Schema      map[string]any
}

// Operation is one (path, method) pair extracted from the document.
type Operation struct {
	ID           string
	Method       string
	Path         string
	Summary      string
	Description  string
	Tags         []string
	Parameters   []Parameter
	BodySchema   map[string]any
	BodyRequired bool
}

// Document is a loaded OpenAPI spec with its extracted operations.
type Document struct {
	Title   string
	Version string
	BaseURL string

	ops []Operation
}

// Load reads an OpenAPI 3 document from a URL or file path. baseURL overrides
// the document's first server URL; one of the two must be present.
func Load(ctx context.Context, specRef, baseURL string) (*Document, error) {
	specRef = strings.TrimSpace(specRef)
	if specRef == "" {
		return nil, fmt.Errorf("spec reference is required")
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = true

	var (
		doc *openapi3.T
		err error
	)
	if strings.HasPrefix(specRef, "http://") || strings.HasPrefix(specRef, "https://") {
		var u *url.URL
		u, err = url.Parse(specRef)
		if err != nil {
			return nil, fmt.Errorf("parse spec url: %w", err)
		}
		doc, err = loader.LoadFromURI(u)
	} else {
		doc, err = loader.LoadFromFile(specRef)
	}
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" && len(doc.Servers) > 0 {
		base = strings.TrimRight(doc.Servers[0].URL, "/")
	}
	if base == "" {
		return nil, fmt.Errorf("no server url: pass an explicit base url")
	}

	result := &Document{BaseURL: base}
	if doc.Info != nil {
		result.Title = doc.Info.Title
		result.Version = doc.Info.Version
	}
	result.ops, err = extractOperations(doc)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Operations returns the document's operations sorted by id.
func (d *Document) Operations() []Operation {
	return d.ops
}

// FilterByTag restricts the document to operations carrying the given tag
// (case-insensitive). An empty tag leaves the document unchanged.
func (d *Document) FilterByTag(tag string) *Document {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return d
	}
	filtered := &Document{
		Title:   d.Title,
		Version: d.Version,
		BaseURL: d.BaseURL,
	}
	for _, op := range d.ops {
		for _, t := range op.Tags {
			if strings.EqualFold(t, tag) {
				filtered.ops = append(filtered.ops, op)
				break
			}
		}
	}
	return filtered
}

// Operation returns the operation with the given id.
func (d *Document) Operation(id string) (Operation, bool) {
	for _, op := range d.ops {
		if op.ID == id {
			return op, true
		}
	}
	return Operation{}, false
}

func extractOperations(doc *openapi3.T) ([]Operation, error) {
	if doc.Paths == nil {
		return nil, nil
	}
	var ops []Operation
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, rawOp := range item.Operations() {
			if rawOp == nil {
				continue
			}
			op := Operation{
				ID:          operationID(rawOp.OperationID, method, path),
				Method:      method,
				Path:        path,
				Summary:     rawOp.Summary,
				Description: rawOp.Description,
				Tags:        rawOp.Tags,
			}
			// Path-level parameters apply to every operation under the path.
			for _, ref := range append(append(openapi3.Parameters{}, item.Parameters...), rawOp.Parameters...) {
				param, err := flattenParameter(ref)
				if err != nil {
					return nil, fmt.Errorf("operation %s: %w", op.ID, err)
				}
				if param != nil {
					op.Parameters = append(op.Parameters, *param)
				}
			}
			if rawOp.RequestBody != nil && rawOp.RequestBody.Value != nil {
				body := rawOp.RequestBody.Value
				if media := body.Content.Get("application/json"); media != nil && media.Schema != nil {
					schema, err := schemaToMap(media.Schema)
					if err != nil {
						return nil, fmt.Errorf("operation %s body: %w", op.ID, err)
					}
					op.BodySchema = schema
					op.BodyRequired = body.Required
				}
			}
			ops = append(ops, op)
		}
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].ID < ops[j].ID })
	return ops, nil
}

func flattenParameter(ref *openapi3.ParameterRef) (*Parameter, error) {
	if ref == nil || ref.Value == nil {
		return nil, nil
	}
	value := ref.Value
	param := &Parameter{
		Name:        value.Name,
		In:          value.In,
		Description: value.Description,
		Required:    value.Required,
	}
	if value.Schema != nil {
		schema, err := schemaToMap(value.Schema)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", value.Name, err)
		}
		param.Schema = schema
	}
	return param, nil
}

// schemaToMap round-trips a schema ref through JSON into a plain map.
func schemaToMap(ref *openapi3.SchemaRef) (map[string]any, error) {
	data, err := json.Marshal(ref)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	return out, nil
}

// operationID returns the declared id or derives one from method and path,
// e.g. GET /users/{id} becomes get_users_id.
func operationID(declared, method, path string) string {
	if id := strings.TrimSpace(declared); id != "" {
		return strings.ToLower(id)
	}
	slug := strings.NewReplacer("{", "", "}", "", "/", "_", "-", "_", ".", "_").Replace(path)
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "root"
	}
	return strings.ToLower(method + "_" + slug)
}
