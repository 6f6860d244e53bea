package openapi

// InputSchema builds the tool input schema for an operation: parameters
// become top-level properties; a JSON object request body is folded in
// property by property, any other body shape lands under a "body" property.
func InputSchema(op Operation) map[string]any {
	properties := map[string]any{}
	var required []string

	for _, param := range op.Parameters {
		schema := param.Schema
		if schema == nil {
			schema = map[string]any{"type": "string"}
		}
		if param.Description != "" {
			merged := make(map[string]any, len(schema)+1)
			for k, v := range schema {
				merged[k] = v
			}
			if _, ok := merged["description"]; !ok {
				merged["description"] = param.Description
			}
			schema = merged
		}
		properties[param.Name] = schema
		if param.Required {
			required = append(required, param.Name)
		}
	}

	if op.BodySchema != nil {
		if bodyProps, ok := op.BodySchema["properties"].(map[string]any); ok {
			for name, schema := range bodyProps {
				if _, exists := properties[name]; !exists {
					properties[name] = schema
				}
			}
			if bodyRequired, ok := op.BodySchema["required"].([]any); ok {
				for _, name := range bodyRequired {
					if s, ok := name.(string); ok {
						required = append(required, s)
					}
				}
			}
		} else {
			properties["body"] = op.BodySchema
			if op.BodyRequired {
				required = append(required, "body")
			}
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// bodyPropertyNames lists the flat body properties for an operation, used to
// split call arguments between parameters and request body.
func bodyPropertyNames(op Operation) []string {
	if op.BodySchema == nil {
		return nil
	}
	bodyProps, ok := op.BodySchema["properties"].(map[string]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(bodyProps))
	for name := range bodyProps {
		names = append(names, name)
	}
	return names
}
