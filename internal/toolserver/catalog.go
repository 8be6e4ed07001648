package toolserver

import (
	"context"

	"github.com/enrollchat/enrollchat/internal/core"
)

// mapType converts a tool-server JSON Schema type into the model's schema
// type enum. Anything unrecognized (including an absent type) becomes
// STRING; the enrollment server's schemas are flat enough that this is the
// whole contract.
func mapType(t string) string {
	switch t {
	case "integer", "number":
		return core.TypeNumber
	case "boolean":
		return core.TypeBoolean
	case "array":
		return core.TypeArray
	case "object":
		return core.TypeObject
	default:
		return core.TypeString
	}
}

// Declarations translates the tool server's declared tools into the model's
// function-declaration format. Translation is one level deep: nested
// property schemas are flattened to their declared top-level type.
func Declarations(tools []core.ToolInfo) []core.FunctionDeclaration {
	decls := make([]core.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		params := &core.Schema{
			Type:       core.TypeObject,
			Properties: map[string]*core.Schema{},
		}
		for name, prop := range t.InputSchema.Properties {
			params.Properties[name] = &core.Schema{
				Type:        mapType(prop.Type),
				Description: prop.Description,
			}
		}
		params.Required = t.InputSchema.Required
		if params.Required == nil {
			params.Required = []string{}
		}
		decls = append(decls, core.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  params,
		})
	}
	return decls
}

// Catalog lists the server's tools and returns them already translated.
func Catalog(ctx context.Context, client core.ToolClient) ([]core.FunctionDeclaration, error) {
	tools, err := client.ListTools(ctx)
	if err != nil {
		return nil, err
	}
	return Declarations(tools), nil
}
