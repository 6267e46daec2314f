package api

import (
	"fmt"
	"net/http"

	"github.com/promptdeck/promptdeck/internal/config"
	"github.com/promptdeck/promptdeck/pkg/openapi"
)

// SpecHandler builds the OpenAPI document for the service and returns a
// handler serving it as JSON. The document is assembled once at startup.
func SpecHandler(cfg *config.Config) (http.HandlerFunc, error) {
	spec := buildSpec(cfg)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}

	return openapi.ServeSpec(data), nil
}

func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec("Promptdeck API", cfg.Version)
	spec.SetDescription("Prompt sharing service with ownership, publication, and duplicate access controls.")
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Prompt":     promptSchema(),
		"ChatThread": chatThreadSchema(),
		"Message":    messageSchema(),
	})

	base := cfg.API.BasePath

	spec.Paths[base+"/prompts"] = &openapi.PathItem{
		Get:  operation("List prompts visible to the acting user", "prompts"),
		Post: operation("Create a prompt", "prompts"),
	}
	spec.Paths[base+"/prompts/published"] = &openapi.PathItem{
		Get: operation("List published prompts visible to the acting user", "prompts"),
	}
	spec.Paths[base+"/prompts/search"] = &openapi.PathItem{
		Post: operation("Search prompts with pagination and filters", "prompts"),
	}
	spec.Paths[base+"/prompts/{id}"] = &openapi.PathItem{
		Get:    idOperation("Find a prompt by id", "prompts"),
		Put:    idOperation("Update a prompt's name, description, and publication state", "prompts"),
		Delete: idOperation("Delete a prompt", "prompts"),
	}
	spec.Paths[base+"/prompts/{id}/share"] = &openapi.PathItem{
		Post: idOperation("Share a published prompt with email addresses", "prompts"),
	}
	spec.Paths[base+"/prompts/{id}/duplicate"] = &openapi.PathItem{
		Post: idOperation("Duplicate a prompt shared with the acting user", "prompts"),
	}

	spec.Paths[base+"/chats"] = &openapi.PathItem{
		Get:  operation("List chat threads for the acting user", "chats"),
		Post: operation("Create a chat thread", "chats"),
	}
	spec.Paths[base+"/chats/{id}"] = &openapi.PathItem{
		Get:    idOperation("Find a chat thread by id", "chats"),
		Delete: idOperation("Delete a chat thread", "chats"),
	}
	spec.Paths[base+"/chats/{id}/co-users"] = &openapi.PathItem{
		Post:   idOperation("Add a co-user to a chat thread", "chats"),
		Delete: idOperation("Remove a co-user from a chat thread", "chats"),
	}

	spec.Paths[base+"/editor"] = &openapi.PathItem{
		Get: operation("Read the editor state", "editor"),
	}
	spec.Paths[base+"/editor/submit"] = &openapi.PathItem{
		Post: operation("Submit the editor form", "editor"),
	}
	spec.Paths[base+"/revalidations/{page}"] = &openapi.PathItem{
		Get: idParamOperation("Read the revalidation generation for a page", "revalidations", "page"),
	}

	return spec
}

func operation(summary, tag string) *openapi.Operation {
	return &openapi.Operation{
		Summary: summary,
		Tags:    []string{tag},
		Responses: map[int]*openapi.Response{
			200: {Description: "Tagged operation result"},
		},
	}
}

func idOperation(summary, tag string) *openapi.Operation {
	return idParamOperation(summary, tag, "id")
}

func idParamOperation(summary, tag, param string) *openapi.Operation {
	op := operation(summary, tag)
	op.Parameters = []*openapi.Parameter{
		{
			Name:     param,
			In:       "path",
			Required: true,
			Schema:   &openapi.Schema{Type: "string"},
		},
	}
	return op
}

func promptSchema() *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":          {Type: "string"},
			"name":        {Type: "string"},
			"description": {Type: "string"},
			"createdAt":   {Type: "string", Format: "date-time"},
			"isPublished": {Type: "boolean"},
			"userId":      {Type: "string"},
			"sharedWith":  {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"type":        {Type: "string"},
		},
		Required: []string{"id", "name", "description", "userId", "type"},
	}
}

func chatThreadSchema() *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":        {Type: "string"},
			"name":      {Type: "string"},
			"userId":    {Type: "string"},
			"coUsers":   {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"createdAt": {Type: "string", Format: "date-time"},
			"type":      {Type: "string"},
		},
		Required: []string{"id", "name", "userId", "type"},
	}
}

func messageSchema() *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"message": {Type: "string"},
		},
		Required: []string{"message"},
	}
}
