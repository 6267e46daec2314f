package prompts

import (
	"encoding/json"
	"fmt"

	"github.com/promptdeck/promptdeck/pkg/docstore"
	"github.com/promptdeck/promptdeck/pkg/query"
	"github.com/promptdeck/promptdeck/pkg/repository"
)

var projection = query.
	NewProjectionMap(docstore.Schema, docstore.Table, "r").
	Project("id", "ID").
	Project("type", "Type").
	Project("user_id", "UserID").
	Project("name", "Name").
	Project("description", "Description").
	Project("is_published", "IsPublished").
	Project("shared_with", "SharedWith").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	var shared []byte

	err := s.Scan(
		&p.ID,
		&p.Type,
		&p.UserID,
		&p.Name,
		&p.Description,
		&p.IsPublished,
		&shared,
		&p.CreatedAt,
	)
	if err != nil {
		return p, err
	}

	if err := json.Unmarshal(shared, &p.SharedWith); err != nil {
		return p, fmt.Errorf("decode shared_with: %w", err)
	}
	if p.SharedWith == nil {
		p.SharedWith = []string{}
	}

	return p, nil
}

func recordFields(p Prompt) (docstore.Fields, error) {
	shared, err := json.Marshal(p.SharedWith)
	if err != nil {
		return nil, fmt.Errorf("encode shared_with: %w", err)
	}

	return docstore.Fields{
		{Column: "id", Value: p.ID},
		{Column: "type", Value: p.Type},
		{Column: "user_id", Value: p.UserID},
		{Column: "name", Value: p.Name},
		{Column: "description", Value: p.Description},
		{Column: "is_published", Value: p.IsPublished},
		{Column: "shared_with", Value: shared},
		{Column: "created_at", Value: p.CreatedAt},
	}, nil
}
