package chats

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
	Project("co_users", "CoUsers").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

func scanThread(s repository.Scanner) (ChatThread, error) {
	var t ChatThread
	var coUsers []byte

	err := s.Scan(
		&t.ID,
		&t.Type,
		&t.UserID,
		&t.Name,
		&coUsers,
		&t.CreatedAt,
	)
	if err != nil {
		return t, err
	}

	if err := json.Unmarshal(coUsers, &t.CoUsers); err != nil {
		return t, fmt.Errorf("decode co_users: %w", err)
	}
	if t.CoUsers == nil {
		t.CoUsers = []string{}
	}

	return t, nil
}

func recordFields(t ChatThread) (docstore.Fields, error) {
	coUsers, err := json.Marshal(t.CoUsers)
	if err != nil {
		return nil, fmt.Errorf("encode co_users: %w", err)
	}

	return docstore.Fields{
		{Column: "id", Value: t.ID},
		{Column: "type", Value: t.Type},
		{Column: "user_id", Value: t.UserID},
		{Column: "name", Value: t.Name},
		{Column: "co_users", Value: coUsers},
		{Column: "created_at", Value: t.CreatedAt},
	}, nil
}
