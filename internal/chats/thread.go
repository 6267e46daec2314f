// Package chats manages chat threads and their co-user membership.
package chats

import (
	"strings"
	"time"

	"github.com/promptdeck/promptdeck/pkg/response"
)

// RecordType discriminates chat thread records in the shared container.
const RecordType = "CHAT_THREAD"

const MsgNameEmpty = "Name cannot be empty"

// ChatThread is a conversation owned by one user and opened to co-users
// by email address.
type ChatThread struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId"`
	CoUsers   []string  `json:"coUsers"`
	CreatedAt time.Time `json:"createdAt"`
	Type      string    `json:"type"`
}

// Validate reports the validation failures on a thread.
func (t ChatThread) Validate() []response.Message {
	var errs []response.Message

	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, response.Message{Message: MsgNameEmpty})
	}

	return errs
}

// HasCoUser reports whether the address is already a co-user of the thread.
func (t ChatThread) HasCoUser(email string) bool {
	for _, c := range t.CoUsers {
		if c == email {
			return true
		}
	}
	return false
}
