package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NewID returns a unique identifier for conversations, messages and
// attachments: a millisecond timestamp prefix keeps ids roughly sortable
// by creation time, a uuid suffix keeps them unique within the same
// millisecond.
func NewID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + uuid.NewString()[:8]
}
