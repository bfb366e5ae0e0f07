package todo

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Reminder is one line of the tutor's to-do list on the dashboard.
type Reminder struct {
	bun.BaseModel `bun:"table:reminders,alias:r"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Text      string    `bun:"text,notnull" json:"text"`
	Done      bool      `bun:"done,notnull,default:false" json:"done"`
	Position  int       `bun:"position,notnull" json:"-"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

type CreateReminderRequest struct {
	Text string `json:"text" validate:"required,max=200"`
}
