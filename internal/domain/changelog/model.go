package changelog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EntityExpense = "expense"
	EntityFund    = "fund"
)

const (
	ChangeAdd    = "add"
	ChangeEdit   = "edit"
	ChangeDelete = "delete"
)

// Entry is an append-only record of an edit to an expense or fund.
type Entry struct {
	ID             string              `gorm:"type:uuid;primaryKey"`
	EntityType     string              `gorm:"type:varchar(16);not null"`
	EntityID       string              `gorm:"type:uuid;not null"`
	ChangeType     string              `gorm:"type:varchar(16);not null"`
	Details        string              `gorm:"not null"`
	PreviousAmount decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	NewAmount      decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	ActorID        *string             `gorm:"type:uuid"`
	CreatedAt      time.Time           `gorm:"autoCreateTime"`
}

func (Entry) TableName() string {
	return "change_logs"
}

type ListFilter struct {
	EntityType string
	EntityID   string
	Limit      int
}

func NewEntry(entityType, entityID, changeType, details string, actorID string) *Entry {
	entry := &Entry{
		ID:         uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		ChangeType: changeType,
		Details:    details,
	}
	if actorID != "" {
		entry.ActorID = &actorID
	}
	return entry
}

func (e *Entry) WithAmounts(previous, next *decimal.Decimal) *Entry {
	if previous != nil {
		e.PreviousAmount = decimal.NewNullDecimal(*previous)
	}
	if next != nil {
		e.NewAmount = decimal.NewNullDecimal(*next)
	}
	return e
}
