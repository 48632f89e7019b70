package models

import (
	"time"
)

// Transcript is one persisted conversation turn element.
type Transcript struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID string `gorm:"index;not null"`
	Role      string `gorm:"not null"`
	Content   string `gorm:"type:text"`
	ToolName  string
	CreatedAt time.Time
}

// Document is a source file ingested into the RAG store.
type Document struct {
	ID        uint   `gorm:"primaryKey"`
	Path      string `gorm:"uniqueIndex;not null"`
	Chunks    int
	CreatedAt time.Time
}

// Reminder is a scheduled spoken reminder created by the set_reminder tool.
type Reminder struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID string `gorm:"index"`
	Text      string `gorm:"type:text"`
	DueAt     time.Time
	Delivered bool
	CreatedAt time.Time
}
