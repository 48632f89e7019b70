package chat

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/types"
	"github.com/RSAKTHISABARISH/RubyAI/src/models"
)

// GormMemory persists conversation turns as transcript rows. Recall is a
// plain substring match over the session's stored turns; summarization is
// the brain's job, not the store's.
type GormMemory struct {
	db *gorm.DB
}

// NewGormMemory migrates the transcript table and returns the store.
func NewGormMemory(db *gorm.DB) (*GormMemory, error) {
	if err := db.AutoMigrate(&models.Transcript{}); err != nil {
		return nil, fmt.Errorf("migrate transcripts: %w", err)
	}
	return &GormMemory{db: db}, nil
}

func (m *GormMemory) SaveMemory(sessionID string, dialogue []Message) error {
	rows := make([]models.Transcript, 0, len(dialogue))
	for _, msg := range dialogue {
		if msg.Role == types.RoleSystem {
			continue
		}
		rows = append(rows, models.Transcript{
			SessionID: sessionID,
			Role:      msg.Role,
			Content:   msg.Content,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	// replace the session's rows so repeated saves stay idempotent
	if err := m.db.Where("session_id = ?", sessionID).Delete(&models.Transcript{}).Error; err != nil {
		return err
	}
	return m.db.Create(&rows).Error
}

func (m *GormMemory) QueryMemory(sessionID string, query string) (string, error) {
	var rows []models.Transcript
	err := m.db.
		Where("session_id = ? AND content LIKE ?", sessionID, "%"+query+"%").
		Order("id").
		Limit(10).
		Find(&rows).Error
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("Earlier in this conversation:\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%s: %s\n", row.Role, row.Content)
	}
	return b.String(), nil
}

func (m *GormMemory) ClearMemory(sessionID string) error {
	return m.db.Where("session_id = ?", sessionID).Delete(&models.Transcript{}).Error
}
