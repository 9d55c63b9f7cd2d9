package models

import (
	"context"
	"time"

	"github.com/davecheney/fedi/internal/snowflake"
	"gorm.io/gorm"
)

// A Journal is an append only audit log of what a server did. Journals are
// written, never replayed; a server's in memory state remains authoritative.
type Journal struct {
	db *gorm.DB
}

func NewJournal(db *gorm.DB) *Journal {
	return &Journal{
		db: db,
	}
}

// ActivityRecord records an activity authored on a server.
type ActivityRecord struct {
	ID        string       `gorm:"primarykey;size:36"`
	Seq       snowflake.ID `gorm:"not null;index"`
	Server    string       `gorm:"size:128;not null;index"`
	Type      ActivityType `gorm:"not null"`
	Actor     string       `gorm:"size:255;not null"`
	Content   string       `gorm:"type:text"`
	Published time.Time    `gorm:"not null"`
}

func (ActivityRecord) TableName() string {
	return "journal_activities"
}

// RecordActivity appends activity, authored on server, to the journal.
func (j *Journal) RecordActivity(ctx context.Context, server string, activity *Activity) error {
	return j.db.WithContext(ctx).Create(&ActivityRecord{
		ID:        activity.ID(),
		Seq:       snowflake.TimeToID(activity.Published()),
		Server:    server,
		Type:      activity.Type(),
		Actor:     activity.Actor(),
		Content:   activity.Content(),
		Published: activity.Published(),
	}).Error
}

// Activities returns the activities journaled by server, oldest first.
func (j *Journal) Activities(ctx context.Context, server string) ([]ActivityRecord, error) {
	var records []ActivityRecord
	err := j.db.WithContext(ctx).Where("server = ?", server).Order("published, seq").Find(&records).Error
	return records, err
}
