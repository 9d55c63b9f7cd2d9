package models

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// EdgeSide names which half of a follow edge a server changed.
type EdgeSide string

const (
	// FollowersSide is the target's view of the edge, held by the target's home server.
	FollowersSide EdgeSide = "followers"
	// FollowingSide is the follower's view of the edge, held by the follower's home server.
	FollowingSide EdgeSide = "following"
)

func (EdgeSide) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql", "postgres":
		return "enum('followers', 'following')"
	case "sqlite":
		return "TEXT"
	default:
		return ""
	}
}

// EdgeAction is the change made to one half of a follow edge.
type EdgeAction string

const (
	AddEdge    EdgeAction = "add"
	RemoveEdge EdgeAction = "remove"
)

func (EdgeAction) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql", "postgres":
		return "enum('add', 'remove')"
	case "sqlite":
		return "TEXT"
	default:
		return ""
	}
}

// An EdgeRecord records one server adding or removing its half of a follow
// edge from Follower to Target.
type EdgeRecord struct {
	ID        uint32 `gorm:"primarykey"`
	CreatedAt time.Time
	Server    string     `gorm:"size:128;not null;index"`
	Side      EdgeSide   `gorm:"not null"`
	Action    EdgeAction `gorm:"not null"`
	Follower  string     `gorm:"size:255;not null"`
	Target    string     `gorm:"size:255;not null"`
}

func (EdgeRecord) TableName() string {
	return "journal_edges"
}

// RecordEdge appends a change to server's half of the follower → target edge.
func (j *Journal) RecordEdge(ctx context.Context, server string, side EdgeSide, action EdgeAction, follower, target string) error {
	return j.db.WithContext(ctx).Create(&EdgeRecord{
		Server:   server,
		Side:     side,
		Action:   action,
		Follower: follower,
		Target:   target,
	}).Error
}

// Edges returns the edge changes journaled by server, in the order they were made.
func (j *Journal) Edges(ctx context.Context, server string) ([]EdgeRecord, error) {
	var records []EdgeRecord
	err := j.db.WithContext(ctx).Where("server = ?", server).Order("id").Find(&records).Error
	return records, err
}
