package models

import "time"

// ChapterProgress tracks how far a learner has gotten through one chapter.
// At most one row exists per (app user, chapter) pair; the composite unique
// index backs the find-or-create path under concurrent writers.
//
// Version is the optimistic-concurrency token: every update must carry the
// version it read, and the store rejects writes against a stale one.
type ChapterProgress struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	AppUserID    int64      `gorm:"not null;uniqueIndex:idx_progress_user_chapter" json:"app_user_id"`
	ChapterID    int64      `gorm:"not null;uniqueIndex:idx_progress_user_chapter" json:"chapter_id"`
	Completed    bool       `gorm:"default:false;not null" json:"completed"`
	Percent      int        `gorm:"default:0;not null" json:"percent"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
	Version      int64      `gorm:"default:0;not null" json:"version"`

	AppUser AppUser `gorm:"foreignKey:AppUserID;constraint:OnDelete:CASCADE" json:"-"`
	Chapter Chapter `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ChapterProgress) TableName() string {
	return "chapter_progresses"
}
