package models

import "time"

// Idea is a user-submitted proposal with a like counter.
// Likes is the only field that changes after insert.
type Idea struct {
	IdeaID       uint      `gorm:"primaryKey;column:idea_id" json:"ideaId"`
	Username     string    `gorm:"size:50;not null" json:"username"`
	ExplanationA string    `gorm:"size:120;not null" json:"explanationA"`
	ExplanationB *string   `gorm:"size:120" json:"explanationB"`
	ExplanationC *string   `gorm:"size:120" json:"explanationC"`
	Description  *string   `gorm:"size:2000" json:"description"`
	Timestamp    time.Time `gorm:"not null" json:"timestamp"`
	Likes        int       `gorm:"not null;default:0" json:"likes"`

	// Has-many relationships; the constraint tags make AutoMigrate
	// create real foreign keys so orphan rows fail at the database.
	Comments      []Comment      `gorm:"foreignKey:IdeaID;references:IdeaID;constraint:OnDelete:RESTRICT" json:"-"`
	WantToCreates []WantToCreate `gorm:"foreignKey:IdeaID;references:IdeaID;constraint:OnDelete:RESTRICT" json:"-"`
}

// Comment is a remark attached to one Idea. Immutable after creation.
type Comment struct {
	CommentID uint      `gorm:"primaryKey;column:comment_id" json:"commentId"`
	IdeaID    uint      `gorm:"column:idea_id;not null;index" json:"ideaId"`
	Username  string    `gorm:"size:50;not null" json:"username"`
	Content   string    `gorm:"size:120;not null" json:"content"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}

// WantToCreate records a user's declared intent to build an Idea.
// Duplicates per (username, ideaId) are allowed on purpose.
type WantToCreate struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:50;not null" json:"username"`
	IdeaID   uint   `gorm:"column:idea_id;not null;index" json:"ideaId"`
}

// TableName keeps the historical table name.
func (WantToCreate) TableName() string {
	return "want_to_create"
}
