// Package store is the persistence gateway: every database operation the
// handlers need, and nothing else, goes through here.
package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ideatter/ideatter/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the three tables if they are absent. Safe to run on
// every startup.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&models.Idea{}, &models.Comment{}, &models.WantToCreate{})
}

// ListIdeas returns every idea, newest identity first. The slice is
// never nil, so an empty table serializes as [] rather than null.
func (s *Store) ListIdeas(ctx context.Context) ([]models.Idea, error) {
	ideas := make([]models.Idea, 0)
	if err := s.db.WithContext(ctx).Order("idea_id desc").Find(&ideas).Error; err != nil {
		return nil, err
	}
	return ideas, nil
}

// ListComments returns the comments on one idea, newest first.
func (s *Store) ListComments(ctx context.Context, ideaID uint) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	err := s.db.WithContext(ctx).
		Where("idea_id = ?", ideaID).
		Order("timestamp desc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Store) CountComments(ctx context.Context, ideaID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("idea_id = ?", ideaID).
		Count(&count).Error
	return count, err
}

func (s *Store) ListWantToCreate(ctx context.Context, ideaID uint) ([]models.WantToCreate, error) {
	rows := make([]models.WantToCreate, 0)
	err := s.db.WithContext(ctx).Where("idea_id = ?", ideaID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) CountWantToCreate(ctx context.Context, ideaID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.WantToCreate{}).
		Where("idea_id = ?", ideaID).
		Count(&count).Error
	return count, err
}

// InsertIdea persists a new idea. The timestamp is assigned here, never
// taken from the caller.
func (s *Store) InsertIdea(ctx context.Context, idea *models.Idea) error {
	idea.IdeaID = 0
	idea.Timestamp = time.Now().UTC()
	return s.db.WithContext(ctx).Create(idea).Error
}

// InsertComment persists a new comment. A dangling IdeaID fails the
// foreign key constraint and comes back as an error.
func (s *Store) InsertComment(ctx context.Context, comment *models.Comment) error {
	comment.CommentID = 0
	comment.Timestamp = time.Now().UTC()
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *Store) InsertWantToCreate(ctx context.Context, row *models.WantToCreate) error {
	row.ID = 0
	return s.db.WithContext(ctx).Create(row).Error
}

// IncrementLikes adds exactly one like to an idea inside a transaction
// that holds an exclusive row lock, so concurrent increments on the same
// idea serialize instead of losing updates. Returns
// gorm.ErrRecordNotFound when the idea does not exist; any error rolls
// the transaction back in full.
func (s *Store) IncrementLikes(ctx context.Context, ideaID uint) (*models.Idea, error) {
	var idea models.Idea
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		// SQLite has a single writer and rejects FOR UPDATE; the row
		// lock is only needed (and only available) on Postgres.
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&idea, ideaID).Error; err != nil {
			return err
		}
		idea.Likes++
		return tx.Model(&idea).Update("likes", idea.Likes).Error
	})
	if err != nil {
		return nil, err
	}
	return &idea, nil
}
