package repositories

import (
	"fmt"

	"lapaklaptop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartSessionRepository defines the interface for per-session cart payloads.
type CartSessionRepository interface {
	Load(sessionID string) ([]byte, error)
	Save(sessionID string, payload []byte) error
}

// GORMCartSessionRepository is a GORM implementation of CartSessionRepository.
type GORMCartSessionRepository struct {
	db *gorm.DB
}

// NewGORMCartSessionRepository creates a new instance of GORMCartSessionRepository.
func NewGORMCartSessionRepository(db *gorm.DB) *GORMCartSessionRepository {
	return &GORMCartSessionRepository{
		db: db,
	}
}

// Load returns the stored payload for a session, or nil if the session has no
// cart yet.
func (r *GORMCartSessionRepository) Load(sessionID string) ([]byte, error) {
	var session models.CartSession
	if err := r.db.First(&session, "session_id = ?", sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load cart session %s: %w", sessionID, err)
	}
	return []byte(session.Payload), nil
}

// Save overwrites the session's payload, creating the row on first write
// (conflict key: session_id). Last write wins.
func (r *GORMCartSessionRepository) Save(sessionID string, payload []byte) error {
	session := models.CartSession{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Payload:   string(payload),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"payload": string(payload)}),
	}).Create(&session).Error
	if err != nil {
		return fmt.Errorf("failed to save cart session %s: %w", sessionID, err)
	}
	return nil
}

// SessionStorage adapts a CartSessionRepository to the cart.Storage interface
// for one session.
type SessionStorage struct {
	repo      CartSessionRepository
	sessionID string
}

// NewSessionStorage creates a cart storage bound to a session id.
func NewSessionStorage(repo CartSessionRepository, sessionID string) *SessionStorage {
	return &SessionStorage{
		repo:      repo,
		sessionID: sessionID,
	}
}

// Load reads the session's cart payload.
func (s *SessionStorage) Load() ([]byte, error) {
	return s.repo.Load(s.sessionID)
}

// Save writes the session's cart payload.
func (s *SessionStorage) Save(data []byte) error {
	return s.repo.Save(s.sessionID, data)
}
