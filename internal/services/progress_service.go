package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vetsidekick/cpd-backend/internal/dto"
	"github.com/vetsidekick/cpd-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUnknownProgressAction = errors.New("Unknown progress action")

// ProgressService maintains the per-user, per-content consumption ledger.
// It records milestones only; access decisions never read from here.
type ProgressService struct {
	db *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// Get returns the ledger row for the pair, or a zeroed default when the
// user has not interacted with the content yet.
func (s *ProgressService) Get(userID, contentID uuid.UUID) (*models.ContentProgress, error) {
	var progress models.ContentProgress
	err := s.db.Where("user_id = ? AND content_id = ?", userID, contentID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.ContentProgress{UserID: userID, ContentID: contentID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("progress lookup: %w", err)
	}
	return &progress, nil
}

// Apply upserts the flag or counter for one action, keyed by the
// (user_id, content_id) unique index.
func (s *ProgressService) Apply(userID, contentID uuid.UUID, action string, data json.RawMessage) (*models.ContentProgress, error) {
	now := time.Now().UTC()
	record := models.ContentProgress{
		ID:        uuid.New(),
		UserID:    userID,
		ContentID: contentID,
	}

	var assigns map[string]interface{}
	switch action {
	case dto.ProgressActionListen:
		var listen dto.ListenProgressData
		if len(data) > 0 {
			if err := json.Unmarshal(data, &listen); err != nil {
				return nil, fmt.Errorf("decode listen progress data: %w", err)
			}
		}
		record.ListenProgressSeconds = listen.Seconds
		record.ListenProgressPercent = listen.Percent
		assigns = map[string]interface{}{
			"listen_progress_seconds": listen.Seconds,
			"listen_progress_percent": listen.Percent,
		}
	case dto.ProgressActionQuiz:
		record.QuizCompleted = true
		record.QuizCompletedAt = &now
		assigns = map[string]interface{}{
			"quiz_completed":    true,
			"quiz_completed_at": now,
		}
	case dto.ProgressActionReport:
		record.ReportDownloaded = true
		record.ReportDownloadedAt = &now
		assigns = map[string]interface{}{
			"report_downloaded":    true,
			"report_downloaded_at": now,
		}
	case dto.ProgressActionCertificate:
		record.CertificateDownloaded = true
		record.CertificateDownloadedAt = &now
		assigns = map[string]interface{}{
			"certificate_downloaded":    true,
			"certificate_downloaded_at": now,
		}
	default:
		return nil, ErrUnknownProgressAction
	}
	assigns["updated_at"] = now

	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_id"}},
		DoUpdates: clause.Assignments(assigns),
	}).Create(&record)
	if res.Error != nil {
		return nil, fmt.Errorf("persist progress: %w", res.Error)
	}

	return s.Get(userID, contentID)
}
