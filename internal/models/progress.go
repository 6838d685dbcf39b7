package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ContentProgress is the per-user, per-content consumption ledger: listen
// position, quiz completion, report and certificate downloads. It is keyed
// uniquely by (user_id, content_id) and upserted incrementally.
//
// This is a progress ledger, not an access record. Nothing in it may be
// used to decide whether the user has access to the content.
type ContentProgress struct {
	ID                      uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID                  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_content" json:"user_id"`
	ContentID               uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_content" json:"content_id"`
	ListenProgressSeconds   int            `gorm:"default:0" json:"listen_progress_seconds"`
	ListenProgressPercent   int            `gorm:"default:0" json:"listen_progress_percent"`
	QuizCompleted           bool           `gorm:"default:false" json:"quiz_completed"`
	QuizCompletedAt         *time.Time     `json:"quiz_completed_at,omitempty"`
	ReportDownloaded        bool           `gorm:"default:false" json:"report_downloaded"`
	ReportDownloadedAt      *time.Time     `json:"report_downloaded_at,omitempty"`
	CertificateDownloaded   bool           `gorm:"default:false" json:"certificate_downloaded"`
	CertificateDownloadedAt *time.Time     `json:"certificate_downloaded_at,omitempty"`
	Metadata                datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
}
