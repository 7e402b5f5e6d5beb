package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
)

// EnsureAuditTx 确保评分行存在（空默认），让后续重算总有行可更新
func EnsureAuditTx(tx *sql.Tx, tourID int64) error {
	if _, err := tx.Exec("INSERT OR IGNORE INTO tour_audit (tour_id) VALUES (?)", tourID); err != nil {
		return fmt.Errorf("failed to ensure audit row: %w", err)
	}
	return nil
}

// UpdateAudit 整体写入重算后的评分结果
func UpdateAudit(db *sql.DB, tourID int64, status model.HealthStatus, score int, issues []string, otaScore int, globalSuitable bool) error {
	if issues == nil {
		issues = []string{}
	}
	issuesJSON, err := json.Marshal(issues)
	if err != nil {
		return fmt.Errorf("failed to marshal issues: %w", err)
	}

	_, err = db.Exec(`
		UPDATE tour_audit SET
			health_status = ?,
			health_score = ?,
			issues = ?,
			ota_score = ?,
			global_suitable = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE tour_id = ?
	`, string(status), score, string(issuesJSON), otaScore, globalSuitable, tourID)
	if err != nil {
		return fmt.Errorf("failed to update audit: %w", err)
	}
	return nil
}

// UpdateAuditResult Store 封装的评分写入
func (s *Store) UpdateAuditResult(tourID int64, status model.HealthStatus, score int, issues []string, otaScore int, globalSuitable bool) error {
	return UpdateAudit(s.db, tourID, status, score, issues, otaScore, globalSuitable)
}

// GetAudit 读取评分记录，不存在返回 nil
func (s *Store) GetAudit(tourID int64) (*model.Audit, error) {
	a := &model.Audit{TourID: tourID}
	var issuesJSON string
	err := s.db.QueryRow(`
		SELECT health_status, health_score, issues, ota_score, global_suitable, updated_at
		FROM tour_audit WHERE tour_id = ?
	`, tourID).Scan(&a.HealthStatus, &a.HealthScore, &issuesJSON, &a.OTAScore, &a.GlobalSuitable, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan audit: %w", err)
	}

	if err := json.Unmarshal([]byte(issuesJSON), &a.Issues); err != nil {
		return nil, fmt.Errorf("failed to unmarshal issues: %w", err)
	}
	return a, nil
}
