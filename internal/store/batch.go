package store

import (
	"database/sql"
	"fmt"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
)

// CreateImportBatch 创建导入批次记录
func (s *Store) CreateImportBatch(id, filename string) error {
	_, err := s.db.Exec(`
		INSERT INTO import_batches (id, filename, status) VALUES (?, ?, 'processing')
	`, id, filename)
	if err != nil {
		return fmt.Errorf("failed to create import batch: %w", err)
	}
	return nil
}

// CompleteImportBatch 写入批次终态和汇总计数
func (s *Store) CompleteImportBatch(id string, totalRows, updatedRows, errorRows int, status string) error {
	_, err := s.db.Exec(`
		UPDATE import_batches SET
			total_rows = ?,
			updated_rows = ?,
			error_rows = ?,
			status = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, totalRows, updatedRows, errorRows, status, id)
	if err != nil {
		return fmt.Errorf("failed to complete import batch: %w", err)
	}
	return nil
}

// GetLastImportBatch 获取最近一次导入批次，不存在返回 nil
func (s *Store) GetLastImportBatch() (*model.ImportBatch, error) {
	b := &model.ImportBatch{}
	var completedAt sql.NullTime
	err := s.db.QueryRow(`
		SELECT id, filename, status, total_rows, updated_rows, error_rows, started_at, completed_at
		FROM import_batches ORDER BY started_at DESC, id DESC LIMIT 1
	`).Scan(&b.ID, &b.Filename, &b.Status, &b.TotalRows, &b.UpdatedRows, &b.ErrorRows,
		&b.StartedAt, &completedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan import batch: %w", err)
	}
	if completedAt.Valid {
		b.CompletedAt = &completedAt.Time
	}
	return b, nil
}
