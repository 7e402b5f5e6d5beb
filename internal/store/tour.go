package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
)

// UpsertTourTx 在事务内写入产品主记录
// 键选择：bokun_id 存在则按 bokun_id，否则退回按名称精确匹配
// 更新时只覆盖草稿中非空的字段，创建时使用文档化默认值（audited=false, active=true）
func UpsertTourTx(tx *sql.Tx, draft *model.TourDraft) (tourID int64, created bool, err error) {
	tourID, found, err := findTourIDTx(tx, draft)
	if err != nil {
		return 0, false, err
	}

	if !found {
		id, err := insertTourTx(tx, draft)
		if err != nil {
			return 0, false, err
		}
		return id, true, nil
	}

	if err := updateTourTx(tx, tourID, draft); err != nil {
		return 0, false, err
	}
	return tourID, false, nil
}

// findTourIDTx 按稳定键定位既有产品
func findTourIDTx(tx *sql.Tx, draft *model.TourDraft) (int64, bool, error) {
	var row *sql.Row
	if draft.BokunID != nil {
		row = tx.QueryRow("SELECT id FROM tours WHERE bokun_id = ?", *draft.BokunID)
	} else {
		row = tx.QueryRow("SELECT id FROM tours WHERE name = ? ORDER BY id LIMIT 1", draft.Name)
	}

	var id int64
	err := row.Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to find tour: %w", err)
	}
	return id, true, nil
}

// insertTourTx 创建产品主记录
func insertTourTx(tx *sql.Tx, draft *model.TourDraft) (int64, error) {
	audited := false
	if draft.Audited != nil {
		audited = *draft.Audited
	}
	active := true
	if draft.Active != nil {
		active = *draft.Active
	}
	location := ""
	if draft.Location != nil {
		location = *draft.Location
	}

	res, err := tx.Exec(`
		INSERT INTO tours (bokun_id, name, location, supplier_id, audited, active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, draft.BokunID, draft.Name, location, draft.SupplierID, audited, active)
	if err != nil {
		return 0, fmt.Errorf("failed to insert tour: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get tour id: %w", err)
	}
	return id, nil
}

// updateTourTx 更新产品主记录，未提供的字段保持原值
func updateTourTx(tx *sql.Tx, tourID int64, draft *model.TourDraft) error {
	updates := map[string]interface{}{
		"name": draft.Name,
	}
	if draft.BokunID != nil {
		updates["bokun_id"] = *draft.BokunID
	}
	if draft.Location != nil {
		updates["location"] = *draft.Location
	}
	if draft.SupplierID != nil {
		updates["supplier_id"] = *draft.SupplierID
	}
	if draft.Audited != nil {
		updates["audited"] = *draft.Audited
	}
	if draft.Active != nil {
		updates["active"] = *draft.Active
	}
	return updateColumnsTx(tx, "tours", "id", tourID, updates)
}

// updateColumnsTx 动态拼接 SET 子句的局部更新，并刷新 updated_at
func updateColumnsTx(tx *sql.Tx, table, keyCol string, keyVal interface{}, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(updates)+1)
	args := make([]interface{}, 0, len(updates)+1)
	for field, value := range updates {
		setClauses = append(setClauses, field+" = ?")
		args = append(args, value)
	}
	setClauses = append(setClauses, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, keyVal)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", table, strings.Join(setClauses, ", "), keyCol)
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	return nil
}

// GetTourByID 按内部 ID 获取产品主记录
func (s *Store) GetTourByID(id int64) (*model.Tour, error) {
	row := s.db.QueryRow(`
		SELECT id, bokun_id, name, location, supplier_id, audited, active, created_at, updated_at
		FROM tours WHERE id = ?
	`, id)
	return scanTour(row)
}

// GetTourByBokunID 按外部 ID 获取产品主记录
func (s *Store) GetTourByBokunID(bokunID int64) (*model.Tour, error) {
	row := s.db.QueryRow(`
		SELECT id, bokun_id, name, location, supplier_id, audited, active, created_at, updated_at
		FROM tours WHERE bokun_id = ?
	`, bokunID)
	return scanTour(row)
}

// TourQueryOptions 产品查询选项
type TourQueryOptions struct {
	SupplierID *int64
	Active     *bool
	Audited    *bool
	Limit      int
	Offset     int
}

// ListTours 查询产品主记录
func (s *Store) ListTours(opts TourQueryOptions) ([]*model.Tour, error) {
	query := `
		SELECT id, bokun_id, name, location, supplier_id, audited, active, created_at, updated_at
		FROM tours WHERE 1=1`
	args := []interface{}{}

	if opts.SupplierID != nil {
		query += " AND supplier_id = ?"
		args = append(args, *opts.SupplierID)
	}
	if opts.Active != nil {
		query += " AND active = ?"
		args = append(args, *opts.Active)
	}
	if opts.Audited != nil {
		query += " AND audited = ?"
		args = append(args, *opts.Audited)
	}

	query += " ORDER BY id"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tours: %w", err)
	}
	defer rows.Close()

	var results []*model.Tour
	for rows.Next() {
		t, err := scanTourRows(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}

// CountTours 统计产品数量
func (s *Store) CountTours() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM tours").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tours: %w", err)
	}
	return count, nil
}

// UpdateTour 直接更新产品主记录字段（手工编辑路径）
func (s *Store) UpdateTour(id int64, updates map[string]interface{}) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateColumnsTx(tx, "tours", "id", id, updates); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// scanTour 扫描单行产品记录
func scanTour(row *sql.Row) (*model.Tour, error) {
	t := &model.Tour{}
	var bokunID sql.NullInt64
	var supplierID sql.NullInt64
	err := row.Scan(&t.ID, &bokunID, &t.Name, &t.Location, &supplierID,
		&t.Audited, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan tour: %w", err)
	}
	if bokunID.Valid {
		t.BokunID = &bokunID.Int64
	}
	if supplierID.Valid {
		t.SupplierID = &supplierID.Int64
	}
	return t, nil
}

// scanTourRows 从多行结果集扫描单条产品记录
func scanTourRows(rows *sql.Rows) (*model.Tour, error) {
	t := &model.Tour{}
	var bokunID sql.NullInt64
	var supplierID sql.NullInt64
	err := rows.Scan(&t.ID, &bokunID, &t.Name, &t.Location, &supplierID,
		&t.Audited, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tour: %w", err)
	}
	if bokunID.Valid {
		t.BokunID = &bokunID.Int64
	}
	if supplierID.Valid {
		t.SupplierID = &supplierID.Int64
	}
	return t, nil
}
