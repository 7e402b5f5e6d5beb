package store

import (
	"database/sql"
	"fmt"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
)

// GetCustomDefByKey 按 key 查找自定义字段定义，不存在返回 nil
func (s *Store) GetCustomDefByKey(key string) (*model.CustomAttributeDef, error) {
	d := &model.CustomAttributeDef{}
	err := s.db.QueryRow("SELECT id, key, label FROM custom_attribute_defs WHERE key = ?", key).
		Scan(&d.ID, &d.Key, &d.Label)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan custom def: %w", err)
	}
	return d, nil
}

// CreateCustomDef 注册自定义字段定义
func (s *Store) CreateCustomDef(key, label string) (int64, error) {
	res, err := s.db.Exec("INSERT INTO custom_attribute_defs (key, label) VALUES (?, ?)", key, label)
	if err != nil {
		return 0, fmt.Errorf("failed to create custom def: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get custom def id: %w", err)
	}
	return id, nil
}

// ListCustomDefs 列出全部自定义字段定义
func (s *Store) ListCustomDefs() ([]*model.CustomAttributeDef, error) {
	rows, err := s.db.Query("SELECT id, key, label FROM custom_attribute_defs ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to query custom defs: %w", err)
	}
	defer rows.Close()

	var results []*model.CustomAttributeDef
	for rows.Next() {
		d := &model.CustomAttributeDef{}
		if err := rows.Scan(&d.ID, &d.Key, &d.Label); err != nil {
			return nil, fmt.Errorf("failed to scan custom def: %w", err)
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}

// UpsertCustomValueTx 在事务内写入自定义字段取值
func UpsertCustomValueTx(tx *sql.Tx, tourID, defID int64, value string) error {
	_, err := tx.Exec(`
		INSERT INTO custom_attribute_values (tour_id, def_id, value) VALUES (?, ?, ?)
		ON CONFLICT(tour_id, def_id) DO UPDATE SET value = excluded.value
	`, tourID, defID, value)
	if err != nil {
		return fmt.Errorf("failed to upsert custom value: %w", err)
	}
	return nil
}

// GetCustomValues 读取产品的自定义字段取值
func (s *Store) GetCustomValues(tourID int64) ([]*model.CustomAttributeValue, error) {
	rows, err := s.db.Query(`
		SELECT v.tour_id, v.def_id, d.key, v.value
		FROM custom_attribute_values v
		JOIN custom_attribute_defs d ON d.id = v.def_id
		WHERE v.tour_id = ?
		ORDER BY d.key
	`, tourID)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom values: %w", err)
	}
	defer rows.Close()

	var results []*model.CustomAttributeValue
	for rows.Next() {
		v := &model.CustomAttributeValue{}
		if err := rows.Scan(&v.TourID, &v.DefID, &v.Key, &v.Value); err != nil {
			return nil, fmt.Errorf("failed to scan custom value: %w", err)
		}
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}
