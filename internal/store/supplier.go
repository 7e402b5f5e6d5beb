package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
)

// GetSupplierByName 按名称精确查找供应商，不存在时返回 nil
func (s *Store) GetSupplierByName(name string) (*model.Supplier, error) {
	row := s.db.QueryRow(`
		SELECT id, name, contact_person, email, phone, badges, profile_status, created_at, updated_at
		FROM suppliers WHERE name = ?
	`, name)
	return scanSupplier(row)
}

// GetSupplierByID 按 ID 查找供应商
func (s *Store) GetSupplierByID(id int64) (*model.Supplier, error) {
	row := s.db.QueryRow(`
		SELECT id, name, contact_person, email, phone, badges, profile_status, created_at, updated_at
		FROM suppliers WHERE id = ?
	`, id)
	return scanSupplier(row)
}

// CreateSupplier 创建供应商，档案状态初始为未完善
func (s *Store) CreateSupplier(name string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO suppliers (name, profile_status) VALUES (?, ?)
	`, name, model.SupplierProfileIncomplete)
	if err != nil {
		return 0, fmt.Errorf("failed to create supplier: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get supplier id: %w", err)
	}
	return id, nil
}

// FindOrCreateSupplier 按名称查找或创建供应商
// 并发批次同时创建同名供应商时，输家撞上唯一索引后回退为按名查询
func (s *Store) FindOrCreateSupplier(name string) (id int64, isNew bool, err error) {
	existing, err := s.GetSupplierByName(name)
	if err != nil {
		return 0, false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	id, err = s.CreateSupplier(name)
	if err != nil {
		if isUniqueViolation(err) {
			retry, rerr := s.GetSupplierByName(name)
			if rerr != nil {
				return 0, false, rerr
			}
			if retry != nil {
				return retry.ID, false, nil
			}
		}
		return 0, false, err
	}
	return id, true, nil
}

// ListSuppliers 列出全部供应商
func (s *Store) ListSuppliers() ([]*model.Supplier, error) {
	rows, err := s.db.Query(`
		SELECT id, name, contact_person, email, phone, badges, profile_status, created_at, updated_at
		FROM suppliers ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var results []*model.Supplier
	for rows.Next() {
		sp := &model.Supplier{}
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.ContactPerson, &sp.Email, &sp.Phone,
			&sp.Badges, &sp.ProfileStatus, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		results = append(results, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}

// CountSuppliers 统计供应商数量
func (s *Store) CountSuppliers() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM suppliers").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count suppliers: %w", err)
	}
	return count, nil
}

// scanSupplier 扫描单行供应商，无记录返回 nil
func scanSupplier(row *sql.Row) (*model.Supplier, error) {
	sp := &model.Supplier{}
	err := row.Scan(&sp.ID, &sp.Name, &sp.ContactPerson, &sp.Email, &sp.Phone,
		&sp.Badges, &sp.ProfileStatus, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan supplier: %w", err)
	}
	return sp, nil
}

// isUniqueViolation 是否为唯一约束冲突
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
