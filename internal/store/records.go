package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/scoring"
)

// 子记录写入：先判存在再插入或局部更新，未提供的字段保持原值。
// 稀疏子记录只在草稿携带至少一个相关字段时才创建。

// UpsertPricingTx 写入价格子记录，创建时共享/私营倍率落默认值
func UpsertPricingTx(tx *sql.Tx, tourID int64, d *model.TourDraft) error {
	exists, err := rowExistsTx(tx, "tour_pricing", tourID)
	if err != nil {
		return err
	}

	if !exists {
		_, err := tx.Exec(`
			INSERT INTO tour_pricing (
				tour_id, net_rate_adult, net_rate_child, net_rate_private,
				shared_factor, private_factor,
				min_pax_shared, min_pax_private, infant_free_age, extra_fees
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, tourID, d.NetRateAdult, d.NetRateChild, d.NetRatePrivate,
			factorOrDefault(d.SharedFactor), factorOrDefault(d.PrivateFactor),
			d.MinPaxShared, d.MinPaxPrivate, d.InfantFreeAge, stringOrEmpty(d.ExtraFees))
		if err != nil {
			return fmt.Errorf("failed to insert pricing: %w", err)
		}
		return nil
	}

	updates := map[string]interface{}{}
	putFloat(updates, "net_rate_adult", d.NetRateAdult)
	putFloat(updates, "net_rate_child", d.NetRateChild)
	putFloat(updates, "net_rate_private", d.NetRatePrivate)
	putFloat(updates, "shared_factor", d.SharedFactor)
	putFloat(updates, "private_factor", d.PrivateFactor)
	putInt(updates, "min_pax_shared", d.MinPaxShared)
	putInt(updates, "min_pax_private", d.MinPaxPrivate)
	putInt(updates, "infant_free_age", d.InfantFreeAge)
	putString(updates, "extra_fees", d.ExtraFees)
	return updateSubRecordTx(tx, "tour_pricing", tourID, updates)
}

// UpsertLogisticsTx 写入行程子记录
func UpsertLogisticsTx(tx *sql.Tx, tourID int64, d *model.TourDraft) error {
	exists, err := rowExistsTx(tx, "tour_logistics", tourID)
	if err != nil {
		return err
	}

	if !exists {
		_, err := tx.Exec(`
			INSERT INTO tour_logistics (
				tour_id, duration, operating_days, cancellation_policy, meeting_point, pickup_info
			) VALUES (?, ?, ?, ?, ?, ?)
		`, tourID, stringOrEmpty(d.Duration), stringOrEmpty(d.OperatingDays),
			stringOrEmpty(d.CancellationPolicy), stringOrEmpty(d.MeetingPoint), stringOrEmpty(d.PickupInfo))
		if err != nil {
			return fmt.Errorf("failed to insert logistics: %w", err)
		}
		return nil
	}

	updates := map[string]interface{}{}
	putString(updates, "duration", d.Duration)
	putString(updates, "operating_days", d.OperatingDays)
	putString(updates, "cancellation_policy", d.CancellationPolicy)
	putString(updates, "meeting_point", d.MeetingPoint)
	putString(updates, "pickup_info", d.PickupInfo)
	return updateSubRecordTx(tx, "tour_logistics", tourID, updates)
}

// UpsertAssetsTx 写入素材子记录
func UpsertAssetsTx(tx *sql.Tx, tourID int64, d *model.TourDraft) error {
	exists, err := rowExistsTx(tx, "tour_assets", tourID)
	if err != nil {
		return err
	}

	if !exists {
		_, err := tx.Exec(`
			INSERT INTO tour_assets (tour_id, picture_url, landing_url, storytelling_url, notes)
			VALUES (?, ?, ?, ?, ?)
		`, tourID, stringOrEmpty(d.PictureURL), stringOrEmpty(d.LandingURL),
			stringOrEmpty(d.StorytellingURL), stringOrEmpty(d.Notes))
		if err != nil {
			return fmt.Errorf("failed to insert assets: %w", err)
		}
		return nil
	}

	updates := map[string]interface{}{}
	putString(updates, "picture_url", d.PictureURL)
	putString(updates, "landing_url", d.LandingURL)
	putString(updates, "storytelling_url", d.StorytellingURL)
	putString(updates, "notes", d.Notes)
	return updateSubRecordTx(tx, "tour_assets", tourID, updates)
}

// UpsertDistributionTx 写入渠道分销子记录
func UpsertDistributionTx(tx *sql.Tx, tourID int64, d *model.TourDraft) error {
	exists, err := rowExistsTx(tx, "tour_distribution", tourID)
	if err != nil {
		return err
	}

	if !exists {
		_, err := tx.Exec(`
			INSERT INTO tour_distribution (
				tour_id, viator_id, viator_status, expedia_id, expedia_status,
				project_expedition_id, project_expedition_status, klook_id, klook_status,
				marketplace_b2b_markup
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, tourID, stringOrEmpty(d.ViatorID), stringOrEmpty(d.ViatorStatus),
			stringOrEmpty(d.ExpediaID), stringOrEmpty(d.ExpediaStatus),
			stringOrEmpty(d.ProjectExpeditionID), stringOrEmpty(d.ProjectExpeditionStatus),
			stringOrEmpty(d.KlookID), stringOrEmpty(d.KlookStatus),
			d.MarketplaceB2BMarkup)
		if err != nil {
			return fmt.Errorf("failed to insert distribution: %w", err)
		}
		return nil
	}

	updates := map[string]interface{}{}
	putString(updates, "viator_id", d.ViatorID)
	putString(updates, "viator_status", d.ViatorStatus)
	putString(updates, "expedia_id", d.ExpediaID)
	putString(updates, "expedia_status", d.ExpediaStatus)
	putString(updates, "project_expedition_id", d.ProjectExpeditionID)
	putString(updates, "project_expedition_status", d.ProjectExpeditionStatus)
	putString(updates, "klook_id", d.KlookID)
	putString(updates, "klook_status", d.KlookStatus)
	putFloat(updates, "marketplace_b2b_markup", d.MarketplaceB2BMarkup)
	return updateSubRecordTx(tx, "tour_distribution", tourID, updates)
}

// GetPricing 读取价格子记录，不存在返回 nil
func (s *Store) GetPricing(tourID int64) (*model.Pricing, error) {
	p := &model.Pricing{TourID: tourID}
	var netAdult, netChild, netPrivate, sharedFactor, privateFactor sql.NullFloat64
	var minShared, minPrivate, infantAge sql.NullInt64
	err := s.db.QueryRow(`
		SELECT net_rate_adult, net_rate_child, net_rate_private,
			shared_factor, private_factor,
			min_pax_shared, min_pax_private, infant_free_age, extra_fees
		FROM tour_pricing WHERE tour_id = ?
	`, tourID).Scan(&netAdult, &netChild, &netPrivate, &sharedFactor, &privateFactor,
		&minShared, &minPrivate, &infantAge, &p.ExtraFees)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan pricing: %w", err)
	}
	p.NetRateAdult = nullFloatPtr(netAdult)
	p.NetRateChild = nullFloatPtr(netChild)
	p.NetRatePrivate = nullFloatPtr(netPrivate)
	p.SharedFactor = nullFloatPtr(sharedFactor)
	p.PrivateFactor = nullFloatPtr(privateFactor)
	p.MinPaxShared = nullIntPtr(minShared)
	p.MinPaxPrivate = nullIntPtr(minPrivate)
	p.InfantFreeAge = nullIntPtr(infantAge)
	return p, nil
}

// GetLogistics 读取行程子记录，不存在返回 nil
func (s *Store) GetLogistics(tourID int64) (*model.Logistics, error) {
	l := &model.Logistics{TourID: tourID}
	err := s.db.QueryRow(`
		SELECT duration, operating_days, cancellation_policy, meeting_point, pickup_info
		FROM tour_logistics WHERE tour_id = ?
	`, tourID).Scan(&l.Duration, &l.OperatingDays, &l.CancellationPolicy, &l.MeetingPoint, &l.PickupInfo)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan logistics: %w", err)
	}
	return l, nil
}

// GetAssets 读取素材子记录，不存在返回 nil
func (s *Store) GetAssets(tourID int64) (*model.Assets, error) {
	a := &model.Assets{TourID: tourID}
	err := s.db.QueryRow(`
		SELECT picture_url, landing_url, storytelling_url, notes
		FROM tour_assets WHERE tour_id = ?
	`, tourID).Scan(&a.PictureURL, &a.LandingURL, &a.StorytellingURL, &a.Notes)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan assets: %w", err)
	}
	return a, nil
}

// GetDistribution 读取渠道子记录，不存在返回 nil
func (s *Store) GetDistribution(tourID int64) (*model.Distribution, error) {
	d := &model.Distribution{TourID: tourID}
	var markup sql.NullFloat64
	err := s.db.QueryRow(`
		SELECT viator_id, viator_status, expedia_id, expedia_status,
			project_expedition_id, project_expedition_status, klook_id, klook_status,
			marketplace_b2b_markup
		FROM tour_distribution WHERE tour_id = ?
	`, tourID).Scan(&d.ViatorID, &d.ViatorStatus, &d.ExpediaID, &d.ExpediaStatus,
		&d.ProjectExpeditionID, &d.ProjectExpeditionStatus, &d.KlookID, &d.KlookStatus, &markup)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan distribution: %w", err)
	}
	d.MarketplaceB2BMarkup = nullFloatPtr(markup)
	return d, nil
}

// GetTourRecord 读取产品及全部子记录的聚合视图
func (s *Store) GetTourRecord(tourID int64) (*model.TourRecord, error) {
	tour, err := s.GetTourByID(tourID)
	if err != nil {
		return nil, err
	}
	if tour == nil {
		return nil, nil
	}

	record := &model.TourRecord{Tour: *tour}
	if record.Pricing, err = s.GetPricing(tourID); err != nil {
		return nil, err
	}
	if record.Logistics, err = s.GetLogistics(tourID); err != nil {
		return nil, err
	}
	if record.Assets, err = s.GetAssets(tourID); err != nil {
		return nil, err
	}
	if record.Distribution, err = s.GetDistribution(tourID); err != nil {
		return nil, err
	}
	if record.Audit, err = s.GetAudit(tourID); err != nil {
		return nil, err
	}
	return record, nil
}

// rowExistsTx 子记录是否已存在
func rowExistsTx(tx *sql.Tx, table string, tourID int64) (bool, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE tour_id = ?", table)
	if err := tx.QueryRow(query, tourID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return count > 0, nil
}

// updateSubRecordTx 子记录局部更新
func updateSubRecordTx(tx *sql.Tx, table string, tourID int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	for field, value := range updates {
		setClauses = append(setClauses, field+" = ?")
		args = append(args, value)
	}
	args = append(args, tourID)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE tour_id = ?", table, strings.Join(setClauses, ", "))
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	return nil
}

func factorOrDefault(f *float64) float64 {
	if f == nil {
		return scoring.DefaultFactor
	}
	return *f
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func putString(updates map[string]interface{}, col string, v *string) {
	if v != nil {
		updates[col] = *v
	}
}

func putFloat(updates map[string]interface{}, col string, v *float64) {
	if v != nil {
		updates[col] = *v
	}
}

func putInt(updates map[string]interface{}, col string, v *int64) {
	if v != nil {
		updates[col] = *v
	}
}

func nullFloatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullIntPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
