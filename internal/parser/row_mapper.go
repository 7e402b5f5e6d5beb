package parser

import (
	"errors"
	"fmt"
	"sort"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
)

// ErrRowRejected 行级校验失败：该行跳过，批次继续
var ErrRowRejected = errors.New("row rejected")

// RowMapper 按列映射把原始行转换为标准草稿
type RowMapper struct {
	mapping ColumnMapping
}

// NewRowMapper 创建行映射器
func NewRowMapper(mapping ColumnMapping) *RowMapper {
	return &RowMapper{mapping: mapping}
}

// MapRow 映射单行，产出标准草稿和自定义字段包
// 必填约束：product_name 非空，且外部 id 能提取出数字，否则返回 ErrRowRejected
func (m *RowMapper) MapRow(cells []string) (*model.TourDraft, error) {
	name := m.mapping.Cell(cells, FieldProductName)
	if name == "" {
		return nil, fmt.Errorf("%w: missing product_name", ErrRowRejected)
	}

	rawID := m.mapping.Cell(cells, FieldBokunID)
	bokunID := ParseInt(rawID)
	if bokunID == nil {
		if rawID == "" {
			return nil, fmt.Errorf("%w: missing bokun_id", ErrRowRejected)
		}
		return nil, fmt.Errorf("%w: bokun_id %q has no numeric value", ErrRowRejected, rawID)
	}

	draft := &model.TourDraft{
		BokunID: bokunID,
		Name:    name,

		Location: m.str(cells, FieldLocation),
		Audited:  ParseBool(m.mapping.Cell(cells, FieldAudited)),
		Active:   ParseBool(m.mapping.Cell(cells, FieldActive)),

		SupplierName: m.mapping.Cell(cells, FieldSupplierName),

		NetRateAdult:   ParseCurrency(m.mapping.Cell(cells, FieldNetRateAdult)),
		NetRateChild:   ParseCurrency(m.mapping.Cell(cells, FieldNetRateChild)),
		NetRatePrivate: ParseCurrency(m.mapping.Cell(cells, FieldNetRatePrivate)),
		SharedFactor:   ParseDecimalFactor(m.mapping.Cell(cells, FieldSharedFactor)),
		PrivateFactor:  ParseDecimalFactor(m.mapping.Cell(cells, FieldPrivateFactor)),
		MinPaxShared:   ParseInt(m.mapping.Cell(cells, FieldMinPaxShared)),
		MinPaxPrivate:  ParseInt(m.mapping.Cell(cells, FieldMinPaxPrivate)),
		InfantFreeAge:  ParseInt(m.mapping.Cell(cells, FieldInfantFreeAge)),
		ExtraFees:      m.str(cells, FieldExtraFees),

		Duration:           m.str(cells, FieldDuration),
		OperatingDays:      m.str(cells, FieldOperatingDays),
		CancellationPolicy: m.str(cells, FieldCancellationPolicy),
		MeetingPoint:       m.str(cells, FieldMeetingPoint),
		PickupInfo:         m.str(cells, FieldPickupInfo),

		PictureURL:      m.str(cells, FieldPictureURL),
		LandingURL:      m.str(cells, FieldLandingURL),
		StorytellingURL: m.str(cells, FieldStorytellingURL),
		Notes:           m.str(cells, FieldNotes),

		ViatorID:                m.str(cells, FieldViatorID),
		ViatorStatus:            m.str(cells, FieldViatorStatus),
		ExpediaID:               m.str(cells, FieldExpediaID),
		ExpediaStatus:           m.str(cells, FieldExpediaStatus),
		ProjectExpeditionID:     m.str(cells, FieldProjectExpeditionID),
		ProjectExpeditionStatus: m.str(cells, FieldProjectExpeditionStatus),
		KlookID:                 m.str(cells, FieldKlookID),
		KlookStatus:             m.str(cells, FieldKlookStatus),
		MarketplaceB2BMarkup:    ParseCurrency(m.mapping.Cell(cells, FieldMarketplaceB2BMarkup)),
	}

	draft.CustomAttributes = m.customBag(cells)

	return draft, nil
}

// str 取非空字符串单元格，空值返回 nil 以便更新时保留既有值
func (m *RowMapper) str(cells []string, field string) *string {
	v := m.mapping.Cell(cells, field)
	if v == "" {
		return nil
	}
	return &v
}

// customBag 收集 custom_ 前缀映射的非空取值（改名透传，不做语义解析）
func (m *RowMapper) customBag(cells []string) map[string]string {
	keys := m.mapping.CustomKeys()
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)

	bag := make(map[string]string, len(keys))
	for _, key := range keys {
		v := m.mapping.Cell(cells, CustomFieldPrefix+key)
		if v != "" {
			bag[key] = v
		}
	}
	if len(bag) == 0 {
		return nil
	}
	return bag
}
