package parser

import "strings"

// 列映射使用的标准字段 key
const (
	FieldBokunID      = "bokun_id"
	FieldProductName  = "product_name"
	FieldSupplierName = "supplier_name"
	FieldLocation     = "location"
	FieldAudited      = "audited"
	FieldActive       = "active"

	FieldNetRateAdult   = "net_rate_adult"
	FieldNetRateChild   = "net_rate_child"
	FieldNetRatePrivate = "net_rate_private"
	FieldSharedFactor   = "shared_factor"
	FieldPrivateFactor  = "private_factor"
	FieldMinPaxShared   = "min_pax_shared"
	FieldMinPaxPrivate  = "min_pax_private"
	FieldInfantFreeAge  = "infant_free_age"
	FieldExtraFees      = "extra_fees"

	FieldDuration           = "duration"
	FieldOperatingDays      = "operating_days"
	FieldCancellationPolicy = "cancellation_policy"
	FieldMeetingPoint       = "meeting_point"
	FieldPickupInfo         = "pickup_info"

	FieldPictureURL      = "picture_url"
	FieldLandingURL      = "landing_url"
	FieldStorytellingURL = "storytelling_url"
	FieldNotes           = "notes"

	FieldViatorID                = "viator_id"
	FieldViatorStatus            = "viator_status"
	FieldExpediaID               = "expedia_id"
	FieldExpediaStatus           = "expedia_status"
	FieldProjectExpeditionID     = "project_expedition_id"
	FieldProjectExpeditionStatus = "project_expedition_status"
	FieldKlookID                 = "klook_id"
	FieldKlookStatus             = "klook_status"
	FieldMarketplaceB2BMarkup    = "marketplace_b2b_markup"

	// CustomFieldPrefix 自定义字段 key 前缀，后缀为定义 key
	CustomFieldPrefix = "custom_"
)

// ColumnMapping 标准字段 key 到列下标的映射，-1 或缺失表示忽略
type ColumnMapping map[string]int

// Cell 按映射取单元格原始值并去掉首尾空白，未映射或越界返回空串
func (m ColumnMapping) Cell(cells []string, field string) string {
	idx, ok := m[field]
	if !ok || idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// CustomKeys 列出映射中的自定义字段定义 key
func (m ColumnMapping) CustomKeys() []string {
	keys := make([]string, 0, 4)
	for field := range m {
		if strings.HasPrefix(field, CustomFieldPrefix) && len(field) > len(CustomFieldPrefix) {
			keys = append(keys, strings.TrimPrefix(field, CustomFieldPrefix))
		}
	}
	return keys
}

// IsBlankRow 整行是否为空（全部单元格去空白后为空）
func IsBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
