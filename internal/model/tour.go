package model

import "time"

// Tour 标准化后的旅游产品主记录
type Tour struct {
	ID         int64     `json:"id"`
	BokunID    *int64    `json:"bokunId"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	SupplierID *int64    `json:"supplierId"`
	Audited    bool      `json:"audited"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Pricing 价格子记录（净价与倍率，派生价不落库）
type Pricing struct {
	TourID         int64    `json:"tourId"`
	NetRateAdult   *float64 `json:"netRateAdult"`
	NetRateChild   *float64 `json:"netRateChild"`
	NetRatePrivate *float64 `json:"netRatePrivate"`
	SharedFactor   *float64 `json:"sharedFactor"`
	PrivateFactor  *float64 `json:"privateFactor"`
	MinPaxShared   *int64   `json:"minPaxShared"`
	MinPaxPrivate  *int64   `json:"minPaxPrivate"`
	InfantFreeAge  *int64   `json:"infantFreeAge"`
	ExtraFees      string   `json:"extraFees"`
}

// Logistics 行程子记录
type Logistics struct {
	TourID             int64  `json:"tourId"`
	Duration           string `json:"duration"`
	OperatingDays      string `json:"operatingDays"`
	CancellationPolicy string `json:"cancellationPolicy"`
	MeetingPoint       string `json:"meetingPoint"`
	PickupInfo         string `json:"pickupInfo"`
}

// Assets 素材子记录
type Assets struct {
	TourID          int64  `json:"tourId"`
	PictureURL      string `json:"pictureUrl"`
	LandingURL      string `json:"landingUrl"`
	StorytellingURL string `json:"storytellingUrl"`
	Notes           string `json:"notes"`
}

// Distribution 渠道分销子记录（四个固定 OTA 渠道 + B2B 加价标记）
type Distribution struct {
	TourID                  int64    `json:"tourId"`
	ViatorID                string   `json:"viatorId"`
	ViatorStatus            string   `json:"viatorStatus"`
	ExpediaID               string   `json:"expediaId"`
	ExpediaStatus           string   `json:"expediaStatus"`
	ProjectExpeditionID     string   `json:"projectExpeditionId"`
	ProjectExpeditionStatus string   `json:"projectExpeditionStatus"`
	KlookID                 string   `json:"klookId"`
	KlookStatus             string   `json:"klookStatus"`
	MarketplaceB2BMarkup    *float64 `json:"marketplaceB2bMarkup"`
}

// TourRecord 主记录及全部子记录的聚合视图（子记录可为空）
type TourRecord struct {
	Tour         Tour          `json:"tour"`
	Pricing      *Pricing      `json:"pricing"`
	Logistics    *Logistics    `json:"logistics"`
	Assets       *Assets       `json:"assets"`
	Distribution *Distribution `json:"distribution"`
	Audit        *Audit        `json:"audit"`
}

// TourDraft 行映射产出的草稿：指针为 nil 表示该列未映射或单元格为空，
// 更新时保留既有值，创建时使用默认值
type TourDraft struct {
	BokunID  *int64
	Name     string
	Location *string
	Audited  *bool
	Active   *bool

	SupplierName string
	SupplierID   *int64

	NetRateAdult   *float64
	NetRateChild   *float64
	NetRatePrivate *float64
	SharedFactor   *float64
	PrivateFactor  *float64
	MinPaxShared   *int64
	MinPaxPrivate  *int64
	InfantFreeAge  *int64
	ExtraFees      *string

	Duration           *string
	OperatingDays      *string
	CancellationPolicy *string
	MeetingPoint       *string
	PickupInfo         *string

	PictureURL      *string
	LandingURL      *string
	StorytellingURL *string
	Notes           *string

	ViatorID                *string
	ViatorStatus            *string
	ExpediaID               *string
	ExpediaStatus           *string
	ProjectExpeditionID     *string
	ProjectExpeditionStatus *string
	KlookID                 *string
	KlookStatus             *string
	MarketplaceB2BMarkup    *float64

	// CustomAttributes 按定义 key 收集的自定义字段原始值
	CustomAttributes map[string]string
}

// HasPricing 草稿是否携带任一价格字段（稀疏子记录只在有值时落库）
func (d *TourDraft) HasPricing() bool {
	return d.NetRateAdult != nil || d.NetRateChild != nil || d.NetRatePrivate != nil ||
		d.SharedFactor != nil || d.PrivateFactor != nil ||
		d.MinPaxShared != nil || d.MinPaxPrivate != nil ||
		d.InfantFreeAge != nil || d.ExtraFees != nil
}

// HasLogistics 草稿是否携带任一行程字段
func (d *TourDraft) HasLogistics() bool {
	return d.Duration != nil || d.OperatingDays != nil || d.CancellationPolicy != nil ||
		d.MeetingPoint != nil || d.PickupInfo != nil
}

// HasAssets 草稿是否携带任一素材字段
func (d *TourDraft) HasAssets() bool {
	return d.PictureURL != nil || d.LandingURL != nil || d.StorytellingURL != nil || d.Notes != nil
}

// HasDistribution 草稿是否携带任一渠道字段
func (d *TourDraft) HasDistribution() bool {
	return d.ViatorID != nil || d.ViatorStatus != nil ||
		d.ExpediaID != nil || d.ExpediaStatus != nil ||
		d.ProjectExpeditionID != nil || d.ProjectExpeditionStatus != nil ||
		d.KlookID != nil || d.KlookStatus != nil ||
		d.MarketplaceB2BMarkup != nil
}
