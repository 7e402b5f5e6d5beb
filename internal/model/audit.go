package model

import "time"

// HealthStatus 健康度终态
type HealthStatus string

const (
	HealthHealthy       HealthStatus = "HEALTHY"
	HealthIncomplete    HealthStatus = "INCOMPLETE"
	HealthAuditRequired HealthStatus = "AUDIT_REQUIRED"
)

// Audit 派生评分记录：永远由规则引擎整体重算，不允许手工编辑
type Audit struct {
	TourID         int64        `json:"tourId"`
	HealthStatus   HealthStatus `json:"healthStatus"`
	HealthScore    int          `json:"healthScore"`
	Issues         []string     `json:"issues"`
	OTAScore       int          `json:"otaScore"`
	GlobalSuitable bool         `json:"globalSuitable"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// ComputedPricing 读取时计算的派生价格（不落库，不会与净价漂移）
type ComputedPricing struct {
	SuggestedPvpAdult   *float64 `json:"suggestedPvpAdult"`
	SuggestedPvpChild   *float64 `json:"suggestedPvpChild"`
	SuggestedPvpPrivate *float64 `json:"suggestedPvpPrivate"`
	PerPaxCost          *float64 `json:"perPaxCost"`
}
