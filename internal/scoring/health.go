package scoring

import "github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"

// HealthResult 健康度评估结果，issues 的顺序与检查顺序一致（可测试契约）
type HealthResult struct {
	Status model.HealthStatus `json:"status"`
	Issues []string           `json:"issues"`
	Score  int                `json:"score"`
}

// 各检查项的固定扣分权重
const (
	deductMissingPricing      = 30
	deductNetAdultNotPositive = 20
	deductSharedFactorLow     = 10
	deductMissingAssets       = 30
	deductMissingPicture      = 15
	deductMissingStorytelling = 15
	deductMissingLogistics    = 20
	deductMissingDuration     = 5
	deductMissingCxlPolicy    = 10
	deductMissingMeetingPoint = 5
)

// AssessHealth 评估单个产品的完整度/审核健康度
// 审核开关优先于一切：未审核直接判 AUDIT_REQUIRED、得分归零、跳过后续检查
// （上游实现即如此；是否属于刻意设计待产品确认，这里保持原语义）
func AssessHealth(tour model.Tour, pricing *model.Pricing, logistics *model.Logistics, assets *model.Assets) HealthResult {
	if !tour.Audited {
		return HealthResult{
			Status: model.HealthAuditRequired,
			Issues: []string{"not audited"},
			Score:  0,
		}
	}

	score := 100
	issues := make([]string, 0, 8)

	if pricing == nil {
		score -= deductMissingPricing
		issues = append(issues, "missing pricing information")
	} else {
		if pricing.NetRateAdult == nil || *pricing.NetRateAdult <= 0 {
			score -= deductNetAdultNotPositive
			issues = append(issues, "net adult rate is not positive")
		}
		if pricing.SharedFactor != nil && *pricing.SharedFactor < 1.0 {
			score -= deductSharedFactorLow
			issues = append(issues, "shared factor below minimum")
		}
	}

	if assets == nil {
		score -= deductMissingAssets
		issues = append(issues, "missing assets information")
	} else {
		if assets.PictureURL == "" {
			score -= deductMissingPicture
			issues = append(issues, "missing picture URL")
		}
		if assets.StorytellingURL == "" {
			score -= deductMissingStorytelling
			issues = append(issues, "missing storytelling URL")
		}
	}

	if logistics == nil {
		score -= deductMissingLogistics
		issues = append(issues, "missing logistics information")
	} else {
		if logistics.Duration == "" {
			score -= deductMissingDuration
			issues = append(issues, "missing duration")
		}
		if logistics.CancellationPolicy == "" {
			score -= deductMissingCxlPolicy
			issues = append(issues, "missing cancellation policy")
		}
		// 集合点仅为建议项：扣分但不计入 issues，不阻塞 HEALTHY
		if logistics.MeetingPoint == "" {
			score -= deductMissingMeetingPoint
		}
	}

	if score < 0 {
		score = 0
	}

	status := model.HealthHealthy
	if len(issues) > 0 {
		status = model.HealthIncomplete
	}

	return HealthResult{
		Status: status,
		Issues: issues,
		Score:  score,
	}
}
