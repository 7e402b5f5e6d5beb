package scoring

import (
	"strings"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
)

// 每个活跃渠道 +20；B2B 加价 +20；四渠道 + 加价共计正好 100
const channelWeight = 20

// 渠道状态包含任一关键词即视为活跃
var activeStatusKeywords = []string{"active", "published", "live", "enabled"}

// channelActive 渠道状态是否为活跃（不区分大小写的包含匹配）
func channelActive(status string) bool {
	s := strings.ToLower(status)
	for _, kw := range activeStatusKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// OTAScore 计算渠道活跃度得分，恒在 [0,100] 区间
func OTAScore(d *model.Distribution) int {
	if d == nil {
		return 0
	}

	score := 0
	for _, status := range []string{d.ViatorStatus, d.ExpediaStatus, d.ProjectExpeditionStatus, d.KlookStatus} {
		if channelActive(status) {
			score += channelWeight
		}
	}
	if d.MarketplaceB2BMarkup != nil && *d.MarketplaceB2BMarkup > 0 {
		score += channelWeight
	}

	// 正常路径已封顶 100，夹取仅作兜底
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// GlobalSuitability 全球分销适配判定
// 门槛：健康度必须 HEALTHY；取消政策必须非空；若有价格则不得平价或亏本销售
func GlobalSuitability(health model.HealthStatus, pricing *model.Pricing, computed *model.ComputedPricing, cxlPolicy string) bool {
	if health != model.HealthHealthy {
		return false
	}
	if strings.TrimSpace(cxlPolicy) == "" {
		return false
	}
	if pricing != nil && computed != nil &&
		pricing.NetRateAdult != nil && computed.SuggestedPvpAdult != nil &&
		*computed.SuggestedPvpAdult <= *pricing.NetRateAdult {
		// 负价差保护：建议售价不高于净价等于亏本卖
		return false
	}
	return true
}
