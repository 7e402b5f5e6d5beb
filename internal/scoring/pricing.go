package scoring

import (
	"errors"
	"fmt"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
)

// 倍率允许区间 [1.0, 2.0]；导入侧用默认值兜底，计算侧严格校验
const (
	FactorMin = 1.0
	FactorMax = 2.0
)

// DefaultFactor 创建时共享/私营倍率的默认值
const DefaultFactor = 1.5

// ErrFactorOutOfRange 倍率越界
var ErrFactorOutOfRange = errors.New("factor out of range")

// ErrMinPaxNotPositive 人数下限非正
var ErrMinPaxNotPositive = errors.New("min pax must be positive")

// SuggestedPrice 建议公开售价 = 净价 × 倍率
func SuggestedPrice(net, factor float64) (float64, error) {
	if factor < FactorMin || factor > FactorMax {
		return 0, fmt.Errorf("%w: %.2f not in [%.1f, %.1f]", ErrFactorOutOfRange, factor, FactorMin, FactorMax)
	}
	return net * factor, nil
}

// PerPaxCost 私营团人均成本 = 私营净价 / 最低人数
func PerPaxCost(privateNetRate float64, minPax int64) (float64, error) {
	if minPax <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrMinPaxNotPositive, minPax)
	}
	return privateNetRate / float64(minPax), nil
}

// ComputePricing 计算产品的全部派生价格
// 纯函数，按需重算，绝不落库——派生价不可能与净价漂移
func ComputePricing(p *model.Pricing) (*model.ComputedPricing, error) {
	out := &model.ComputedPricing{}
	if p == nil {
		return out, nil
	}

	sharedFactor := DefaultFactor
	if p.SharedFactor != nil {
		sharedFactor = *p.SharedFactor
	}
	privateFactor := DefaultFactor
	if p.PrivateFactor != nil {
		privateFactor = *p.PrivateFactor
	}

	if p.NetRateAdult != nil {
		v, err := SuggestedPrice(*p.NetRateAdult, sharedFactor)
		if err != nil {
			return nil, err
		}
		out.SuggestedPvpAdult = &v
	}
	if p.NetRateChild != nil {
		v, err := SuggestedPrice(*p.NetRateChild, sharedFactor)
		if err != nil {
			return nil, err
		}
		out.SuggestedPvpChild = &v
	}
	if p.NetRatePrivate != nil {
		v, err := SuggestedPrice(*p.NetRatePrivate, privateFactor)
		if err != nil {
			return nil, err
		}
		out.SuggestedPvpPrivate = &v
	}
	if p.NetRatePrivate != nil && p.MinPaxPrivate != nil {
		v, err := PerPaxCost(*p.NetRatePrivate, *p.MinPaxPrivate)
		if err != nil {
			return nil, err
		}
		out.PerPaxCost = &v
	}

	return out, nil
}
