package model

import "time"

// 供应商档案状态
const (
	SupplierProfileIncomplete = "Incomplete Profile"
	SupplierProfileComplete   = "Complete Profile"
)

// Supplier 供应商（名称唯一，多对一被 Tour 引用）
type Supplier struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contactPerson"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Badges        string    `json:"badges"`
	ProfileStatus string    `json:"profileStatus"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CustomAttributeDef 自定义字段定义（外部注册，导入按 key 匹配）
type CustomAttributeDef struct {
	ID    int64  `json:"id"`
	Key   string `json:"key"`
	Label string `json:"label"`
}

// CustomAttributeValue 自定义字段取值，挂在单个 Tour 上
type CustomAttributeValue struct {
	TourID int64  `json:"tourId"`
	DefID  int64  `json:"defId"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}
