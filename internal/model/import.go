package model

import "time"

// RowOutcomeKind 单行处理结果类型
type RowOutcomeKind string

const (
	RowCreated RowOutcomeKind = "created"
	RowUpdated RowOutcomeKind = "updated"
	RowSkipped RowOutcomeKind = "skipped"
	RowFailed  RowOutcomeKind = "failed"
)

// RowOutcome 单行处理结果：以标记类型代替异常向上抛出
type RowOutcome struct {
	Kind   RowOutcomeKind
	Reason string // skipped 的原因说明
	Err    error  // failed 的底层错误
}

// OK 行是否成功落库
func (o RowOutcome) OK() bool {
	return o.Kind == RowCreated || o.Kind == RowUpdated
}

// ImportBatch 一次导入运行的持久化记录
type ImportBatch struct {
	ID          string     `json:"id"`
	Filename    string     `json:"filename"`
	Status      string     `json:"status"` // processing/completed/failed
	TotalRows   int        `json:"totalRows"`
	UpdatedRows int        `json:"updatedRows"`
	ErrorRows   int        `json:"errorRows"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}
