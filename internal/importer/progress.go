package importer

// ProgressEvent 进度事件，按行分隔 JSON 逐条推送
// type 取值: start/progress/log/complete/error，各自携带对应字段
type ProgressEvent struct {
	Type    string `json:"type"`
	Total   *int   `json:"total,omitempty"`
	Current *int   `json:"current,omitempty"`
	Message string `json:"message,omitempty"`
	Updated *int   `json:"updated,omitempty"`
	Errors  *int   `json:"errors,omitempty"`
}

// StartEvent 批次开始，携带总行数
func StartEvent(total int) ProgressEvent {
	return ProgressEvent{Type: "start", Total: &total}
}

// StepEvent 单行完成（成功或失败都推进进度）
func StepEvent(current, total int) ProgressEvent {
	return ProgressEvent{Type: "progress", Current: &current, Total: &total}
}

// LogEvent 行级诊断信息
func LogEvent(message string) ProgressEvent {
	return ProgressEvent{Type: "log", Message: message}
}

// CompleteEvent 批次结束，携带汇总计数
func CompleteEvent(updated, errors int) ProgressEvent {
	return ProgressEvent{Type: "complete", Updated: &updated, Errors: &errors}
}

// ErrorEvent 批次级错误（如字节流无法解码）
func ErrorEvent(message string) ProgressEvent {
	return ProgressEvent{Type: "error", Message: message}
}
