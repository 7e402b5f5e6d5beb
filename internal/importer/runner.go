package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/metrics"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/parser"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/scoring"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/store"
)

// Runner 导入批处理器：行按序驱动 解析→映射→供应商解析→落库→评分重算
type Runner struct {
	store *store.Store
	log   *zap.Logger
}

// NewRunner 创建批处理器
func NewRunner(st *store.Store, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{store: st, log: log}
}

// Options 单次导入的输入
type Options struct {
	// Context 消费方的生命周期：取消后事件停止投递，写入照常完成
	Context   context.Context
	Input     io.Reader
	Filename  string
	Mapping   parser.ColumnMapping
	HeaderRow int // 表头行下标（0 起）
}

// Run 启动导入，返回进度事件通道
// 投递是阻塞的：慢消费方只会让进度事件积压，不会丢事件，
// complete/error 终态事件因此对在线消费方有送达保证；
// 消费方断开（Context 取消）后事件被丢弃，写入不受影响
func (r *Runner) Run(opts Options) <-chan ProgressEvent {
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	ch := make(chan ProgressEvent, 256)

	go func() {
		defer close(ch)
		r.run(opts, ch)
	}()

	return ch
}

// run 执行导入主循环
func (r *Runner) run(opts Options, ch chan ProgressEvent) {
	rows, err := parser.ReadTable(opts.Input)
	if err != nil {
		// 流级错误：整批失败，一次上报，不处理任何行
		r.log.Error("import stream decode failed", zap.String("filename", opts.Filename), zap.Error(err))
		r.send(opts.Context, ch, ErrorEvent(fmt.Sprintf("failed to decode input: %v", err)))
		return
	}

	dataRows := parser.DataRows(rows, opts.HeaderRow)
	total := len(dataRows)

	batchID := uuid.NewString()
	if err := r.store.CreateImportBatch(batchID, opts.Filename); err != nil {
		r.log.Warn("failed to record import batch", zap.Error(err))
	}
	metrics.ImportBatchesTotal.Inc()

	r.send(opts.Context, ch, StartEvent(total))
	r.log.Info("import started",
		zap.String("batch_id", batchID),
		zap.String("filename", opts.Filename),
		zap.Int("total_rows", total))

	mapper := parser.NewRowMapper(opts.Mapping)
	resolver := NewSupplierResolver(r.store)
	writer := NewWriter(r.store)

	updated := 0
	errorCount := 0

	for i, cells := range dataRows {
		rowNum := i + 1 // 行号按 1 起计

		if parser.IsBlankRow(cells) {
			r.send(opts.Context, ch, StepEvent(rowNum, total))
			continue
		}

		outcome := r.processRow(mapper, resolver, writer, cells)
		metrics.ImportRowsTotal.WithLabelValues(string(outcome.Kind)).Inc()

		switch outcome.Kind {
		case model.RowCreated, model.RowUpdated:
			updated++
		case model.RowSkipped:
			errorCount++
			msg := fmt.Sprintf("row %d skipped: %s (cells: %s)", rowNum, outcome.Reason, leadingCells(cells))
			r.log.Warn("import row skipped",
				zap.Int("row", rowNum),
				zap.String("reason", outcome.Reason))
			r.send(opts.Context, ch, LogEvent(msg))
		case model.RowFailed:
			errorCount++
			msg := fmt.Sprintf("row %d failed: %v (cells: %s)", rowNum, outcome.Err, leadingCells(cells))
			r.log.Error("import row failed",
				zap.Int("row", rowNum),
				zap.Error(outcome.Err))
			r.send(opts.Context, ch, LogEvent(msg))
		}

		r.send(opts.Context, ch, StepEvent(rowNum, total))
	}

	if err := r.store.CompleteImportBatch(batchID, total, updated, errorCount, "completed"); err != nil {
		r.log.Warn("failed to complete import batch", zap.Error(err))
	}

	r.log.Info("import completed",
		zap.String("batch_id", batchID),
		zap.Int("updated", updated),
		zap.Int("errors", errorCount))
	r.send(opts.Context, ch, CompleteEvent(updated, errorCount))
}

// processRow 处理单行，任何失败都折叠为 RowOutcome，绝不向上抛出
func (r *Runner) processRow(mapper *parser.RowMapper, resolver *SupplierResolver, writer *Writer, cells []string) model.RowOutcome {
	draft, err := mapper.MapRow(cells)
	if err != nil {
		if errors.Is(err, parser.ErrRowRejected) {
			return model.RowOutcome{Kind: model.RowSkipped, Reason: err.Error()}
		}
		return model.RowOutcome{Kind: model.RowFailed, Err: err}
	}

	// 倍率越界属于行级校验错误：拒绝整行，而不是带病落库
	if reason := validateFactors(draft); reason != "" {
		return model.RowOutcome{Kind: model.RowSkipped, Reason: reason}
	}

	if draft.SupplierName != "" {
		supplierID, _, err := resolver.Resolve(draft.SupplierName)
		if err != nil {
			return model.RowOutcome{Kind: model.RowFailed, Err: fmt.Errorf("resolve supplier: %w", err)}
		}
		draft.SupplierID = &supplierID
	}

	tourID, created, err := writer.WriteRow(draft)
	if err != nil {
		return model.RowOutcome{Kind: model.RowFailed, Err: err}
	}

	if err := RecomputeAudit(r.store, tourID); err != nil {
		return model.RowOutcome{Kind: model.RowFailed, Err: fmt.Errorf("recompute audit: %w", err)}
	}

	if created {
		return model.RowOutcome{Kind: model.RowCreated}
	}
	return model.RowOutcome{Kind: model.RowUpdated}
}

// RecomputeAudit 重算三段派生评分并整体写回
// 健康度 → 价格 → 分销三个纯函数由此处显式编排，Audit 永远是其余记录的纯函数
func RecomputeAudit(st *store.Store, tourID int64) error {
	record, err := st.GetTourRecord(tourID)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("tour %d not found", tourID)
	}

	health := scoring.AssessHealth(record.Tour, record.Pricing, record.Logistics, record.Assets)

	computed, err := scoring.ComputePricing(record.Pricing)
	if err != nil {
		return err
	}

	otaScore := scoring.OTAScore(record.Distribution)

	cxlPolicy := ""
	if record.Logistics != nil {
		cxlPolicy = record.Logistics.CancellationPolicy
	}
	suitable := scoring.GlobalSuitability(health.Status, record.Pricing, computed, cxlPolicy)

	return st.UpdateAuditResult(tourID, health.Status, health.Score, health.Issues, otaScore, suitable)
}

// validateFactors 导入侧倍率校验，返回拒绝原因，空串表示通过
func validateFactors(draft *model.TourDraft) string {
	if draft.SharedFactor != nil && (*draft.SharedFactor < scoring.FactorMin || *draft.SharedFactor > scoring.FactorMax) {
		return fmt.Sprintf("shared_factor %.2f out of range [%.1f, %.1f]", *draft.SharedFactor, scoring.FactorMin, scoring.FactorMax)
	}
	if draft.PrivateFactor != nil && (*draft.PrivateFactor < scoring.FactorMin || *draft.PrivateFactor > scoring.FactorMax) {
		return fmt.Sprintf("private_factor %.2f out of range [%.1f, %.1f]", *draft.PrivateFactor, scoring.FactorMin, scoring.FactorMax)
	}
	return ""
}

// leadingCells 取行首若干原始单元格用于诊断日志
func leadingCells(cells []string) string {
	n := len(cells)
	if n > 4 {
		n = 4
	}
	return strings.Join(cells[:n], " | ")
}

// send 阻塞推送：事件按序送达在线消费方，complete/error 终态不会被丢弃；
// ctx 取消（消费方断开）后停止投递，后续事件直接丢弃
func (r *Runner) send(ctx context.Context, ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	case <-ctx.Done():
	}
}
