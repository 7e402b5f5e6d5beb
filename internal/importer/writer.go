package importer

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/model"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/store"
)

// Writer 单行写入器：产品 + 子记录 + 自定义字段 + 评分行，一行一个事务
// 任意一步失败只回滚当前行，不影响前后行
type Writer struct {
	store *store.Store
	// defCache 自定义字段定义的批内缓存，nil 表示确认不存在
	defCache map[string]*model.CustomAttributeDef
}

// NewWriter 创建单行写入器
func NewWriter(st *store.Store) *Writer {
	return &Writer{
		store:    st,
		defCache: make(map[string]*model.CustomAttributeDef),
	}
}

// WriteRow 以单个事务落库整行
func (w *Writer) WriteRow(draft *model.TourDraft) (tourID int64, created bool, err error) {
	tx, err := w.store.BeginTx()
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tourID, created, err = store.UpsertTourTx(tx, draft)
	if err != nil {
		return 0, false, err
	}

	// 稀疏子记录：只有携带字段时才创建
	if draft.HasPricing() {
		if err := store.UpsertPricingTx(tx, tourID, draft); err != nil {
			return 0, false, err
		}
	}
	if draft.HasLogistics() {
		if err := store.UpsertLogisticsTx(tx, tourID, draft); err != nil {
			return 0, false, err
		}
	}
	if draft.HasAssets() {
		if err := store.UpsertAssetsTx(tx, tourID, draft); err != nil {
			return 0, false, err
		}
	}
	if draft.HasDistribution() {
		if err := store.UpsertDistributionTx(tx, tourID, draft); err != nil {
			return 0, false, err
		}
	}

	if err := w.writeCustomAttributes(tx, tourID, draft.CustomAttributes); err != nil {
		return 0, false, err
	}

	// 评分行兜底：保证重算阶段总有行可更新
	if err := store.EnsureAuditTx(tx, tourID); err != nil {
		return 0, false, err
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return tourID, created, nil
}

// writeCustomAttributes 按已注册定义写入自定义字段，未注册的 key 跳过
func (w *Writer) writeCustomAttributes(tx *sql.Tx, tourID int64, bag map[string]string) error {
	if len(bag) == 0 {
		return nil
	}

	keys := make([]string, 0, len(bag))
	for key := range bag {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		def, err := w.lookupDef(key)
		if err != nil {
			return err
		}
		if def == nil {
			continue
		}
		if err := store.UpsertCustomValueTx(tx, tourID, def.ID, bag[key]); err != nil {
			return err
		}
	}
	return nil
}

// lookupDef 带缓存的定义查找
func (w *Writer) lookupDef(key string) (*model.CustomAttributeDef, error) {
	if def, ok := w.defCache[key]; ok {
		return def, nil
	}
	def, err := w.store.GetCustomDefByKey(key)
	if err != nil {
		return nil, err
	}
	w.defCache[key] = def
	return def, nil
}
