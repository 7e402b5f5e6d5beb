package importer

import (
	"strings"

	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/store"
)

// SupplierResolver 供应商解析器，批内按名称缓存避免重复查库/重复创建
// 跨批次竞争由 suppliers.name 唯一索引兜底（输家回退为按名查询）
type SupplierResolver struct {
	store *store.Store
	cache map[string]int64
}

// NewSupplierResolver 创建批内供应商解析器
func NewSupplierResolver(st *store.Store) *SupplierResolver {
	return &SupplierResolver{
		store: st,
		cache: make(map[string]int64),
	}
}

// Resolve 按名称查找或创建供应商，返回 id 以及是否为本次新建
func (r *SupplierResolver) Resolve(name string) (id int64, isNew bool, err error) {
	name = strings.TrimSpace(name)
	if cached, ok := r.cache[name]; ok {
		return cached, false, nil
	}

	id, isNew, err = r.store.FindOrCreateSupplier(name)
	if err != nil {
		return 0, false, err
	}
	r.cache[name] = id
	return id, isNew, nil
}
