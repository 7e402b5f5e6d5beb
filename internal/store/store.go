package store

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// sqlite 连接参数：
// _foreign_keys 保证删除产品时级联清理价格/渠道等子记录；
// _busy_timeout 让导入期间的 API 读请求等待写锁而不是立刻报 busy
const dsnOptions = "?_foreign_keys=on&_busy_timeout=5000"

// Store 产品目录的 SQLite 存储层
//
// 导入器逐行提交事务，单连接串行化所有写入，
// 避免批量导入和审核重算之间的 SQLITE_BUSY 竞争
type Store struct {
	db *sql.DB
}

// New 打开（或创建）dbPath 处的数据库并建表
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// 写入全部走同一连接
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	st := &Store{db: db}
	if err := st.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return st, nil
}

// initSchema 执行内嵌建表脚本，语句全部幂等，重启安全
func (s *Store) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := s.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BeginTx 开始事务：一个导入行的主记录 + 子记录在一个事务内落库，
// 行失败时整体回滚，不留半写状态
func (s *Store) BeginTx() (*sql.Tx, error) {
	return s.db.Begin()
}
