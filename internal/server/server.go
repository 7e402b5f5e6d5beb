package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	v1 "github.com/snchzdiegoo-art/SATConnect-sub000/internal/api/v1"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/config"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/logger"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/metrics"
	"github.com/snchzdiegoo-art/SATConnect-sub000/internal/store"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *v1.Handler
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) (*Server, error) {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite Store
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}

	sqliteStore, err := store.New(config.DBPath(dataDir))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	apiHandler := v1.NewHandler(sqliteStore, cfg)

	router := gin.New()
	router.Use(logger.Middleware())
	router.Use(metrics.Middleware())
	router.Use(gin.Recovery())

	s := &Server{
		router: router,
		store:  sqliteStore,
		api:    apiHandler,
	}

	s.setupRoutes()

	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		s.api.RegisterRoutes(api)
	}

	s.router.GET("/metrics", metrics.Handler())
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 关闭底层存储
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}

// Router 获取路由（用于测试）
func (s *Server) Router() *gin.Engine {
	return s.router
}
