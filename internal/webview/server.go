// Package webview 浏览器视图：把内存页面和图表通过 HTTP/WebSocket 暴露给 Plotly 前端。
package webview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/betbot/botdash/internal/chart"
	"github.com/betbot/botdash/internal/ui"
	"github.com/betbot/botdash/pkg/ratelimit"
)

var log = logrus.WithField("module", "webview")

// Actions 浏览器里可以触发的操作
type Actions interface {
	RequestRefresh()
	RequestToggle()
}

type Config struct {
	Addr string
	// PushInterval 检查页面版本的间隔，默认 250ms
	PushInterval time.Duration
	// ActionLimit 每秒最多接受的刷新/切换请求，默认 5，负数不限
	ActionLimit int
}

// Payload 推给浏览器的完整状态
type Payload struct {
	View    ui.View        `json:"view"`
	Figures []chart.Figure `json:"figures"`
}

type Server struct {
	cfg     Config
	page    *ui.Page
	board   *chart.Board
	actions Actions

	upgrader websocket.Upgrader
	limiter  *ratelimit.Window

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	lastKey uint64
}

func New(cfg Config, page *ui.Page, board *chart.Board, actions Actions) *Server {
	if cfg.PushInterval <= 0 {
		cfg.PushInterval = 250 * time.Millisecond
	}
	if cfg.ActionLimit == 0 {
		cfg.ActionLimit = 5
	}
	return &Server{
		cfg:      cfg,
		page:     page,
		board:    board,
		actions:  actions,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		limiter:  ratelimit.NewWindow(cfg.ActionLimit, time.Second),
		clients:  make(map[*websocket.Conn]struct{}),
	}
}

func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	api := r.Group("/api")
	api.GET("/view", s.handleView)
	api.POST("/refresh", s.limitActions, s.handleRefresh)
	api.POST("/theme", s.limitActions, s.handleTheme)

	r.GET("/ws", s.wrap(s.handleWebSocket))
	r.GET("/", s.wrap(s.handleUI))
	return r
}

// wrap 把 net/http 风格的 handler 接到 gin 上
func (s *Server) wrap(h func(http.ResponseWriter, *http.Request)) gin.HandlerFunc {
	return func(c *gin.Context) {
		h(c.Writer, c.Request)
	}
}

// Run 监听 cfg.Addr 并推送更新，ctx 结束时关闭
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Router()}

	go s.pushLoop(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.closeClients()
	}()

	log.Infof("浏览器视图已启动: http://%s/", s.cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) payload() Payload {
	return Payload{View: s.page.View(), Figures: s.board.Figures()}
}

// versionKey 页面和所有图表版本之和，变化即需要推送
func versionKey(p Payload) uint64 {
	key := p.View.Version
	for _, f := range p.Figures {
		key += f.Version
	}
	return key
}

// pushLoop 轮询版本号而不是消费 Changed 信号，终端界面可以同时订阅那边
func (s *Server) pushLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcastIfChanged()
		}
	}
}

func (s *Server) broadcastIfChanged() {
	p := s.payload()
	key := versionKey(p)

	s.mu.Lock()
	defer s.mu.Unlock()
	if key == s.lastKey || len(s.clients) == 0 {
		s.lastKey = key
		return
	}
	s.lastKey = key

	data, err := json.Marshal(p)
	if err != nil {
		log.Errorf("序列化视图失败: %v", err)
		return
	}
	for conn := range s.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Debugf("推送失败，断开客户端: %v", err)
			_ = conn.Close()
			delete(s.clients, conn)
		}
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		_ = conn.Close()
		delete(s.clients, conn)
	}
}

func (s *Server) handleView(c *gin.Context) {
	c.JSON(http.StatusOK, s.payload())
}

// limitActions 连点保护
func (s *Server) limitActions(c *gin.Context) {
	if s.limiter.Allow() {
		c.Next()
		return
	}
	retry := s.limiter.RetryAfter()
	c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
}

func (s *Server) handleRefresh(c *gin.Context) {
	s.actions.RequestRefresh()
	c.JSON(http.StatusAccepted, gin.H{"ok": true})
}

func (s *Server) handleTheme(c *gin.Context) {
	s.actions.RequestToggle()
	c.JSON(http.StatusAccepted, gin.H{"ok": true})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("WebSocket 升级失败: %v", err)
		return
	}

	// 先发一份完整状态，之后由 pushLoop 增量推送
	data, err := json.Marshal(s.payload())
	if err != nil {
		_ = conn.Close()
		return
	}
	s.mu.Lock()
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	err = conn.WriteMessage(websocket.TextMessage, data)
	if err == nil {
		s.clients[conn] = struct{}{}
	}
	s.mu.Unlock()
	if err != nil {
		_ = conn.Close()
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		_ = conn.Close()
	}
	s.mu.Unlock()
}
