package dashboard

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/betbot/botdash/internal/chart"
	"github.com/betbot/botdash/internal/feed"
	"github.com/betbot/botdash/internal/metrics"
	"github.com/betbot/botdash/internal/snapshot"
	"github.com/betbot/botdash/internal/ui"
	"github.com/betbot/botdash/pkg/prefstore"
	"github.com/betbot/botdash/pkg/sigchan"
)

var log = logrus.WithField("module", "dashboard")

// ErrUnauthorized 数据源要求登录；协调器已经跳转到登录页
var ErrUnauthorized = feed.ErrUnauthorized

const (
	DefaultInterval     = 10 * time.Second
	DefaultInitialDelay = 100 * time.Millisecond
	DefaultLoginURL     = "/login"
	DefaultThemeKey     = "darkMode"

	// "last updated" 的显示格式：12 小时制，两位时分秒
	lastUpdateLayout = "03:04:05 PM"
)

// Fetcher 拉取一次快照
type Fetcher interface {
	Fetch(ctx context.Context) (*snapshot.Snapshot, error)
}

// Options 协调器依赖与参数
type Options struct {
	Fetcher Fetcher
	Surface ui.Surface
	Charts  chart.Renderer
	// Prefs 主题偏好存储；为空时使用进程内存储
	Prefs    prefstore.Store
	ThemeKey string
	LoginURL string

	Interval     time.Duration
	InitialDelay time.Duration
	// Schedule 可选的 cron 表达式（支持秒字段），非空时代替 Interval
	Schedule string

	// Rand 信号分布启发式用的随机源
	Rand RandSource
	// Now 时钟（测试可替换）
	Now func() time.Time
}

// Coordinator 轮询 + 渲染协调器。进程内构造一次，所有状态都是它的字段。
type Coordinator struct {
	opts Options

	// renderMu 串行化“写缓存 + 渲染”和主题切换；并发的 fetch 谁最后拿到锁谁的数据留下
	renderMu sync.Mutex
	snap     atomic.Pointer[snapshot.Snapshot]
	dark     atomic.Bool

	// 以下字段只在 renderMu 内访问
	indicatorCreated bool
	pnlCreated       bool
	signalCreated    bool

	refresh *sigchan.Chan
	toggle  *sigchan.Chan
}

// New 创建协调器，并从偏好存储载入主题（缺失时为浅色）
func New(opts Options) (*Coordinator, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("dashboard: fetcher is required")
	}
	if opts.Surface == nil {
		return nil, errors.New("dashboard: surface is required")
	}
	if opts.Charts == nil {
		return nil, errors.New("dashboard: chart renderer is required")
	}
	if opts.Prefs == nil {
		opts.Prefs = prefstore.NewMemoryStore()
	}
	if opts.ThemeKey == "" {
		opts.ThemeKey = DefaultThemeKey
	}
	if opts.LoginURL == "" {
		opts.LoginURL = DefaultLoginURL
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = DefaultInitialDelay
	}
	if opts.Rand == nil {
		opts.Rand = globalRand{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Coordinator{
		opts:    opts,
		refresh: sigchan.New(1),
		toggle:  sigchan.New(1),
	}

	// 没有记录时 GetBool 返回 false，即浅色
	dark, _, err := opts.Prefs.GetBool(opts.ThemeKey)
	if err != nil {
		log.Warnf("读取主题偏好失败，使用浅色: %v", err)
		dark = false
	}
	c.dark.Store(dark)
	c.applyTheme(dark)
	return c, nil
}

// Snapshot 最近一次成功拉取的快照；首次成功之前为 nil
func (c *Coordinator) Snapshot() *snapshot.Snapshot {
	return c.snap.Load()
}

// Dark 当前是否暗色主题
func (c *Coordinator) Dark() bool {
	return c.dark.Load()
}

// RequestRefresh 请求一次手动刷新（非阻塞，由 Run 处理）
func (c *Coordinator) RequestRefresh() {
	c.refresh.Emit()
}

// RequestToggle 请求切换主题（非阻塞，由 Run 处理）
func (c *Coordinator) RequestToggle() {
	c.toggle.Emit()
}

// FetchAndRender 执行一次拉取 + 渲染。
// 401 时跳转登录页并返回 ErrUnauthorized，不更新缓存也不渲染；
// 其它失败只记录日志，状态保持不变。
func (c *Coordinator) FetchAndRender(ctx context.Context) error {
	metrics.FetchTotal.Add(1)

	snap, err := c.opts.Fetcher.Fetch(ctx)
	if err == nil && snap == nil {
		err = errors.New("dashboard: fetcher returned no snapshot")
	}
	if err != nil {
		if errors.Is(err, feed.ErrUnauthorized) {
			metrics.FetchUnauthorized.Add(1)
			log.Warnf("数据源要求登录，跳转到 %s", c.opts.LoginURL)
			c.renderMu.Lock()
			c.opts.Surface.Navigate(c.opts.LoginURL)
			c.renderMu.Unlock()
			return ErrUnauthorized
		}
		metrics.FetchErrors.Add(1)
		log.Errorf("拉取看板数据失败: %v", err)
		return err
	}

	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	c.snap.Store(snap)
	c.dispatch(snap)
	c.opts.Surface.SetText(ui.LastUpdateTime, c.opts.Now().Format(lastUpdateLayout))
	return nil
}

// Render 用给定快照执行一次完整的渲染分发（不改缓存）。
// 返回被跳过的渲染器错误（*RenderError 的合并），全部成功时为 nil。
func (c *Coordinator) Render(s *snapshot.Snapshot) error {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	return joinRenderErrors(c.dispatch(s))
}

// ToggleTheme 切换主题、写入偏好存储，并用缓存的快照（没有则用空快照）重绘所有图表。
// 写入失败时界面仍然切换，错误返回给调用方。
func (c *Coordinator) ToggleTheme() error {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	dark := !c.dark.Load()
	c.dark.Store(dark)
	metrics.ThemeToggles.Add(1)

	persistErr := c.opts.Prefs.SetBool(c.opts.ThemeKey, dark)
	if persistErr != nil {
		log.Errorf("保存主题偏好失败: %v", persistErr)
	}

	c.applyTheme(dark)

	snap := c.snap.Load()
	if snap == nil {
		snap = snapshot.Empty()
	}
	for _, err := range c.renderCharts(snap) {
		log.Debugf("主题切换重绘跳过: %v", err)
	}
	return errors.Wrap(persistErr, "persist theme")
}

// Run 驱动轮询：延迟 InitialDelay 后首次拉取，之后按 Interval（或 Schedule）定时拉取，
// 同时处理手动刷新和主题切换请求。拉取之间允许重叠。
// ctx 取消时返回 nil；遇到 401 跳转后返回 ErrUnauthorized。
func (c *Coordinator) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	unauthorized := sigchan.New(1)
	trigger := func(source string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.WithField("trigger", source).Debug("fetch")
			if err := c.FetchAndRender(ctx); errors.Is(err, ErrUnauthorized) {
				unauthorized.Emit()
			}
		}()
	}

	// 定时触发通过 channel 转回本 goroutine，保证 wg.Add 只在这里调用
	ticks := sigchan.New(1)
	sched := cron.New(cron.WithSeconds())
	spec := c.opts.Schedule
	if spec == "" {
		spec = fmt.Sprintf("@every %s", c.opts.Interval)
	}
	if _, err := sched.AddFunc(spec, func() { ticks.Emit() }); err != nil {
		return errors.Wrapf(err, "dashboard: invalid schedule %q", spec)
	}
	sched.Start()
	log.Infof("轮询启动: schedule=%s initialDelay=%s", spec, c.opts.InitialDelay)

	initial := time.NewTimer(c.opts.InitialDelay)
	defer initial.Stop()

	stop := func() {
		<-sched.Stop().Done()
		cancel()
		wg.Wait()
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return nil
		case <-initial.C:
			trigger("initial")
		case <-ticks.C():
			trigger("timer")
		case <-c.refresh.C():
			trigger("manual")
		case <-c.toggle.C():
			if err := c.ToggleTheme(); err != nil {
				log.Warnf("切换主题: %v", err)
			}
		case <-unauthorized.C():
			stop()
			return ErrUnauthorized
		}
	}
}

// applyTheme body class 与切换按钮文字
func (c *Coordinator) applyTheme(dark bool) {
	if dark {
		c.opts.Surface.SetClass(ui.Body, ui.ClassDarkMode)
		c.opts.Surface.SetText(ui.DarkModeToggle, "☀️ Light Mode")
		return
	}
	c.opts.Surface.SetClass(ui.Body, "")
	c.opts.Surface.SetText(ui.DarkModeToggle, "🌙 Dark Mode")
}

func (c *Coordinator) palette() chart.Palette {
	return chart.ThemePalette(c.dark.Load())
}
