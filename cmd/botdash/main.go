package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/betbot/botdash/internal/chart"
	"github.com/betbot/botdash/internal/dashboard"
	"github.com/betbot/botdash/internal/feed"
	"github.com/betbot/botdash/internal/metrics"
	"github.com/betbot/botdash/internal/tui"
	"github.com/betbot/botdash/internal/ui"
	"github.com/betbot/botdash/internal/webview"
	"github.com/betbot/botdash/pkg/config"
	"github.com/betbot/botdash/pkg/logger"
	"github.com/betbot/botdash/pkg/prefstore"
	"github.com/betbot/botdash/pkg/shutdown"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（支持 .yaml, .yml, .json）")
	mode := flag.String("mode", "", "运行模式：tui / headless / web（默认按终端自动选择）")
	url := flag.String("url", "", "快照接口地址，覆盖配置文件和 BOTDASH_URL")
	envFile := flag.String("env", ".env", "环境变量文件（不存在时忽略）")
	flag.Parse()

	_ = godotenv.Load(*envFile)

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if *mode != "" {
		cfg.Mode = *mode
	}
	if *url != "" {
		cfg.Feed.URL = *url
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "配置无效: %v\n", err)
		os.Exit(1)
	}
	if cfg.Mode == config.ModeAuto {
		cfg.Mode = config.ModeHeadless
		if term.IsTerminal(int(os.Stdout.Fd())) {
			cfg.Mode = config.ModeTUI
		}
	}

	// 终端被 TUI 占用时日志只写文件
	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		OutputFile: cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
		Quiet:      cfg.Mode == config.ModeTUI,
	}); err != nil {
		panic(fmt.Sprintf("初始化日志失败: %v", err))
	}

	if err := run(cfg); err != nil {
		logrus.Errorf("退出: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownMgr := shutdown.NewManager()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if n := shutdownMgr.Shutdown(shutdownCtx); n > 0 {
			logrus.Warnf("%d 个关闭回调失败", n)
		}
	}()

	prefs, err := prefstore.Open(prefstore.Options{
		Driver:        cfg.Prefs.Driver,
		Path:          cfg.Prefs.Path,
		EncryptionKey: cfg.Prefs.EncryptionKey,
	})
	if err != nil {
		return fmt.Errorf("打开偏好存储失败: %w", err)
	}
	shutdownMgr.OnShutdown("prefstore", func(context.Context) error { return prefs.Close() })

	headers := map[string]string{}
	if cfg.Feed.Cookie != "" {
		headers["Cookie"] = cfg.Feed.Cookie
	}
	client := feed.NewClient(feed.Config{URL: cfg.Feed.URL, Timeout: cfg.Feed.Timeout, Headers: headers})

	page := ui.NewPage()
	board := chart.NewBoard()
	coord, err := dashboard.New(dashboard.Options{
		Fetcher:      client,
		Surface:      page,
		Charts:       board,
		Prefs:        prefs,
		ThemeKey:     cfg.Prefs.ThemeKey,
		LoginURL:     cfg.Poll.LoginURL,
		Interval:     cfg.Poll.Interval,
		InitialDelay: cfg.Poll.InitialDelay,
		Schedule:     cfg.Poll.Schedule,
	})
	if err != nil {
		return err
	}

	if _, err := metrics.StartAsync(ctx, cfg.MetricsListen); err != nil {
		return fmt.Errorf("启动 debug 服务失败: %w", err)
	}

	if cfg.WebListen != "" {
		web := webview.New(webview.Config{Addr: cfg.WebListen}, page, board, coord)
		go func() {
			if err := web.Run(ctx); err != nil {
				logrus.Errorf("浏览器视图停止: %v", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logrus.Infof("收到信号 %s，开始关闭", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	logrus.Infof("botdash 启动: mode=%s url=%s", cfg.Mode, client.URL())

	runErr := make(chan error, 1)
	go func() {
		runErr <- coord.Run(ctx)
	}()

	if cfg.Mode == config.ModeTUI {
		if err := tui.Run(ctx, page, board, coord); err != nil {
			logrus.Errorf("终端界面异常退出: %v", err)
		}
		cancel()
	}

	err = <-runErr
	if errors.Is(err, dashboard.ErrUnauthorized) {
		logrus.Warnf("会话已失效，请登录: %s", page.NavigatedTo())
		return nil
	}
	return err
}
