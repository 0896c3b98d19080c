package metrics

import "expvar"

// 看板进程内计数器，通过 /debug/vars 暴露
var (
	FetchTotal        = expvar.NewInt("fetch_total")
	FetchErrors       = expvar.NewInt("fetch_errors")
	FetchUnauthorized = expvar.NewInt("fetch_unauthorized")
	RenderCycles      = expvar.NewInt("render_cycles")
	RenderSkipped     = expvar.NewInt("render_skipped")
	ThemeToggles      = expvar.NewInt("theme_toggles")
)

// Values 当前计数快照（给终端 UI 的状态栏用）
func Values() map[string]int64 {
	return map[string]int64{
		"fetch_total":        FetchTotal.Value(),
		"fetch_errors":       FetchErrors.Value(),
		"fetch_unauthorized": FetchUnauthorized.Value(),
		"render_cycles":      RenderCycles.Value(),
		"render_skipped":     RenderSkipped.Value(),
		"theme_toggles":      ThemeToggles.Value(),
	}
}
