package dashboard

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/betbot/botdash/internal/ui"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// 数据源的金额是展示字符串（"$15,966.96"、"-1,200.5"），解析前去掉非数字字符
var nonNumeric = regexp.MustCompile(`[^0-9.\-]+`)

// parseAmount 解析展示用金额
func parseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(nonNumeric.ReplaceAllString(raw, ""))
}

// formatMoney 两位小数 + 千分位：1234.5 -> "1,234.50"，负数带 "-"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return sign + fixed
	}
	return sign + humanize.Comma(n) + "." + frac
}

// moneyText 字符串金额 -> "1,234.50"；解析失败原样返回
func moneyText(raw string) string {
	d, err := parseAmount(raw)
	if err != nil {
		return raw
	}
	return formatMoney(d)
}

// formatCount 整数千分位
func formatCount(n int64) string {
	return humanize.Comma(n)
}

// formatFixed 固定小数位
func formatFixed(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}

// formatPlain 数字的最短表示（与页面直接输出数字一致）
func formatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sideClass 持仓方向 -> 样式
func sideClass(side string) string {
	switch side {
	case "LONG":
		return ui.ClassGreen
	case "SHORT":
		return ui.ClassRed
	default:
		return ui.ClassHold
	}
}

// signalClass BUY / SELL / HOLD -> 样式；其它值没有样式
func signalClass(v string) string {
	switch v {
	case "BUY":
		return ui.ClassGreen
	case "SELL":
		return ui.ClassRed
	case "HOLD":
		return ui.ClassHold
	}
	return ""
}

func formatPlainInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
