package dashboard

import "math/rand"

// RandSource 随机数来源，返回 [0,1)。*rand.Rand 满足该接口。
type RandSource interface {
	Float64() float64
}

// globalRand 使用 math/rand 的全局源（并发安全）
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// SignalLabels 分布柱状图的 x 轴，与 Distribution.Values 顺序一致
var SignalLabels = []string{"Strong Buy", "Buy", "Hold", "Sell", "Strong Sell"}

// SignalColors 每根柱子的颜色
var SignalColors = []string{"#2ecc71", "#5cb85c", "#f39c12", "#e74c3c", "#c0392b"}

// Distribution 五档信号占比（百分比，整数）
type Distribution struct {
	StrongBuy  int
	Buy        int
	Hold       int
	Sell       int
	StrongSell int
}

func (d Distribution) Values() []int {
	return []int{d.StrongBuy, d.Buy, d.Hold, d.Sell, d.StrongSell}
}

func (d Distribution) Sum() int {
	return d.StrongBuy + d.Buy + d.Hold + d.Sell + d.StrongSell
}

// SignalDistribution 根据当前 RSI 合成一个“信号分布”。
//
// 注意：这是展示用的启发式数据，不是统计结果，快照里也没有对应字段。
// RSI<30 偏向 Strong Buy，RSI>70 偏向 Strong Sell，其余偏向 Hold。
// 结果五档都 >=0 且和恰好为 100：负数截成 0，误差并入 Hold；
// Hold 不够扣时从最大的一档里扣。
func SignalDistribution(rsi float64, r RandSource) Distribution {
	if r == nil {
		r = globalRand{}
	}
	pick := func(base, spread int) int {
		f := r.Float64()
		if !(f >= 0 && f < 1) {
			f = 0
		}
		return base + int(f*float64(spread))
	}

	var d Distribution
	switch {
	case rsi < 30:
		d.StrongBuy = pick(60, 10)
		d.Buy = pick(20, 5)
		d.Sell = pick(5, 5)
		d.Hold = 100 - d.StrongBuy - d.Buy - d.Sell
	case rsi > 70:
		d.StrongSell = pick(60, 10)
		d.Sell = pick(20, 5)
		d.Buy = pick(5, 5)
		d.Hold = 100 - d.StrongSell - d.Sell - d.Buy
	default:
		d.Hold = pick(50, 20)
		d.Buy = pick(10, 10)
		d.Sell = pick(10, 10)
		d.StrongBuy = 100 - d.Hold - d.Buy - d.Sell - pick(5, 5)
		d.StrongSell = 100 - d.Hold - d.Buy - d.Sell - d.StrongBuy
	}
	return normalize(d)
}

func normalize(d Distribution) Distribution {
	others := []*int{&d.StrongBuy, &d.Buy, &d.Sell, &d.StrongSell}
	for _, v := range others {
		if *v < 0 {
			*v = 0
		}
	}
	if d.Hold < 0 {
		d.Hold = 0
	}
	d.Hold += 100 - d.Sum()
	if d.Hold >= 0 {
		return d
	}

	deficit := -d.Hold
	d.Hold = 0
	for deficit > 0 {
		top := others[0]
		for _, v := range others[1:] {
			if *v > *top {
				top = v
			}
		}
		take := deficit
		if *top < take {
			take = *top
		}
		*top -= take
		deficit -= take
	}
	return d
}
