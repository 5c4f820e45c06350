package scheduler

import (
	"log/slog"
)

const (
	DefaultCleanCount int32 = 5000000 // 所有探测共享的无改进采样次数
	DefaultProbeCount int32 = 50      // 连续多少次探测没有改进后结束
)

// Matrix: [date][position] -> 全局球员下标
// 同一天内的顺序决定了分组（队伍）和球车搭档
type Matrix [][]int

// Clone 深拷贝
func (m Matrix) Clone() Matrix {
	c := make(Matrix, len(m))
	for i := range m {
		c[i] = make([]int, len(m[i]))
		copy(c[i], m[i])
	}
	return c
}

// CopyFrom 将 src 拷贝到 m 中，两者形状必须相同
func (m Matrix) CopyFrom(src Matrix) {
	for i := range src {
		copy(m[i], src[i])
	}
}

// Weights 各评价指标的权重，权重越高影响越大
type Weights struct {
	Capt float64 // 队长次数
	Cseq float64 // 连续担任队长
	Diff float64 // 司机/乘客平衡
	Dseq float64 // 连续担任司机或乘客
	Part float64 // 球车搭档
	Pseq float64 // 连续同一球车搭档
	Self float64 // 独自一车
	Sseq float64 // 连续独自一车
	Team float64 // 队友
	Tseq float64 // 连续同队
	Xtra float64 // 补丁项
}

func DefaultWeights() Weights {
	return Weights{
		Capt: 1.5,
		Cseq: 2.0,
		Diff: 0.8,
		Dseq: 0.6,
		Part: 8.0,
		Pseq: 4.0,
		Self: 4.5,
		Sseq: 9.0,
		Team: 4.0,
		Tseq: 2.0,
		Xtra: 0.0,
	}
}

// Parameters 搜索参数，零值表示使用默认值
type Parameters struct {
	CleanCount int32   // 总的无改进采样预算
	ProbeCount int32   // 探测次数
	Seed       int64   // 随机种子，0 表示使用当前时间
	Weights    Weights // 零值表示使用 DefaultWeights
	Logger     *slog.Logger
}

func (p *Parameters) withDefaults() Parameters {
	out := Parameters{}
	if p != nil {
		out = *p
	}
	if out.CleanCount <= 0 {
		out.CleanCount = DefaultCleanCount
	}
	if out.ProbeCount <= 0 {
		out.ProbeCount = DefaultProbeCount
	}
	if out.Weights == (Weights{}) {
		out.Weights = DefaultWeights()
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return out
}

// round 是 EventDate 在优化器内部的表示
type round struct {
	date    string
	times   []string
	players []int // 初始顺序的全局球员下标
}
