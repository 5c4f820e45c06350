package scheduler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeviation(t *testing.T) {
	m := [][]float64{
		{7, 1},
		{3, 9},
	}

	// 不含对角线：{1, 3}，均值 2，标准差 1
	require.InDelta(t, 1.0, deviation(m, false), 1e-12)

	// 含对角线：{7, 1, 3, 9}，均值 5，方差 (4+16+4+16)/4 = 10
	require.InDelta(t, math.Sqrt(10), deviation(m, true), 1e-12)

	require.Zero(t, deviation([][]float64{{5}}, false), "1x1 without diagonal has no entries")
	require.Zero(t, deviation(nil, false))
}

func TestDeviationOf(t *testing.T) {
	require.InDelta(t, 2.0, deviationOf([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	require.Zero(t, deviationOf([]float64{3, 3, 3}))
	require.Zero(t, deviationOf(nil))
}

func TestEqualizer(t *testing.T) {
	// 总痛苦 2，总天数 3，平均每天 2/3
	// 每人每天：1 - 2/3 = 1/3，0 - 2/3 = -2/3，标准差 0.5
	require.InDelta(t, 0.5, equalizer([]float64{2, 0}, []float64{2, 1}), 1e-12)

	// 负数按绝对值计算
	require.InDelta(t, 0.5, equalizer([]float64{-2, 0}, []float64{2, 1}), 1e-12)

	// 按出场天数折算后完全均衡
	require.InDelta(t, 0.0, equalizer([]float64{4, 2}, []float64{2, 1}), 1e-12)
}

func TestMinimizer(t *testing.T) {
	m := [][]float64{
		{100, 1},
		{3, 100},
	}
	require.InDelta(t, math.Sqrt(5), minimizer(m, false), 1e-12)
	require.InDelta(t, math.Sqrt((100*100*2+1+9)/4.0), minimizer(m, true), 1e-12)

	require.InDelta(t, math.Sqrt(5), minimizerOf([]float64{1, -3}), 1e-12)
	require.Zero(t, minimizerOf([]float64{0, 0, 0}))
}
