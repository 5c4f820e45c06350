package scheduler

import "math"

// deviation 计算方阵的总体标准差，diag 为 false 时不包括对角线
// 越小表示越均衡
func deviation(m [][]float64, diag bool) float64 {
	n := len(m)
	count := float64(n * (n - 1))
	if diag {
		count = float64(n * n)
	}
	if count == 0 {
		return 0
	}

	mean := 0.0
	for i := range m {
		for j := range m[i] {
			if i != j || diag {
				mean += m[i][j]
			}
		}
	}
	mean /= count

	sum := 0.0
	for i := range m {
		for j := range m[i] {
			if i != j || diag {
				d := m[i][j] - mean
				sum += d * d
			}
		}
	}
	return math.Sqrt(sum / count)
}

// deviationOf 计算数组的总体标准差
func deviationOf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}

	mean := 0.0
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))

	sum := 0.0
	for _, x := range v {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(v)))
}

// equalizer 把每个计数视为"痛苦"，按出场天数折算成每天的痛苦值，
// 再计算各球员与全场平均每天痛苦值之差的标准差
func equalizer(v []float64, days []float64) float64 {
	if len(v) == 0 {
		return 0
	}

	totalDays := 0.0
	totalPain := 0.0
	for i, x := range v {
		totalDays += days[i]
		totalPain += math.Abs(x)
	}
	average := totalPain / totalDays

	row := make([]float64, len(v))
	for i, x := range v {
		row[i] = math.Abs(x)/days[i] - average
	}
	return deviationOf(row)
}

// minimizer 计算与 0 的偏差（均方根），用于理想情况下应为 0 的指标
func minimizer(m [][]float64, diag bool) float64 {
	n := len(m)
	count := float64(n * (n - 1))
	if diag {
		count = float64(n * n)
	}
	if count == 0 {
		return 0
	}

	sum := 0.0
	for i := range m {
		for j := range m[i] {
			if i != j || diag {
				sum += m[i][j] * m[i][j]
			}
		}
	}
	return math.Sqrt(sum / count)
}

// minimizerOf 数组版本的 minimizer
func minimizerOf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}

	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum / float64(len(v)))
}
