package similarity

import "math"

// Cosine 两个向量的余弦相似度；长度不同或任一为零向量时为 0
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Round 保留 n 位小数
func Round(x float64, n int) float64 {
	p := math.Pow10(n)
	return math.Round(x*p) / p
}

// Percent 0.8734 -> 87.3
func Percent(x float64) float64 {
	return Round(x*100, 1)
}

type Weights struct {
	Title       float64
	Description float64
}

func (w Weights) Overall(title, description float64) float64 {
	return w.Title*title + w.Description*description
}
