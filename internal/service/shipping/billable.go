package shipping

import (
	"math"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	// DefaultWeightGrams — консервативный вес позиции без логированного веса.
	DefaultWeightGrams int64 = 500
	// DefaultDimensionCm — консервативный габарит позиции без логированных размеров.
	DefaultDimensionCm float64 = 10
	// DefaultVolumetricDivisor — стандартный делитель объёмного веса перевозчиков.
	DefaultVolumetricDivisor float64 = 5000
)

// Line — нормализуемая позиция для расчёта веса: метрики плюс количество.
type Line struct {
	Metrics domain.LineMetrics
	Qty     int32
}

// normalize заполняет отсутствующие метрики значениями по умолчанию.
func normalize(m domain.LineMetrics) domain.LineMetrics {
	if m.WeightGrams <= 0 {
		m.WeightGrams = DefaultWeightGrams
	}
	if m.LengthCm <= 0 {
		m.LengthCm = DefaultDimensionCm
	}
	if m.WidthCm <= 0 {
		m.WidthCm = DefaultDimensionCm
	}
	if m.HeightCm <= 0 {
		m.HeightCm = DefaultDimensionCm
	}
	return m
}

// BillableWeight считает оплачиваемый вес посылки в граммах: максимум из
// реального и объёмного веса. Лёгкая, но объёмная посылка тарифицируется
// по объёму, плотная — по весу. Ошибочных исходов нет: результат всегда
// неотрицательное целое.
func BillableWeight(lines []Line, divisor float64) int64 {
	if divisor <= 0 {
		divisor = DefaultVolumetricDivisor
	}

	var realGrams int64
	var volumeCm3 float64
	for _, line := range lines {
		if line.Qty <= 0 {
			continue
		}
		m := normalize(line.Metrics)
		realGrams += m.WeightGrams * int64(line.Qty)
		volumeCm3 += m.LengthCm * m.WidthCm * m.HeightCm * float64(line.Qty)
	}

	volumetricGrams := int64(math.Ceil(volumeCm3 / divisor * 1000))
	if volumetricGrams > realGrams {
		return volumetricGrams
	}
	return realGrams
}

// ParcelFor приближает упаковку всех позиций одной коробкой: максимальная
// длина, максимальная ширина и суммарная высота (позиции ставятся стопкой).
// Возвращает метрики посылки вместе с оплачиваемым весом.
func ParcelFor(lines []Line, divisor float64) domain.ParcelMetrics {
	var length, width, height float64
	for _, line := range lines {
		if line.Qty <= 0 {
			continue
		}
		m := normalize(line.Metrics)
		if m.LengthCm > length {
			length = m.LengthCm
		}
		if m.WidthCm > width {
			width = m.WidthCm
		}
		height += m.HeightCm * float64(line.Qty)
	}

	return domain.ParcelMetrics{
		BillableGrams: BillableWeight(lines, divisor),
		LengthCm:      length,
		WidthCm:       width,
		HeightCm:      height,
	}
}
