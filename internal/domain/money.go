package domain

import "math"

// Деньги внутри ядра — int64 в минимальных единицах валюты. Десятичные
// суммы появляются только на внешних границах (тарифы перевозчика,
// запросы к платёжному шлюзу) и конвертируются ровно один раз.

// MinorFromDecimal переводит десятичную сумму в минимальные единицы,
// округляя до двух знаков по правилу half-up. Округление применяется
// один раз на агрегате, а не на каждой позиции, чтобы не накапливать
// дрейф округления.
func MinorFromDecimal(amount float64) int64 {
	if amount <= 0 {
		return 0
	}
	return int64(math.Floor(amount*100 + 0.5))
}

// DecimalFromMinor переводит минимальные единицы обратно в десятичную
// сумму для внешних API, ожидающих значения вида 123.45.
func DecimalFromMinor(minor int64) float64 {
	return float64(minor) / 100
}

// LinesTotalMinor считает сумму заказа как точную целочисленную сумму
// снимков позиций. Входные цены уже в минимальных единицах, поэтому
// агрегат не теряет точность.
func LinesTotalMinor(lines []OrderLine) int64 {
	var total int64
	for _, line := range lines {
		total += int64(line.Qty) * line.PriceMinor
	}
	return total
}
