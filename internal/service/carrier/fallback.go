package carrier

import (
	"fmt"
	"math"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Статическая тарифная таблица — документированный деградированный режим.
// Котировка обязана всегда вернуть хотя бы одну опцию: без цены доставки
// checkout не может продолжиться. Ставки по весовым брекетам, express —
// постоянная наценка над standard.

const (
	// ProviderName — имя перевозчика в публичных опциях.
	ProviderName = "andreani"

	// expressMarkup — наценка express-тарифа над standard.
	expressMarkup = 1.35

	provisionalPrefix = "PROVISIONAL-"
)

// Весовые брекеты тарифной таблицы, граммы.
const (
	bracketLightGrams = 1000
	bracketMidGrams   = 3000
)

// Ставки standard по брекетам, минимальные единицы.
var standardRates = [3]int64{2500, 4200, 6900}

// ETA по классам доставки, дни.
const (
	standardEtaMin = 5
	standardEtaMax = 8
	expressEtaMin  = 2
	expressEtaMax  = 4
)

// fallbackRate возвращает ставку standard для оплачиваемого веса.
func fallbackRate(billableGrams int64) int64 {
	switch {
	case billableGrams <= bracketLightGrams:
		return standardRates[0]
	case billableGrams <= bracketMidGrams:
		return standardRates[1]
	default:
		return standardRates[2]
	}
}

// expressRate считает express-ставку как наценку над standard с округлением half-up.
func expressRate(standard int64) int64 {
	return int64(math.Floor(float64(standard)*expressMarkup + 0.5))
}

// FallbackOptions строит опции доставки из статической таблицы.
func FallbackOptions(billableGrams int64) []domain.ShippingOption {
	standard := fallbackRate(billableGrams)
	return []domain.ShippingOption{
		{
			MethodID:     "andreani_standard",
			Label:        "Andreani Standard",
			Provider:     ProviderName,
			ServiceLevel: domain.ServiceLevelStandard,
			AmountMinor:  standard,
			EtaMinDays:   standardEtaMin,
			EtaMaxDays:   standardEtaMax,
		},
		{
			MethodID:     "andreani_express",
			Label:        "Andreani Express",
			Provider:     ProviderName,
			ServiceLevel: domain.ServiceLevelExpress,
			AmountMinor:  expressRate(standard),
			EtaMinDays:   expressEtaMin,
			EtaMaxDays:   expressEtaMax,
		},
	}
}

// ProvisionalTracking выдаёт синтетический трек-номер для деградированного
// режима. Префикс делает его предварительную природу видимой операторам:
// этикетку нужно купить вручную, заказ при этом не падает.
func ProvisionalTracking(orderID string) string {
	return fmt.Sprintf("%s%s", provisionalPrefix, orderID)
}
