package analysis

import (
	"golang.org/x/text/language"
)

// Column keys shared by report writers and the Markdown renderer.
const (
	ColID            = "id"
	ColLeads         = "leads"
	ColSpent         = "spent"
	ColCostPerLead   = "cost_per_lead"
	ColOrderCount    = "order_count"
	ColTotalRevenue  = "total_revenue"
	ColAvgOrderValue = "avg_order_value"
	ColConversion    = "conversion_pct"
	ColCPO           = "cpo"
	ColCPL           = "cpl"
	ColROI           = "roi_pct"
	ColProfit        = "profit"
	ColROMI          = "romi"
	ColRecommend     = "recommendation"
)

// Summary keys.
const (
	SumTotalLeads      = "total_leads"
	SumAdOrders        = "ad_orders"
	SumOtherOrders     = "other_orders"
	SumTotalSpent      = "total_spent"
	SumConversion      = "conversion_pct"
	SumTotalRevenue    = "total_revenue"
	SumTotalProfit     = "total_profit"
	SumROI             = "roi_pct"
	SumSavings         = "potential_savings"
	SumScaleProfit     = "scale_profit"
	SumScalePotential  = "scale_profit_potential"
	SumMatchedOrders   = "matched_orders"
	SumUnmatchedOrders = "unmatched_orders"
)

// Sheet keys.
const (
	SheetAll      = "all"
	SheetRemove   = "remove"
	SheetScale    = "scale"
	SheetOptimize = "optimize"
	SheetSummary  = "summary"
)

// Locale is the display text for one language.
type Locale struct {
	Code    string
	Reasons map[Reason]string
	Actions map[Action]string
	Columns map[string]string
	Summary map[string]string
	Sheets  map[string]string
}

// Reason returns the display label of r, falling back to its code.
func (l *Locale) Reason(r Reason) string {
	if s, ok := l.Reasons[r]; ok {
		return s
	}
	return string(r)
}

// Column returns the header for a column key, falling back to the key.
func (l *Locale) Column(key string) string {
	if s, ok := l.Columns[key]; ok {
		return s
	}
	return key
}

// Label returns the summary label for key, falling back to the key.
func (l *Locale) Label(key string) string {
	if s, ok := l.Summary[key]; ok {
		return s
	}
	return key
}

// Sheet returns the sheet name for key, falling back to the key.
func (l *Locale) Sheet(key string) string {
	if s, ok := l.Sheets[key]; ok {
		return s
	}
	return key
}

var english = &Locale{
	Code: "en",
	Reasons: map[Reason]string{
		ReasonNoOrders:         "remove: no orders",
		ReasonNegativeROI:      "remove: negative ROI",
		ReasonZeroConversion:   "remove: zero conversion",
		ReasonLowROI:           "optimize: low ROI",
		ReasonLowConversion:    "optimize: below-average conversion",
		ReasonHighCPO:          "optimize: high cost per order",
		ReasonHighROI:          "scale: high ROI",
		ReasonHighProfitROI:    "scale: high profit and ROI",
		ReasonHighConversion:   "scale: high conversion",
		ReasonVolumeConversion: "scale: high lead volume and good conversion",
		ReasonInsufficientData: "test: insufficient data",
		ReasonStable:           "monitor: stable",
	},
	Actions: map[Action]string{
		ActionRemove: "Remove", ActionScale: "Scale", ActionOptimize: "Optimize",
		ActionTest: "Test", ActionMonitor: "Monitor",
	},
	Columns: map[string]string{
		ColID: "Ad ID", ColLeads: "Leads", ColSpent: "Spent", ColCostPerLead: "Cost per lead",
		ColOrderCount: "Orders", ColTotalRevenue: "Revenue", ColAvgOrderValue: "Avg order value",
		ColConversion: "Conversion, %", ColCPO: "CPO", ColCPL: "CPL", ColROI: "ROI, %",
		ColProfit: "Profit", ColROMI: "ROMI", ColRecommend: "Recommendation",
	},
	Summary: map[string]string{
		SumTotalLeads: "Total leads", SumAdOrders: "Orders from ads", SumOtherOrders: "Orders from other sources",
		SumTotalSpent: "Total spend", SumConversion: "Conversion, %", SumTotalRevenue: "Total revenue",
		SumTotalProfit: "Profit", SumROI: "Overall ROI, %", SumSavings: "Potential savings",
		SumScaleProfit: "Current profit of ads to scale", SumScalePotential: "Potential profit (+50%)",
		SumMatchedOrders: "Orders matched to ads", SumUnmatchedOrders: "Orders with unknown ad id",
	},
	Sheets: map[string]string{
		SheetAll: "All ads", SheetRemove: "Remove", SheetScale: "Scale",
		SheetOptimize: "Optimize", SheetSummary: "Summary",
	},
}

var russian = &Locale{
	Code: "ru",
	Reasons: map[Reason]string{
		ReasonNoOrders:         "УДАЛИТЬ - нет заказов",
		ReasonNegativeROI:      "УДАЛИТЬ - отрицательный ROI",
		ReasonZeroConversion:   "УДАЛИТЬ - нулевая конверсия",
		ReasonLowROI:           "ОПТИМИЗИРОВАТЬ - низкий ROI",
		ReasonLowConversion:    "ОПТИМИЗИРОВАТЬ - конверсия ниже среднего",
		ReasonHighCPO:          "ОПТИМИЗИРОВАТЬ - высокая стоимость заказа",
		ReasonHighROI:          "МАСШТАБИРОВАТЬ - высокий ROI",
		ReasonHighProfitROI:    "МАСШТАБИРОВАТЬ - высокая прибыль и ROI",
		ReasonHighConversion:   "МАСШТАБИРОВАТЬ - высокая конверсия",
		ReasonVolumeConversion: "МАСШТАБИРОВАТЬ - много лидов и хорошая конверсия",
		ReasonInsufficientData: "ТЕСТИРОВАТЬ - мало данных",
		ReasonStable:           "НАБЛЮДАТЬ - стабильные показатели",
	},
	Actions: map[Action]string{
		ActionRemove: "Удалить", ActionScale: "Масштабировать", ActionOptimize: "Оптимизировать",
		ActionTest: "Тестировать", ActionMonitor: "Наблюдать",
	},
	Columns: map[string]string{
		ColID: "ID объявления", ColLeads: "Лиды", ColSpent: "Затраты, ₽", ColCostPerLead: "Цена за лид, ₽",
		ColOrderCount: "Количество заказов", ColTotalRevenue: "Общая выручка", ColAvgOrderValue: "Средний чек",
		ColConversion: "Конверсия, %", ColCPO: "CPO, ₽", ColCPL: "CPL, ₽", ColROI: "ROI, %",
		ColProfit: "Прибыль", ColROMI: "ROMI", ColRecommend: "Рекомендация",
	},
	Summary: map[string]string{
		SumTotalLeads: "Всего лидов", SumAdOrders: "Заказов из рекламы", SumOtherOrders: "Заказов из других источников",
		SumTotalSpent: "Общие затраты", SumConversion: "Конверсия, %", SumTotalRevenue: "Общая выручка",
		SumTotalProfit: "Прибыль", SumROI: "Общий ROI, %", SumSavings: "Потенциальная экономия",
		SumScaleProfit: "Текущая прибыль", SumScalePotential: "Потенциальная прибыль (+50%)",
		SumMatchedOrders: "Заказов сопоставлено с объявлениями", SumUnmatchedOrders: "Заказов с неизвестным ID",
	},
	Sheets: map[string]string{
		SheetAll: "Все объявления с рекомендациями", SheetRemove: "УДАЛИТЬ", SheetScale: "МАСШТАБИРОВАТЬ",
		SheetOptimize: "ОПТИМИЗИРОВАТЬ", SheetSummary: "Сводка",
	},
}

var (
	locales = []*Locale{english, russian}
	matcher = language.NewMatcher([]language.Tag{language.English, language.Russian})
)

// LocaleFor picks the closest supported locale for a BCP 47 tag such as
// "ru", "ru-RU" or "en-GB". Unknown or empty tags get English.
func LocaleFor(lang string) *Locale {
	if lang == "" {
		return english
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return english
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return english
	}
	return locales[idx]
}
