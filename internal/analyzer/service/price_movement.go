package service

import (
	"sort"

	"golang-stock-sentiment/internal/analyzer/dto"
)

type dayKey struct {
	stockCode string
	date      string
}

type dailyClose struct {
	tick dto.PriceTick
	date dayKey
}

// CalculatePriceMovements reduces ticks to one close per (stock code, day),
// compares each day with the previous available trading day of the same code
// and drops the first observed day of every code.
func CalculatePriceMovements(ticks []dto.PriceTick) []dto.DailyPriceMovement {
	latest := make(map[dayKey]dailyClose)
	for _, tick := range ticks {
		key := dayKey{stockCode: tick.StockCode, date: CivilDate(tick.Timestamp).Format(dto.DateLayout)}
		// on equal timestamps the later input row wins
		if cur, ok := latest[key]; ok && tick.Timestamp.Before(cur.tick.Timestamp) {
			continue
		}
		latest[key] = dailyClose{tick: tick, date: key}
	}

	byCode := make(map[string][]dailyClose)
	for _, dc := range latest {
		byCode[dc.date.stockCode] = append(byCode[dc.date.stockCode], dc)
	}

	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var movements []dto.DailyPriceMovement
	for _, code := range codes {
		days := byCode[code]
		sort.Slice(days, func(i, j int) bool { return days[i].date.date < days[j].date.date })

		for i := 1; i < len(days); i++ {
			closePrice := days[i].tick.Close
			prevClose := days[i-1].tick.Close
			movements = append(movements, dto.DailyPriceMovement{
				Date:      CivilDate(days[i].tick.Timestamp),
				StockCode: code,
				Close:     closePrice,
				PrevClose: prevClose,
				IsUp:      closePrice.GreaterThan(prevClose),
			})
		}
	}

	return movements
}
