package telegram

import (
	"fmt"
	"strings"

	"golang-stock-sentiment/internal/analyzer/dto"
)

const maxMessageLen = 4090

// FormatAnalysisReportForTelegram formats the winning threshold and the stock
// accuracy summary into Markdown messages, splitting them so no message exceeds
// the Telegram length limit.
func FormatAnalysisReportForTelegram(runID string, report *dto.Report) []string {
	if report == nil || len(report.Summaries) == 0 {
		return []string{"No sentiment backtest result for this run."}
	}

	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		if part == 1 {
			ev := report.Evaluation
			currentMessage.WriteString("📊 *Sentiment Threshold Backtest* 📊\n\n")
			currentMessage.WriteString(fmt.Sprintf("🆔 *Run:* `%s`\n", runID))
			currentMessage.WriteString(fmt.Sprintf("🎚 *Threshold:* %.0f%%\n", ev.Threshold*100))
			currentMessage.WriteString(fmt.Sprintf("🎯 *Accuracy:* %.2f%% (%d/%d)\n", ev.Accuracy*100, ev.SuccessCount, ev.MatchedRowCount))
			currentMessage.WriteString(fmt.Sprintf("🏅 *Score:* %.4f\n\n", ev.Score))
		} else {
			currentMessage.WriteString(fmt.Sprintf("---*Sentiment Threshold Backtest Part %d*---\n\n", part))
		}
	}

	startNewPart()

	for _, s := range report.Summaries {
		var entry string
		if s.Overall {
			entry = fmt.Sprintf("🧮 *%s:* %.2f%% (%d/%d)\n", s.StockName, s.AccuracyPercent, s.SuccessCount, s.TotalRecommendations)
		} else {
			icon := "🔴"
			if s.AccuracyPercent >= 50 {
				icon = "🟢"
			}
			entry = fmt.Sprintf("%s *%s* `%s` %.2f%% (%d/%d)\n", icon, s.StockName, s.StockCode, s.AccuracyPercent, s.SuccessCount, s.TotalRecommendations)
		}

		if currentMessage.Len()+len(entry) > maxMessageLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(entry)
	}

	messages = append(messages, currentMessage.String())
	return messages
}
