package inventory

import (
	"fmt"
	"strings"
)

const (
	replyNotFound = "❓ Такой запчасти нет"
	replyNoData   = "⚠️ Данные склада ещё не загружены, пришлите файл с таблицей"
)

// NotLoadedReply is the text for queries that arrive before any dataset has
// been loaded.
func NotLoadedReply() string { return replyNoData }

// BuildReply combines the match result (or the suggestions, when nothing
// matched) into the single reply text sent back to the requester.
//
// Formatted records are joined by blank lines. When the match set exceeds
// the reply cap only the first cap records are included, followed by a
// one-line notice stating the true count. An empty match set with non-empty
// suggestions becomes a "did you mean" list of raw part numbers; both empty
// becomes the fixed not-found line.
func BuildReply(result MatchResult, suggestions []string, limits Limits) string {
	if result.Empty() {
		if len(suggestions) == 0 {
			return replyNotFound
		}
		var b strings.Builder
		b.WriteString("❓ Точного совпадения нет. Возможно, вы искали:")
		for _, s := range suggestions {
			b.WriteString("\n• " + s)
		}
		return b.String()
	}

	replyCap := limits.ReplyCap
	if replyCap <= 0 {
		replyCap = DefaultLimits().ReplyCap
	}

	shown := result.Records
	truncated := false
	if len(shown) > replyCap {
		shown = shown[:replyCap]
		truncated = true
	}

	parts := make([]string, 0, len(shown)+2)
	if lead := leadIn(result.Tier); lead != "" {
		parts = append(parts, lead)
	}
	for _, rec := range shown {
		parts = append(parts, FormatRecord(rec))
	}
	if truncated {
		parts = append(parts, fmt.Sprintf("…показаны первые %d из %d найденных позиций", replyCap, result.Total()))
	}
	return strings.Join(parts, "\n\n")
}

// leadIn phrases how loose the match was. A raw substring hit needs no
// explanation.
func leadIn(t Tier) string {
	switch t {
	case TierNormalized:
		return "🔎 Найдено по номеру без разделителей:"
	case TierFuzzy:
		return "🔎 Точного совпадения нет, похожие номера:"
	default:
		return ""
	}
}
