package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ramen-kiroku/ramenlog/internal/imagex"
	"github.com/ramen-kiroku/ramenlog/internal/linkx"
	"github.com/ramen-kiroku/ramenlog/internal/models"
)

// formatDate renders an ISO date as 2024年5月1日. Unparseable input is shown
// verbatim rather than hidden.
func formatDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

// stars renders the 1–5 rating as filled and hollow stars with its label.
func stars(rating int) string {
	if rating < 1 || rating > 5 {
		rating = 3
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating) + " " + models.RatingLabels[rating]
}

func menuChips(menus []models.MenuItem) string {
	chips := make([]string, 0, len(menus))
	for _, m := range menus {
		if m.Price != nil {
			chips = append(chips, fmt.Sprintf("[%s ¥%d]", m.Name, *m.Price))
			continue
		}
		chips = append(chips, fmt.Sprintf("[%s]", m.Name))
	}
	return strings.Join(chips, " ")
}

func linkChips(links string) string {
	parsed := linkx.Parse(links)
	chips := make([]string, 0, len(parsed))
	for _, l := range parsed {
		chips = append(chips, "["+l.Label+"]")
	}
	return strings.Join(chips, " ")
}

// renderCard prints one record card. n is the 1-based position in the current
// view; commands address records by it.
func renderCard(w io.Writer, n int, r models.Record) {
	header := fmt.Sprintf("%d. %s  %s", n, r.ShopName, stars(r.Rating))
	if r.WantToReturn {
		header += "  また行きたい！"
	}
	fmt.Fprintln(w, header)

	where := formatDate(r.Date)
	if r.Time != "" {
		where += " " + r.Time
	}
	fmt.Fprintf(w, "   %s / %s %s\n", where, r.Prefecture, r.City)

	if r.RamenType != "" {
		fmt.Fprintf(w, "   種類: %s\n", r.RamenType)
	}
	if len(r.Menus) > 0 {
		fmt.Fprintf(w, "   メニュー: %s\n", menuChips(r.Menus))
	}
	if r.BusinessHours != "" {
		fmt.Fprintf(w, "   営業時間: %s\n", r.BusinessHours)
	}
	if r.Holidays != "" {
		fmt.Fprintf(w, "   定休日: %s\n", r.Holidays)
	}
	if chips := linkChips(r.Links); chips != "" {
		fmt.Fprintf(w, "   リンク: %s\n", chips)
	}
	if r.Notes != "" {
		fmt.Fprintf(w, "   メモ: %s\n", r.Notes)
	}
	if r.PhotoDataURL != nil && imagex.AllowedDataURI(*r.PhotoDataURL) {
		fmt.Fprintln(w, "   📷 写真あり")
	}
}

// renderList prints the whole view, or the empty-state line.
func renderList(w io.Writer, records []models.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "記録がまだありません")
		return
	}
	fmt.Fprintf(w, "%d件の記録\n", len(records))
	for i, r := range records {
		renderCard(w, i+1, r)
	}
}
