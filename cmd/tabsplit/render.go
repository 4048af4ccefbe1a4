package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mmynk/tabsplit/internal/analytics"
	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/currency"
	"github.com/mmynk/tabsplit/internal/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	titleCaser = cases.Title(language.English)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func renderBillSummary(bill models.Bill, calc *calculator.Calculator) string {
	conv := calc.Converter()
	base := bill.BaseCurrency

	t := newTable("Person", "Items", "Total")
	for _, s := range calc.Summarize(bill) {
		names := make([]string, len(s.Items))
		for i, it := range s.Items {
			names[i] = fmt.Sprintf("%s %s", it.ItemName, conv.Format(it.Amount, it.Currency))
		}
		t.Row(s.Name, strings.Join(names, ", "), conv.Format(s.TotalAmount, base))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(bill.Name))
	b.WriteString(" ")
	b.WriteString(mutedStyle.Render(bill.CreatedAt.UTC().Format("2006-01-02")))
	b.WriteString("\n")
	b.WriteString(t.String())
	for _, code := range bill.Currencies()[1:] {
		if rate := conv.ExchangeRateText(code, base); rate != "" {
			b.WriteString("\n")
			b.WriteString(mutedStyle.Render(rate))
		}
	}
	return b.String()
}

func renderAnalytics(a analytics.SpendingAnalytics, base string, conv *currency.Converter) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Spending in %s", base)))
	b.WriteString("\n")

	overview := newTable("Metric", "Value").
		Row("Bills", strconv.Itoa(a.BillCount)).
		Row("Total spent", conv.Format(a.TotalSpent, base)).
		Row("Average bill", conv.Format(a.AverageBillAmount, base)).
		Row("Items per bill", strconv.FormatFloat(a.AverageItemsPerBill, 'f', 1, 64)).
		Row("People per bill", strconv.FormatFloat(a.AveragePeoplePerBill, 'f', 1, 64))
	if a.MostExpensiveBill != nil {
		overview.Row("Most expensive", a.MostExpensiveBill.Name)
	}
	if a.CheapestBill != nil {
		overview.Row("Cheapest", a.CheapestBill.Name)
	}
	b.WriteString(overview.String())

	if len(a.MonthlySpending) > 0 {
		months := make([]string, 0, len(a.MonthlySpending))
		for m := range a.MonthlySpending {
			months = append(months, m)
		}
		sort.Strings(months)
		monthly := newTable("Month", "Spent")
		for _, m := range months {
			monthly.Row(m, conv.Format(a.MonthlySpending[m], base))
		}
		b.WriteString("\n")
		b.WriteString(monthly.String())
	}

	if len(a.FrequentItems) > 0 {
		items := newTable("Item", "Count", "Spent")
		for _, f := range a.FrequentItems {
			items.Row(titleCaser.String(f.Name), strconv.Itoa(f.Count), conv.Format(f.TotalSpent, base))
		}
		b.WriteString("\n")
		b.WriteString(items.String())
	}
	return b.String()
}

func renderPersonAnalytics(p analytics.PersonAnalytics, base string, conv *currency.Converter) string {
	favorites := make([]string, len(p.FavoriteItems))
	for i, name := range p.FavoriteItems {
		favorites[i] = titleCaser.String(name)
	}

	t := newTable("Metric", "Value").
		Row("Bills", strconv.Itoa(p.BillCount)).
		Row("Total spent", conv.Format(p.TotalSpent, base)).
		Row("Average per bill", conv.Format(p.AveragePerBill, base)).
		Row("Largest share", conv.Format(p.MostExpensiveBill, base)).
		Row("Smallest share", conv.Format(p.CheapestBill, base)).
		Row("Favorites", strings.Join(favorites, ", "))

	return titleStyle.Render(p.Person.Name) + "\n" + t.String()
}
