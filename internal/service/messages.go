package service

import (
	"time"

	"github.com/mmynk/tabsplit/internal/analytics"
	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/currency"
	"github.com/mmynk/tabsplit/internal/models"
)

type SummarizeRequest struct {
	Bill models.Bill `json:"bill"`
}

func (r *SummarizeRequest) GetBillID() string { return r.Bill.ID }

type SummarizeResponse struct {
	Summaries []models.PersonSummary `json:"summaries"`
	Splits    []calculator.PersonSplit `json:"splits"`

	// Total is every item plus tax and tip in the bill's base currency.
	Total float64 `json:"total"`

	// UnknownCurrencies lists codes that were converted at rate 1.
	UnknownCurrencies []string `json:"unknownCurrencies,omitempty"`
}

type ConvertRequest struct {
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
}

type ConvertResponse struct {
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
	RateText  string  `json:"rateText"`
}

type ListCurrenciesRequest struct{}

type ListCurrenciesResponse struct {
	Currencies []currency.Currency `json:"currencies"`
}

// SplitMode selects how BuildCustomSplit interprets its values.
type SplitMode string

const (
	SplitModeEqual      SplitMode = "equal"
	SplitModePercentage SplitMode = "percentage"
	SplitModeAmount     SplitMode = "amount"
)

type BuildCustomSplitRequest struct {
	Item   models.Item        `json:"item"`
	Mode   SplitMode          `json:"mode"`
	Values map[string]float64 `json:"values,omitempty"`
}

type BuildCustomSplitResponse struct {
	CustomSplits map[string]float64 `json:"customSplits"`
}

type SaveBillRequest struct {
	Bill models.Bill `json:"bill"`
}

func (r *SaveBillRequest) GetBillID() string { return r.Bill.ID }

type SaveBillResponse struct {
	Bill      models.Bill            `json:"bill"`
	Summaries []models.PersonSummary `json:"summaries"`
}

// GetBillID reports the stored ID, which SaveBill generates when the request has none.
func (r *SaveBillResponse) GetBillID() string { return r.Bill.ID }

type GetBillRequest struct {
	BillID string `json:"billId"`
}

func (r *GetBillRequest) GetBillID() string { return r.BillID }

type GetBillResponse struct {
	Bill      models.Bill            `json:"bill"`
	Summaries []models.PersonSummary `json:"summaries"`
	Total     float64                `json:"total"`
}

type ListHistoryRequest struct {
	Query  string `json:"query,omitempty"`
	SortBy string `json:"sortBy,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// HistoryEntry is the list view of an archived bill.
type HistoryEntry struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	BaseCurrency string    `json:"baseCurrency"`
	CreatedAt    time.Time `json:"createdAt"`
	PeopleCount  int       `json:"peopleCount"`
	ItemCount    int       `json:"itemCount"`
	Total        float64   `json:"total"`
}

type ListHistoryResponse struct {
	Bills []HistoryEntry `json:"bills"`
}

type DeleteBillRequest struct {
	BillID string `json:"billId"`
}

func (r *DeleteBillRequest) GetBillID() string { return r.BillID }

type DeleteBillResponse struct{}

type AnalyticsRequest struct {
	BaseCurrency string `json:"baseCurrency,omitempty"`
	Period       string `json:"period,omitempty"`
}

type AnalyticsResponse struct {
	Analytics  analytics.SpendingAnalytics    `json:"analytics"`
	Categories map[analytics.Category]float64 `json:"categories"`
}

type PersonAnalyticsRequest struct {
	PersonID     string `json:"personId"`
	BaseCurrency string `json:"baseCurrency,omitempty"`
	Period       string `json:"period,omitempty"`
}

type PersonAnalyticsResponse struct {
	Analytics analytics.PersonAnalytics `json:"analytics"`
}

type DashboardRequest struct {
	BaseCurrency string `json:"baseCurrency,omitempty"`
	Period       string `json:"period,omitempty"`
}

type DashboardResponse struct {
	Dashboard analytics.Dashboard `json:"dashboard"`
}

type ShareBillRequest struct {
	BillID string `json:"billId"`
}

func (r *ShareBillRequest) GetBillID() string { return r.BillID }

type ShareBillResponse struct {
	Token string `json:"token"`

	// ExpiresAt is nil for tokens that never expire.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type GetSharedBillRequest struct {
	Token string `json:"token"`
}

type ExportHistoryRequest struct{}

type ExportHistoryResponse struct {
	// Data is the history as an indented JSON array (base64 on the wire).
	Data []byte `json:"data"`
}

type ImportHistoryRequest struct {
	// Data is an export in any common text encoding.
	Data []byte `json:"data"`
}

type ImportHistoryResponse struct {
	Imported int `json:"imported"`
}
