package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tabsplit/internal/analytics"
	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/currency"
	"github.com/mmynk/tabsplit/internal/history"
	"github.com/mmynk/tabsplit/internal/models"
	"github.com/mmynk/tabsplit/internal/share"
	"github.com/mmynk/tabsplit/internal/storage"
)

// BillService implements the Connect BillService.
type BillService struct {
	store  storage.Store
	calc   *calculator.Calculator
	agg    *analytics.Aggregator
	shares *share.Manager

	baseCurrency string
	now          func() time.Time
}

// Option configures a BillService.
type Option func(*BillService)

// WithCalculator sets the calculator, and with it the currency table.
func WithCalculator(calc *calculator.Calculator) Option {
	return func(s *BillService) {
		s.calc = calc
	}
}

// WithShareManager enables ShareBill and GetSharedBill.
func WithShareManager(m *share.Manager) Option {
	return func(s *BillService) {
		s.shares = m
	}
}

// WithBaseCurrency sets the analytics currency used when a request names none.
func WithBaseCurrency(code string) Option {
	return func(s *BillService) {
		s.baseCurrency = strings.ToUpper(code)
	}
}

// WithClock replaces time.Now for period filtering.
func WithClock(now func() time.Time) Option {
	return func(s *BillService) {
		s.now = now
	}
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store, opts ...Option) *BillService {
	s := &BillService{
		store:        store,
		baseCurrency: currency.USD,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.calc == nil {
		s.calc = calculator.New(nil)
	}
	s.agg = analytics.New(s.calc)
	return s
}

func (s *BillService) table() *currency.Table {
	return s.calc.Converter().Table()
}

// validateBill rejects bills whose amounts cannot be split.
func validateBill(bill models.Bill) error {
	if bill.Tax < 0 || bill.Tip < 0 {
		return errors.New("tax and tip must not be negative")
	}
	people := make(map[string]bool, len(bill.People))
	for _, p := range bill.People {
		if people[p.ID] {
			return fmt.Errorf("duplicate person id %q", p.ID)
		}
		people[p.ID] = true
	}
	items := make(map[string]bool, len(bill.Items))
	for _, item := range bill.Items {
		// Empty IDs are generated on save.
		if item.ID != "" {
			if items[item.ID] {
				return fmt.Errorf("duplicate item id %q", item.ID)
			}
			items[item.ID] = true
		}
		if item.Price < 0 {
			return fmt.Errorf("item %q has a negative price", item.Name)
		}
		if item.SplitType != "" && item.SplitType != models.SplitEqual && item.SplitType != models.SplitCustom {
			return fmt.Errorf("item %q has unknown split type %q", item.Name, item.SplitType)
		}
	}
	return nil
}

// resolveBase picks the requested base currency or the service default.
func (s *BillService) resolveBase(code string) (string, error) {
	if code == "" {
		return s.baseCurrency, nil
	}
	code = strings.ToUpper(code)
	if !s.table().Has(code) {
		return "", fmt.Errorf("unsupported currency %q", code)
	}
	return code, nil
}

// loadPeriod returns the stored history restricted to period.
func (s *BillService) loadPeriod(ctx context.Context, period string) ([]models.Bill, error) {
	p, err := analytics.ParsePeriod(period)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	bills, err := s.store.LoadBillHistory(ctx, 0)
	if err != nil {
		return nil, storeError("LoadBillHistory", err)
	}
	return analytics.FilterByPeriod(bills, p, s.now()), nil
}

// storeError maps storage and context errors to Connect codes.
// Only unexpected failures are logged.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	slog.Error(op+" failed", "error", err)
	return connect.NewError(connect.CodeInternal, err)
}

// Summarize calculates the per-person breakdown of a bill without storing it.
func (s *BillService) Summarize(ctx context.Context, req *connect.Request[SummarizeRequest]) (*connect.Response[SummarizeResponse], error) {
	bill := req.Msg.Bill
	if err := validateBill(bill); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if bill.BaseCurrency == "" {
		bill.BaseCurrency = currency.USD
	}

	unknown := bill.UnknownCurrencies(s.table())
	if len(unknown) > 0 {
		slog.Warn("Bill uses unknown currencies, converting at rate 1", "bill_id", bill.ID, "codes", unknown)
	}

	summaries := s.calc.Summarize(bill)
	slog.Debug("Bill summarized", "bill_id", bill.ID, "people", len(summaries), "items", len(bill.Items))

	return connect.NewResponse(&SummarizeResponse{
		Summaries:         summaries,
		Splits:            s.calc.Split(bill),
		Total:             s.agg.BillTotal(bill, bill.BaseCurrency),
		UnknownCurrencies: unknown,
	}), nil
}

// Convert converts an amount between two currencies.
func (s *BillService) Convert(ctx context.Context, req *connect.Request[ConvertRequest]) (*connect.Response[ConvertResponse], error) {
	from, to := strings.ToUpper(req.Msg.From), strings.ToUpper(req.Msg.To)
	if from == "" || to == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("from and to are required"))
	}

	conv := s.calc.Converter()
	amount := conv.Convert(req.Msg.Amount, from, to)
	return connect.NewResponse(&ConvertResponse{
		Amount:    amount,
		Formatted: conv.Format(amount, to),
		RateText:  conv.ExchangeRateText(from, to),
	}), nil
}

// ListCurrencies returns the supported currency table.
func (s *BillService) ListCurrencies(ctx context.Context, req *connect.Request[ListCurrenciesRequest]) (*connect.Response[ListCurrenciesResponse], error) {
	return connect.NewResponse(&ListCurrenciesResponse{
		Currencies: s.table().Currencies(),
	}), nil
}

// BuildCustomSplit turns equal, percentage or amount input into a custom split map.
func (s *BillService) BuildCustomSplit(ctx context.Context, req *connect.Request[BuildCustomSplitRequest]) (*connect.Response[BuildCustomSplitResponse], error) {
	var (
		splits map[string]float64
		err    error
	)
	switch req.Msg.Mode {
	case SplitModeEqual, "":
		splits = calculator.EqualSplits(req.Msg.Item)
	case SplitModePercentage:
		splits, err = calculator.PercentageSplits(req.Msg.Item, req.Msg.Values)
	case SplitModeAmount:
		splits, err = calculator.AmountSplits(req.Msg.Item, req.Msg.Values)
	default:
		err = fmt.Errorf("unknown split mode %q", req.Msg.Mode)
	}
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewResponse(&BuildCustomSplitResponse{CustomSplits: splits}), nil
}

// SaveBill archives a bill, replacing any stored bill with the same ID.
func (s *BillService) SaveBill(ctx context.Context, req *connect.Request[SaveBillRequest]) (*connect.Response[SaveBillResponse], error) {
	bill := req.Msg.Bill
	if err := validateBill(bill); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	// Save to storage (fills ID, name and CreatedAt)
	if err := s.store.SaveBill(ctx, &bill); err != nil {
		slog.Error("SaveBill failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	slog.Info("Bill saved", "bill_id", bill.ID, "name", bill.Name, "items", len(bill.Items))

	return connect.NewResponse(&SaveBillResponse{
		Bill:      bill,
		Summaries: s.calc.Summarize(bill),
	}), nil
}

// GetBill retrieves an archived bill with its recalculated summary.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error) {
	if req.Msg.BillID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("bill_id is required"))
	}

	bill, err := s.store.GetBill(ctx, req.Msg.BillID)
	if err != nil {
		return nil, storeError("GetBill", err)
	}

	return connect.NewResponse(&GetBillResponse{
		Bill:      *bill,
		Summaries: s.calc.Summarize(*bill),
		Total:     s.agg.BillTotal(*bill, bill.BaseCurrency),
	}), nil
}

// ListHistory searches and sorts the archived bills.
func (s *BillService) ListHistory(ctx context.Context, req *connect.Request[ListHistoryRequest]) (*connect.Response[ListHistoryResponse], error) {
	key, err := history.ParseSortKey(req.Msg.SortBy)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	bills, err := s.store.LoadBillHistory(ctx, 0)
	if err != nil {
		slog.Error("LoadBillHistory failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	conv := s.calc.Converter()
	bills = history.Sort(history.Search(bills, req.Msg.Query), key, conv)
	if req.Msg.Limit > 0 && len(bills) > req.Msg.Limit {
		bills = bills[:req.Msg.Limit]
	}

	entries := make([]HistoryEntry, 0, len(bills))
	for _, b := range bills {
		entries = append(entries, HistoryEntry{
			ID:           b.ID,
			Name:         b.Name,
			BaseCurrency: b.BaseCurrency,
			CreatedAt:    b.CreatedAt,
			PeopleCount:  len(b.People),
			ItemCount:    len(b.Items),
			Total:        history.BillTotal(b, conv),
		})
	}
	return connect.NewResponse(&ListHistoryResponse{Bills: entries}), nil
}

// DeleteBill removes a bill from the history.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error) {
	if req.Msg.BillID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("bill_id is required"))
	}
	if err := s.store.DeleteBill(ctx, req.Msg.BillID); err != nil {
		return nil, storeError("DeleteBill", err)
	}
	slog.Info("Bill deleted", "bill_id", req.Msg.BillID)
	return connect.NewResponse(&DeleteBillResponse{}), nil
}

// Analytics aggregates the history within a period.
func (s *BillService) Analytics(ctx context.Context, req *connect.Request[AnalyticsRequest]) (*connect.Response[AnalyticsResponse], error) {
	base, err := s.resolveBase(req.Msg.BaseCurrency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	bills, err := s.loadPeriod(ctx, req.Msg.Period)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&AnalyticsResponse{
		Analytics:  s.agg.Aggregate(bills, base),
		Categories: s.agg.SpendingByCategory(bills, base),
	}), nil
}

// PersonAnalytics aggregates one person's spending within a period.
func (s *BillService) PersonAnalytics(ctx context.Context, req *connect.Request[PersonAnalyticsRequest]) (*connect.Response[PersonAnalyticsResponse], error) {
	if req.Msg.PersonID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("person_id is required"))
	}
	base, err := s.resolveBase(req.Msg.BaseCurrency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	bills, err := s.loadPeriod(ctx, req.Msg.Period)
	if err != nil {
		return nil, err
	}

	result := s.agg.ForPerson(bills, req.Msg.PersonID, base)
	if result == nil {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("no bills for person %q", req.Msg.PersonID))
	}
	return connect.NewResponse(&PersonAnalyticsResponse{Analytics: *result}), nil
}

// Dashboard computes overall, per-person and per-category analytics.
func (s *BillService) Dashboard(ctx context.Context, req *connect.Request[DashboardRequest]) (*connect.Response[DashboardResponse], error) {
	base, err := s.resolveBase(req.Msg.BaseCurrency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	bills, err := s.loadPeriod(ctx, req.Msg.Period)
	if err != nil {
		return nil, err
	}

	d, err := s.agg.BuildDashboard(ctx, bills, base)
	if err != nil {
		return nil, storeError("BuildDashboard", err)
	}
	return connect.NewResponse(&DashboardResponse{Dashboard: *d}), nil
}

// ShareBill issues a read-only share token for a stored bill.
func (s *BillService) ShareBill(ctx context.Context, req *connect.Request[ShareBillRequest]) (*connect.Response[ShareBillResponse], error) {
	if s.shares == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharing is not configured"))
	}
	if _, err := s.store.GetBill(ctx, req.Msg.BillID); err != nil {
		return nil, storeError("ShareBill", err)
	}

	token, expiresAt, err := s.shares.Issue(req.Msg.BillID)
	if err != nil {
		slog.Error("ShareBill failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	resp := &ShareBillResponse{Token: token}
	if !expiresAt.IsZero() {
		resp.ExpiresAt = &expiresAt
	}
	slog.Info("Bill shared", "bill_id", req.Msg.BillID, "expires_at", expiresAt)
	return connect.NewResponse(resp), nil
}

// GetSharedBill resolves a share token to the bill and its summary.
func (s *BillService) GetSharedBill(ctx context.Context, req *connect.Request[GetSharedBillRequest]) (*connect.Response[GetBillResponse], error) {
	if s.shares == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharing is not configured"))
	}
	claims, err := s.shares.Verify(req.Msg.Token)
	if err != nil {
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}

	bill, err := s.store.GetBill(ctx, claims.BillID)
	if err != nil {
		return nil, storeError("GetSharedBill", err)
	}
	return connect.NewResponse(&GetBillResponse{
		Bill:      *bill,
		Summaries: s.calc.Summarize(*bill),
		Total:     s.agg.BillTotal(*bill, bill.BaseCurrency),
	}), nil
}

// ExportHistory returns the whole history as JSON.
func (s *BillService) ExportHistory(ctx context.Context, req *connect.Request[ExportHistoryRequest]) (*connect.Response[ExportHistoryResponse], error) {
	bills, err := s.store.LoadBillHistory(ctx, 0)
	if err != nil {
		slog.Error("LoadBillHistory failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	var buf bytes.Buffer
	if err := history.Export(&buf, bills); err != nil {
		slog.Error("ExportHistory failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&ExportHistoryResponse{Data: buf.Bytes()}), nil
}

// ImportHistory merges an export into the history, imported bills first.
func (s *BillService) ImportHistory(ctx context.Context, req *connect.Request[ImportHistoryRequest]) (*connect.Response[ImportHistoryResponse], error) {
	bills, err := history.Import(bytes.NewReader(req.Msg.Data))
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if i := slices.IndexFunc(bills, func(b models.Bill) bool { return validateBill(b) != nil }); i >= 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("bill %s: %w", bills[i].ID, validateBill(bills[i])))
	}

	n, err := s.store.ImportBills(ctx, bills)
	if err != nil {
		slog.Error("ImportHistory failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	slog.Info("History imported", "bills", n)
	return connect.NewResponse(&ImportHistoryResponse{Imported: n}), nil
}
