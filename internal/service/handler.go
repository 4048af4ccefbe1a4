package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// BillServiceName is the fully-qualified name of the BillService.
const BillServiceName = "tabsplit.v1.BillService"

// Procedure paths, one per RPC.
const (
	SummarizeProcedure        = "/" + BillServiceName + "/Summarize"
	ConvertProcedure          = "/" + BillServiceName + "/Convert"
	ListCurrenciesProcedure   = "/" + BillServiceName + "/ListCurrencies"
	BuildCustomSplitProcedure = "/" + BillServiceName + "/BuildCustomSplit"
	SaveBillProcedure         = "/" + BillServiceName + "/SaveBill"
	GetBillProcedure          = "/" + BillServiceName + "/GetBill"
	ListHistoryProcedure      = "/" + BillServiceName + "/ListHistory"
	DeleteBillProcedure       = "/" + BillServiceName + "/DeleteBill"
	AnalyticsProcedure        = "/" + BillServiceName + "/Analytics"
	PersonAnalyticsProcedure  = "/" + BillServiceName + "/PersonAnalytics"
	DashboardProcedure        = "/" + BillServiceName + "/Dashboard"
	ShareBillProcedure        = "/" + BillServiceName + "/ShareBill"
	GetSharedBillProcedure    = "/" + BillServiceName + "/GetSharedBill"
	ExportHistoryProcedure    = "/" + BillServiceName + "/ExportHistory"
	ImportHistoryProcedure    = "/" + BillServiceName + "/ImportHistory"
)

// NewBillServiceHandler builds an HTTP handler serving every BillService RPC
// and returns the path to mount it on.
func NewBillServiceHandler(svc *BillService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(SummarizeProcedure, connect.NewUnaryHandler(SummarizeProcedure, svc.Summarize, opts...))
	mux.Handle(ConvertProcedure, connect.NewUnaryHandler(ConvertProcedure, svc.Convert, opts...))
	mux.Handle(ListCurrenciesProcedure, connect.NewUnaryHandler(ListCurrenciesProcedure, svc.ListCurrencies, opts...))
	mux.Handle(BuildCustomSplitProcedure, connect.NewUnaryHandler(BuildCustomSplitProcedure, svc.BuildCustomSplit, opts...))
	mux.Handle(SaveBillProcedure, connect.NewUnaryHandler(SaveBillProcedure, svc.SaveBill, opts...))
	mux.Handle(GetBillProcedure, connect.NewUnaryHandler(GetBillProcedure, svc.GetBill, opts...))
	mux.Handle(ListHistoryProcedure, connect.NewUnaryHandler(ListHistoryProcedure, svc.ListHistory, opts...))
	mux.Handle(DeleteBillProcedure, connect.NewUnaryHandler(DeleteBillProcedure, svc.DeleteBill, opts...))
	mux.Handle(AnalyticsProcedure, connect.NewUnaryHandler(AnalyticsProcedure, svc.Analytics, opts...))
	mux.Handle(PersonAnalyticsProcedure, connect.NewUnaryHandler(PersonAnalyticsProcedure, svc.PersonAnalytics, opts...))
	mux.Handle(DashboardProcedure, connect.NewUnaryHandler(DashboardProcedure, svc.Dashboard, opts...))
	mux.Handle(ShareBillProcedure, connect.NewUnaryHandler(ShareBillProcedure, svc.ShareBill, opts...))
	mux.Handle(GetSharedBillProcedure, connect.NewUnaryHandler(GetSharedBillProcedure, svc.GetSharedBill, opts...))
	mux.Handle(ExportHistoryProcedure, connect.NewUnaryHandler(ExportHistoryProcedure, svc.ExportHistory, opts...))
	mux.Handle(ImportHistoryProcedure, connect.NewUnaryHandler(ImportHistoryProcedure, svc.ImportHistory, opts...))

	return "/" + BillServiceName + "/", mux
}

// BillServiceClient is a typed Connect client for the BillService.
type BillServiceClient struct {
	summarize        *connect.Client[SummarizeRequest, SummarizeResponse]
	convert          *connect.Client[ConvertRequest, ConvertResponse]
	listCurrencies   *connect.Client[ListCurrenciesRequest, ListCurrenciesResponse]
	buildCustomSplit *connect.Client[BuildCustomSplitRequest, BuildCustomSplitResponse]
	saveBill         *connect.Client[SaveBillRequest, SaveBillResponse]
	getBill          *connect.Client[GetBillRequest, GetBillResponse]
	listHistory      *connect.Client[ListHistoryRequest, ListHistoryResponse]
	deleteBill       *connect.Client[DeleteBillRequest, DeleteBillResponse]
	analytics        *connect.Client[AnalyticsRequest, AnalyticsResponse]
	personAnalytics  *connect.Client[PersonAnalyticsRequest, PersonAnalyticsResponse]
	dashboard        *connect.Client[DashboardRequest, DashboardResponse]
	shareBill        *connect.Client[ShareBillRequest, ShareBillResponse]
	getSharedBill    *connect.Client[GetSharedBillRequest, GetBillResponse]
	exportHistory    *connect.Client[ExportHistoryRequest, ExportHistoryResponse]
	importHistory    *connect.Client[ImportHistoryRequest, ImportHistoryResponse]
}

// NewBillServiceClient creates a client for the BillService at baseURL.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &BillServiceClient{
		summarize:        connect.NewClient[SummarizeRequest, SummarizeResponse](httpClient, baseURL+SummarizeProcedure, opts...),
		convert:          connect.NewClient[ConvertRequest, ConvertResponse](httpClient, baseURL+ConvertProcedure, opts...),
		listCurrencies:   connect.NewClient[ListCurrenciesRequest, ListCurrenciesResponse](httpClient, baseURL+ListCurrenciesProcedure, opts...),
		buildCustomSplit: connect.NewClient[BuildCustomSplitRequest, BuildCustomSplitResponse](httpClient, baseURL+BuildCustomSplitProcedure, opts...),
		saveBill:         connect.NewClient[SaveBillRequest, SaveBillResponse](httpClient, baseURL+SaveBillProcedure, opts...),
		getBill:          connect.NewClient[GetBillRequest, GetBillResponse](httpClient, baseURL+GetBillProcedure, opts...),
		listHistory:      connect.NewClient[ListHistoryRequest, ListHistoryResponse](httpClient, baseURL+ListHistoryProcedure, opts...),
		deleteBill:       connect.NewClient[DeleteBillRequest, DeleteBillResponse](httpClient, baseURL+DeleteBillProcedure, opts...),
		analytics:        connect.NewClient[AnalyticsRequest, AnalyticsResponse](httpClient, baseURL+AnalyticsProcedure, opts...),
		personAnalytics:  connect.NewClient[PersonAnalyticsRequest, PersonAnalyticsResponse](httpClient, baseURL+PersonAnalyticsProcedure, opts...),
		dashboard:        connect.NewClient[DashboardRequest, DashboardResponse](httpClient, baseURL+DashboardProcedure, opts...),
		shareBill:        connect.NewClient[ShareBillRequest, ShareBillResponse](httpClient, baseURL+ShareBillProcedure, opts...),
		getSharedBill:    connect.NewClient[GetSharedBillRequest, GetBillResponse](httpClient, baseURL+GetSharedBillProcedure, opts...),
		exportHistory:    connect.NewClient[ExportHistoryRequest, ExportHistoryResponse](httpClient, baseURL+ExportHistoryProcedure, opts...),
		importHistory:    connect.NewClient[ImportHistoryRequest, ImportHistoryResponse](httpClient, baseURL+ImportHistoryProcedure, opts...),
	}
}

func (c *BillServiceClient) Summarize(ctx context.Context, req *connect.Request[SummarizeRequest]) (*connect.Response[SummarizeResponse], error) {
	return c.summarize.CallUnary(ctx, req)
}

func (c *BillServiceClient) Convert(ctx context.Context, req *connect.Request[ConvertRequest]) (*connect.Response[ConvertResponse], error) {
	return c.convert.CallUnary(ctx, req)
}

func (c *BillServiceClient) ListCurrencies(ctx context.Context, req *connect.Request[ListCurrenciesRequest]) (*connect.Response[ListCurrenciesResponse], error) {
	return c.listCurrencies.CallUnary(ctx, req)
}

func (c *BillServiceClient) BuildCustomSplit(ctx context.Context, req *connect.Request[BuildCustomSplitRequest]) (*connect.Response[BuildCustomSplitResponse], error) {
	return c.buildCustomSplit.CallUnary(ctx, req)
}

func (c *BillServiceClient) SaveBill(ctx context.Context, req *connect.Request[SaveBillRequest]) (*connect.Response[SaveBillResponse], error) {
	return c.saveBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) GetBill(ctx context.Context, req *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) ListHistory(ctx context.Context, req *connect.Request[ListHistoryRequest]) (*connect.Response[ListHistoryResponse], error) {
	return c.listHistory.CallUnary(ctx, req)
}

func (c *BillServiceClient) DeleteBill(ctx context.Context, req *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) Analytics(ctx context.Context, req *connect.Request[AnalyticsRequest]) (*connect.Response[AnalyticsResponse], error) {
	return c.analytics.CallUnary(ctx, req)
}

func (c *BillServiceClient) PersonAnalytics(ctx context.Context, req *connect.Request[PersonAnalyticsRequest]) (*connect.Response[PersonAnalyticsResponse], error) {
	return c.personAnalytics.CallUnary(ctx, req)
}

func (c *BillServiceClient) Dashboard(ctx context.Context, req *connect.Request[DashboardRequest]) (*connect.Response[DashboardResponse], error) {
	return c.dashboard.CallUnary(ctx, req)
}

func (c *BillServiceClient) ShareBill(ctx context.Context, req *connect.Request[ShareBillRequest]) (*connect.Response[ShareBillResponse], error) {
	return c.shareBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) GetSharedBill(ctx context.Context, req *connect.Request[GetSharedBillRequest]) (*connect.Response[GetBillResponse], error) {
	return c.getSharedBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) ExportHistory(ctx context.Context, req *connect.Request[ExportHistoryRequest]) (*connect.Response[ExportHistoryResponse], error) {
	return c.exportHistory.CallUnary(ctx, req)
}

func (c *BillServiceClient) ImportHistory(ctx context.Context, req *connect.Request[ImportHistoryRequest]) (*connect.Response[ImportHistoryResponse], error) {
	return c.importHistory.CallUnary(ctx, req)
}
