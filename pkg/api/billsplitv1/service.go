package billsplitv1

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// BillServiceName is the fully-qualified name of the BillService service.
const BillServiceName = "billsplit.v1.BillService"

// Procedure paths of the BillService RPCs.
const (
	BillServiceCalculateSplitProcedure    = "/billsplit.v1.BillService/CalculateSplit"
	BillServiceCreateSessionProcedure     = "/billsplit.v1.BillService/CreateSession"
	BillServiceGetSessionProcedure        = "/billsplit.v1.BillService/GetSession"
	BillServiceUpdateBillProcedure        = "/billsplit.v1.BillService/UpdateBill"
	BillServiceAddParticipantProcedure    = "/billsplit.v1.BillService/AddParticipant"
	BillServiceAddItemProcedure           = "/billsplit.v1.BillService/AddItem"
	BillServiceRemoveParticipantProcedure = "/billsplit.v1.BillService/RemoveParticipant"
	BillServiceClearItemsProcedure        = "/billsplit.v1.BillService/ClearItems"
	BillServiceCalculateProcedure         = "/billsplit.v1.BillService/Calculate"
	BillServiceExportBreakdownProcedure   = "/billsplit.v1.BillService/ExportBreakdown"
	BillServiceCloseSessionProcedure      = "/billsplit.v1.BillService/CloseSession"
)

// PublicProcedures can be called without a session token.
var PublicProcedures = []string{
	BillServiceCalculateSplitProcedure,
	BillServiceCreateSessionProcedure,
}

// BillServiceHandler is implemented by the server.
type BillServiceHandler interface {
	// CalculateSplit splits a bill given in full, without a session.
	CalculateSplit(context.Context, *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error)
	// CreateSession opens a session and returns its bearer token.
	CreateSession(context.Context, *connect.Request[CreateSessionRequest]) (*connect.Response[CreateSessionResponse], error)
	GetSession(context.Context, *connect.Request[GetSessionRequest]) (*connect.Response[GetSessionResponse], error)
	UpdateBill(context.Context, *connect.Request[UpdateBillRequest]) (*connect.Response[UpdateBillResponse], error)
	AddParticipant(context.Context, *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error)
	AddItem(context.Context, *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error)
	RemoveParticipant(context.Context, *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error)
	ClearItems(context.Context, *connect.Request[ClearItemsRequest]) (*connect.Response[ClearItemsResponse], error)
	// Calculate splits the session's current roster.
	Calculate(context.Context, *connect.Request[CalculateRequest]) (*connect.Response[CalculateResponse], error)
	// ExportBreakdown renders the session's breakdown as CSV or text.
	ExportBreakdown(context.Context, *connect.Request[ExportBreakdownRequest]) (*connect.Response[ExportBreakdownResponse], error)
	CloseSession(context.Context, *connect.Request[CloseSessionRequest]) (*connect.Response[CloseSessionResponse], error)
}

// NewBillServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	handlers := map[string]http.Handler{
		BillServiceCalculateSplitProcedure:    connect.NewUnaryHandler(BillServiceCalculateSplitProcedure, svc.CalculateSplit, opts...),
		BillServiceCreateSessionProcedure:     connect.NewUnaryHandler(BillServiceCreateSessionProcedure, svc.CreateSession, opts...),
		BillServiceGetSessionProcedure:        connect.NewUnaryHandler(BillServiceGetSessionProcedure, svc.GetSession, opts...),
		BillServiceUpdateBillProcedure:        connect.NewUnaryHandler(BillServiceUpdateBillProcedure, svc.UpdateBill, opts...),
		BillServiceAddParticipantProcedure:    connect.NewUnaryHandler(BillServiceAddParticipantProcedure, svc.AddParticipant, opts...),
		BillServiceAddItemProcedure:           connect.NewUnaryHandler(BillServiceAddItemProcedure, svc.AddItem, opts...),
		BillServiceRemoveParticipantProcedure: connect.NewUnaryHandler(BillServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...),
		BillServiceClearItemsProcedure:        connect.NewUnaryHandler(BillServiceClearItemsProcedure, svc.ClearItems, opts...),
		BillServiceCalculateProcedure:         connect.NewUnaryHandler(BillServiceCalculateProcedure, svc.Calculate, opts...),
		BillServiceExportBreakdownProcedure:   connect.NewUnaryHandler(BillServiceExportBreakdownProcedure, svc.ExportBreakdown, opts...),
		BillServiceCloseSessionProcedure:      connect.NewUnaryHandler(BillServiceCloseSessionProcedure, svc.CloseSession, opts...),
	}

	return "/" + BillServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// BillServiceClient is a client for the billsplit.v1.BillService service.
type BillServiceClient interface {
	CalculateSplit(context.Context, *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error)
	CreateSession(context.Context, *connect.Request[CreateSessionRequest]) (*connect.Response[CreateSessionResponse], error)
	GetSession(context.Context, *connect.Request[GetSessionRequest]) (*connect.Response[GetSessionResponse], error)
	UpdateBill(context.Context, *connect.Request[UpdateBillRequest]) (*connect.Response[UpdateBillResponse], error)
	AddParticipant(context.Context, *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error)
	AddItem(context.Context, *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error)
	RemoveParticipant(context.Context, *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error)
	ClearItems(context.Context, *connect.Request[ClearItemsRequest]) (*connect.Response[ClearItemsResponse], error)
	Calculate(context.Context, *connect.Request[CalculateRequest]) (*connect.Response[CalculateResponse], error)
	ExportBreakdown(context.Context, *connect.Request[ExportBreakdownRequest]) (*connect.Response[ExportBreakdownResponse], error)
	CloseSession(context.Context, *connect.Request[CloseSessionRequest]) (*connect.Response[CloseSessionResponse], error)
}

// NewBillServiceClient constructs a client for the BillService at baseURL
// (e.g., http://localhost:8080).
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &billServiceClient{
		calculateSplit:    connect.NewClient[CalculateSplitRequest, CalculateSplitResponse](httpClient, baseURL+BillServiceCalculateSplitProcedure, opts...),
		createSession:     connect.NewClient[CreateSessionRequest, CreateSessionResponse](httpClient, baseURL+BillServiceCreateSessionProcedure, opts...),
		getSession:        connect.NewClient[GetSessionRequest, GetSessionResponse](httpClient, baseURL+BillServiceGetSessionProcedure, opts...),
		updateBill:        connect.NewClient[UpdateBillRequest, UpdateBillResponse](httpClient, baseURL+BillServiceUpdateBillProcedure, opts...),
		addParticipant:    connect.NewClient[AddParticipantRequest, AddParticipantResponse](httpClient, baseURL+BillServiceAddParticipantProcedure, opts...),
		addItem:           connect.NewClient[AddItemRequest, AddItemResponse](httpClient, baseURL+BillServiceAddItemProcedure, opts...),
		removeParticipant: connect.NewClient[RemoveParticipantRequest, RemoveParticipantResponse](httpClient, baseURL+BillServiceRemoveParticipantProcedure, opts...),
		clearItems:        connect.NewClient[ClearItemsRequest, ClearItemsResponse](httpClient, baseURL+BillServiceClearItemsProcedure, opts...),
		calculate:         connect.NewClient[CalculateRequest, CalculateResponse](httpClient, baseURL+BillServiceCalculateProcedure, opts...),
		exportBreakdown:   connect.NewClient[ExportBreakdownRequest, ExportBreakdownResponse](httpClient, baseURL+BillServiceExportBreakdownProcedure, opts...),
		closeSession:      connect.NewClient[CloseSessionRequest, CloseSessionResponse](httpClient, baseURL+BillServiceCloseSessionProcedure, opts...),
	}
}

type billServiceClient struct {
	calculateSplit    *connect.Client[CalculateSplitRequest, CalculateSplitResponse]
	createSession     *connect.Client[CreateSessionRequest, CreateSessionResponse]
	getSession        *connect.Client[GetSessionRequest, GetSessionResponse]
	updateBill        *connect.Client[UpdateBillRequest, UpdateBillResponse]
	addParticipant    *connect.Client[AddParticipantRequest, AddParticipantResponse]
	addItem           *connect.Client[AddItemRequest, AddItemResponse]
	removeParticipant *connect.Client[RemoveParticipantRequest, RemoveParticipantResponse]
	clearItems        *connect.Client[ClearItemsRequest, ClearItemsResponse]
	calculate         *connect.Client[CalculateRequest, CalculateResponse]
	exportBreakdown   *connect.Client[ExportBreakdownRequest, ExportBreakdownResponse]
	closeSession      *connect.Client[CloseSessionRequest, CloseSessionResponse]
}

func (c *billServiceClient) CalculateSplit(ctx context.Context, req *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error) {
	return c.calculateSplit.CallUnary(ctx, req)
}

func (c *billServiceClient) CreateSession(ctx context.Context, req *connect.Request[CreateSessionRequest]) (*connect.Response[CreateSessionResponse], error) {
	return c.createSession.CallUnary(ctx, req)
}

func (c *billServiceClient) GetSession(ctx context.Context, req *connect.Request[GetSessionRequest]) (*connect.Response[GetSessionResponse], error) {
	return c.getSession.CallUnary(ctx, req)
}

func (c *billServiceClient) UpdateBill(ctx context.Context, req *connect.Request[UpdateBillRequest]) (*connect.Response[UpdateBillResponse], error) {
	return c.updateBill.CallUnary(ctx, req)
}

func (c *billServiceClient) AddParticipant(ctx context.Context, req *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *billServiceClient) AddItem(ctx context.Context, req *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

func (c *billServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *billServiceClient) ClearItems(ctx context.Context, req *connect.Request[ClearItemsRequest]) (*connect.Response[ClearItemsResponse], error) {
	return c.clearItems.CallUnary(ctx, req)
}

func (c *billServiceClient) Calculate(ctx context.Context, req *connect.Request[CalculateRequest]) (*connect.Response[CalculateResponse], error) {
	return c.calculate.CallUnary(ctx, req)
}

func (c *billServiceClient) ExportBreakdown(ctx context.Context, req *connect.Request[ExportBreakdownRequest]) (*connect.Response[ExportBreakdownResponse], error) {
	return c.exportBreakdown.CallUnary(ctx, req)
}

func (c *billServiceClient) CloseSession(ctx context.Context, req *connect.Request[CloseSessionRequest]) (*connect.Response[CloseSessionResponse], error) {
	return c.closeSession.CallUnary(ctx, req)
}

// UnimplementedBillServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedBillServiceHandler struct{}

var errUnimplemented = errors.New("not implemented")

func (UnimplementedBillServiceHandler) CalculateSplit(context.Context, *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) CreateSession(context.Context, *connect.Request[CreateSessionRequest]) (*connect.Response[CreateSessionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) GetSession(context.Context, *connect.Request[GetSessionRequest]) (*connect.Response[GetSessionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) UpdateBill(context.Context, *connect.Request[UpdateBillRequest]) (*connect.Response[UpdateBillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) AddParticipant(context.Context, *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) AddItem(context.Context, *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) RemoveParticipant(context.Context, *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) ClearItems(context.Context, *connect.Request[ClearItemsRequest]) (*connect.Response[ClearItemsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) Calculate(context.Context, *connect.Request[CalculateRequest]) (*connect.Response[CalculateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) ExportBreakdown(context.Context, *connect.Request[ExportBreakdownRequest]) (*connect.Response[ExportBreakdownResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) CloseSession(context.Context, *connect.Request[CloseSessionRequest]) (*connect.Response[CloseSessionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}
