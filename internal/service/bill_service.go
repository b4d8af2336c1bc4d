package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mmynk/billsplit/internal/auth"
	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/export"
	"github.com/mmynk/billsplit/internal/metrics"
	"github.com/mmynk/billsplit/internal/middleware"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage"
	pb "github.com/mmynk/billsplit/pkg/api/billsplitv1"
)

// BillService implements the Connect BillService
type BillService struct {
	pb.UnimplementedBillServiceHandler
	store  storage.Store
	tokens *auth.TokenManager
	opts   []calculator.Option
}

// NewBillService creates a new BillService over the given session store.
// opts are applied to every calculation.
func NewBillService(store storage.Store, tokens *auth.TokenManager, opts ...calculator.Option) *BillService {
	return &BillService{store: store, tokens: tokens, opts: opts}
}

// toConnectError maps domain errors onto connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, calculator.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// invalidArgument rejects a request the wire layer refused to convert.
func invalidArgument(err error) error {
	metrics.ValidationFailures.Inc()
	return connect.NewError(connect.CodeInvalidArgument, err)
}

// sessionID returns the session the caller's token grants access to.
func sessionID(ctx context.Context) (string, error) {
	id := middleware.GetSessionID(ctx)
	if id == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return id, nil
}

// compute runs the calculator and records the outcome.
func (s *BillService) compute(config models.BillConfig, participants []models.Participant) (*models.Breakdown, error) {
	breakdown, err := calculator.ComputeBreakdown(config, participants, s.opts...)
	if err != nil {
		if errors.Is(err, calculator.ErrValidation) {
			metrics.ValidationFailures.Inc()
		}
		return nil, err
	}
	metrics.ObserveCalculation(breakdown.EqualSplit)

	if breakdown.EqualSplit {
		slog.Warn("No item prices were entered for any participant, falling back to equal split",
			"participants", len(participants),
			"grand_total", breakdown.Totals.GrandTotal.StringFixed(2),
		)
	}
	for _, r := range breakdown.Results {
		slog.Debug("Person split",
			"participant_id", r.ParticipantID,
			"person", r.Person,
			"subtotal", r.Subtotal.StringFixed(2),
			"tax_share", r.TaxShare.StringFixed(2),
			"service_share", r.ServiceShare.StringFixed(2),
			"total_due", r.TotalDue.StringFixed(2),
		)
	}
	return breakdown, nil
}

// CalculateSplit handles a one-off bill split calculation.
func (s *BillService) CalculateSplit(ctx context.Context, req *connect.Request[pb.CalculateSplitRequest]) (*connect.Response[pb.CalculateSplitResponse], error) {
	config, err := configFromProto(req.Msg.Config)
	if err != nil {
		return nil, invalidArgument(err)
	}
	participants, err := participantsFromProto(req.Msg.Participants)
	if err != nil {
		return nil, invalidArgument(err)
	}
	for i := range participants {
		if participants[i].ID == "" {
			participants[i].ID = uuid.New().String()
		}
	}

	breakdown, err := s.compute(config, participants)
	if err != nil {
		slog.Error("CalculateSplit failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&pb.CalculateSplitResponse{
		Splits:     splitsToProto(breakdown.Results),
		Totals:     totalsToProto(breakdown.Totals),
		EqualSplit: breakdown.EqualSplit,
	}), nil
}

// CreateSession opens a bill session and issues its token.
func (s *BillService) CreateSession(ctx context.Context, req *connect.Request[pb.CreateSessionRequest]) (*connect.Response[pb.CreateSessionResponse], error) {
	config, err := configFromProto(req.Msg.Config)
	if err != nil {
		return nil, invalidArgument(err)
	}
	participants, err := participantsFromProto(req.Msg.Participants)
	if err != nil {
		return nil, invalidArgument(err)
	}
	for i := range participants {
		// IDs are always assigned by the store.
		participants[i].ID = ""
		for j := range participants[i].Items {
			participants[i].Items[j].ID = ""
		}
	}

	session := &models.Session{Config: config, Participants: participants}
	if err := s.store.CreateSession(ctx, session); err != nil {
		slog.Error("CreateSession failed", "error", err)
		return nil, toConnectError(err)
	}

	token, err := s.tokens.Generate(session.ID)
	if err != nil {
		slog.Error("CreateSession token failed", "session_id", session.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Session created", "session_id", session.ID, "participants", len(session.Participants))

	resp := connect.NewResponse(&pb.CreateSessionResponse{
		Session: sessionToProto(session),
		Token:   token,
	})
	resp.Header().Set(middleware.SessionHeader, session.ID)
	return resp, nil
}

// GetSession returns the caller's session roster.
func (s *BillService) GetSession(ctx context.Context, req *connect.Request[pb.GetSessionRequest]) (*connect.Response[pb.GetSessionResponse], error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		slog.Error("GetSession failed", "session_id", id, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&pb.GetSessionResponse{Session: sessionToProto(session)}), nil
}

// UpdateBill replaces the bill amount and charges.
func (s *BillService) UpdateBill(ctx context.Context, req *connect.Request[pb.UpdateBillRequest]) (*connect.Response[pb.UpdateBillResponse], error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	config, err := configFromProto(req.Msg.Config)
	if err != nil {
		return nil, invalidArgument(err)
	}
	if err := s.store.UpdateConfig(ctx, id, config); err != nil {
		slog.Error("UpdateBill failed", "session_id", id, "error", err)
		return nil, toConnectError(err)
	}
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&pb.UpdateBillResponse{Session: sessionToProto(session)}), nil
}

// AddParticipant appends a participant to the roster.
func (s *BillService) AddParticipant(ctx context.Context, req *connect.Request[pb.AddParticipantRequest]) (*connect.Response[pb.AddParticipantResponse], error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	participants, err := participantsFromProto([]*pb.Participant{{Name: req.Msg.Name}})
	if err != nil {
		return nil, invalidArgument(errors.New("please enter a valid name"))
	}
	participant := participants[0]

	if err := s.store.AddParticipant(ctx, id, &participant); err != nil {
		slog.Error("AddParticipant failed", "session_id", id, "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Participant added", "session_id", id, "participant_id", participant.ID)

	return connect.NewResponse(&pb.AddParticipantResponse{Participant: participantToProto(participant)}), nil
}

// AddItem appends an item to a participant.
func (s *BillService) AddItem(ctx context.Context, req *connect.Request[pb.AddItemRequest]) (*connect.Response[pb.AddItemResponse], error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	item, err := itemFromProto(req.Msg.Label, req.Msg.Price)
	if err != nil {
		return nil, invalidArgument(err)
	}
	if err := s.store.AddItem(ctx, id, req.Msg.ParticipantID, &item); err != nil {
		slog.Error("AddItem failed", "session_id", id, "participant_id", req.Msg.ParticipantID, "error", err)
		return nil, toConnectError(err)
	}
	slog.Debug("Item added",
		"session_id", id,
		"participant_id", req.Msg.ParticipantID,
		"label", item.Label,
		"price", item.Price.String(),
	)
	return connect.NewResponse(&pb.AddItemResponse{Item: itemToProto(item)}), nil
}

// RemoveParticipant drops a participant and their items.
func (s *BillService) RemoveParticipant(ctx context.Context, req *connect.Request[pb.RemoveParticipantRequest]) (*connect.Response[pb.RemoveParticipantResponse], error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.RemoveParticipant(ctx, id, req.Msg.ParticipantID); err != nil {
		slog.Error("RemoveParticipant failed", "session_id", id, "participant_id", req.Msg.ParticipantID, "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Participant removed", "session_id", id, "participant_id", req.Msg.ParticipantID)
	return connect.NewResponse(&pb.RemoveParticipantResponse{}), nil
}

// ClearItems empties a participant's item list.
func (s *BillService) ClearItems(ctx context.Context, req *connect.Request[pb.ClearItemsRequest]) (*connect.Response[pb.ClearItemsResponse], error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.ClearItems(ctx, id, req.Msg.ParticipantID); err != nil {
		slog.Error("ClearItems failed", "session_id", id, "participant_id", req.Msg.ParticipantID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&pb.ClearItemsResponse{}), nil
}

// breakdown computes the split of the session's current roster.
func (s *BillService) breakdown(ctx context.Context) (*models.Breakdown, error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		slog.Error("Failed to load session", "session_id", id, "error", err)
		return nil, toConnectError(err)
	}
	breakdown, err := s.compute(session.Config, session.Participants)
	if err != nil {
		slog.Error("Calculate failed", "session_id", id, "error", err)
		return nil, toConnectError(err)
	}
	return breakdown, nil
}

// Calculate splits the session's roster, optionally settling up against a payer.
func (s *BillService) Calculate(ctx context.Context, req *connect.Request[pb.CalculateRequest]) (*connect.Response[pb.CalculateResponse], error) {
	breakdown, err := s.breakdown(ctx)
	if err != nil {
		return nil, err
	}

	resp := &pb.CalculateResponse{
		Splits:     splitsToProto(breakdown.Results),
		Totals:     totalsToProto(breakdown.Totals),
		EqualSplit: breakdown.EqualSplit,
	}
	if req.Msg.PayerID != "" {
		transfers, err := calculator.Settle(breakdown, req.Msg.PayerID)
		if err != nil {
			return nil, toConnectError(err)
		}
		resp.Transfers = transfersToProto(transfers)
	}
	return connect.NewResponse(resp), nil
}

// ExportBreakdown renders the session's breakdown as CSV or text.
func (s *BillService) ExportBreakdown(ctx context.Context, req *connect.Request[pb.ExportBreakdownRequest]) (*connect.Response[pb.ExportBreakdownResponse], error) {
	format, err := export.ParseFormat(req.Msg.Format)
	if err != nil {
		return nil, invalidArgument(err)
	}
	breakdown, err := s.breakdown(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, breakdown); err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	resp := &pb.ExportBreakdownResponse{
		ContentType: format.ContentType(),
		Content:     buf.String(),
	}
	if format == export.FormatCSV {
		resp.Filename = export.Filename
	}
	return connect.NewResponse(resp), nil
}

// CloseSession deletes the session and its roster.
func (s *BillService) CloseSession(ctx context.Context, req *connect.Request[pb.CloseSessionRequest]) (*connect.Response[pb.CloseSessionResponse], error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteSession(ctx, id); err != nil {
		slog.Error("CloseSession failed", "session_id", id, "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Session closed", "session_id", id)
	return connect.NewResponse(&pb.CloseSessionResponse{}), nil
}
