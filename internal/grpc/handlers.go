package grpc

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/godilite/csat-server/internal/dashboard"
	"github.com/godilite/csat-server/internal/service"
)

const defaultGRPCTimeout = 10 * time.Second

type GRPCHandlers struct {
	svc     DashboardService
	logger  *zap.Logger
	timeout time.Duration
}

// NewGRPCHandlers initializes the gRPC handlers.
func NewGRPCHandlers(svc DashboardService, logger *zap.Logger, timeout time.Duration) *GRPCHandlers {
	if svc == nil {
		panic("nil DashboardService provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultGRPCTimeout
	}
	return &GRPCHandlers{
		svc:     svc,
		logger:  logger.Named("grpc-handler"),
		timeout: timeout,
	}
}

var _ DashboardServer = (*GRPCHandlers)(nil)

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrNoDashboard):
		return status.Error(codes.FailedPrecondition, "no dashboard selected")
	case errors.Is(err, service.ErrUnknownDashboard), errors.Is(err, service.ErrUnknownGauge):
		s.logger.Info("not found", zap.String("op", op), zap.Error(err))
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrInvalidFilter):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, dashboard.ErrRefreshThrottled):
		return status.Error(codes.ResourceExhausted, "refresh requested too often, try again shortly")
	case errors.Is(err, dashboard.ErrFetchFailure):
		s.logger.Error("record fetch failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Unavailable, "data source unavailable, retry later")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func (s *GRPCHandlers) respond(op string, v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		s.logger.Error("response encoding failed", zap.String("op", op), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
	return out, nil
}

func (s *GRPCHandlers) ListDashboards(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.respond("ListDashboards", map[string]any{"dashboards": s.svc.ListDashboards(ctx)})
}

func (s *GRPCHandlers) SelectDashboard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	slug := stringField(req, "slug")
	if slug == "" {
		return nil, status.Error(codes.InvalidArgument, "slug is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	summary, err := s.svc.SelectDashboard(ctx, slug)
	if err != nil {
		return nil, s.handleError(ctx, "SelectDashboard", err)
	}
	return s.respond("SelectDashboard", map[string]any{"dashboard": summary})
}

func (s *GRPCHandlers) SetFilters(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	u, err := parseFilterUpdate(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	filters, err := s.svc.SetFilters(ctx, u)
	if err != nil {
		return nil, s.handleError(ctx, "SetFilters", err)
	}
	return s.respond("SetFilters", map[string]any{"filters": filters})
}

func (s *GRPCHandlers) ResetFilters(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.respond("ResetFilters", map[string]any{"filters": s.svc.ResetFilters(ctx)})
}

func (s *GRPCHandlers) GetGaugeData(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	data, err := s.svc.GaugeData(ctx)
	if err != nil {
		return nil, s.handleError(ctx, "GetGaugeData", err)
	}
	return s.respond("GetGaugeData", data)
}

func (s *GRPCHandlers) DrillDown(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	gaugeID := stringField(req, "gaugeId")
	if gaugeID == "" {
		return nil, status.Error(codes.InvalidArgument, "gaugeId is required")
	}
	data, err := s.svc.DrillDown(ctx, gaugeID, parseClick(req))
	if err != nil {
		return nil, s.handleError(ctx, "DrillDown", err)
	}
	return s.respond("DrillDown", data)
}

func (s *GRPCHandlers) ToggleGauge(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	gaugeID := stringField(req, "gaugeId")
	if gaugeID == "" {
		return nil, status.Error(codes.InvalidArgument, "gaugeId is required")
	}
	expanded, err := s.svc.ToggleGauge(ctx, gaugeID)
	if err != nil {
		return nil, s.handleError(ctx, "ToggleGauge", err)
	}
	return s.respond("ToggleGauge", map[string]any{"expandedGaugeId": expanded})
}

func (s *GRPCHandlers) Refresh(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	st, err := s.svc.Refresh(ctx)
	if err != nil {
		return nil, s.handleError(ctx, "Refresh", err)
	}
	return s.respond("Refresh", map[string]any{"status": st})
}

func (s *GRPCHandlers) GetStatus(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.respond("GetStatus", map[string]any{"status": s.svc.Status(ctx)})
}

func (s *GRPCHandlers) ListGaugeTypes(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.respond("ListGaugeTypes", map[string]any{"types": s.svc.GaugeTypes(ctx)})
}

func (s *GRPCHandlers) GetFilterOptions(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.respond("GetFilterOptions", s.svc.FilterOptions(ctx))
}
