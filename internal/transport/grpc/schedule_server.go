package grpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"

	"vietchef/backend/internal/domain"
)

const ScheduleServiceName = "vietchef.schedules.v1.ScheduleService"

type scheduleService interface {
	CreateScheduleBlock(ctx context.Context, chefID uuid.UUID, weekday int, start, end domain.TimeOfDay) (domain.ScheduleBlock, error)
	UpdateScheduleBlock(ctx context.Context, chefID, blockID uuid.UUID, start, end domain.TimeOfDay) (domain.ScheduleBlock, error)
	DeleteScheduleBlock(ctx context.Context, chefID, blockID uuid.UUID) error
	BlockDate(ctx context.Context, chefID uuid.UUID, date time.Time, start, end domain.TimeOfDay, reason string) (domain.BlockedInterval, error)
	UnblockDate(ctx context.Context, chefID, blockedID uuid.UUID) error
}

type ScheduleServer struct {
	svc scheduleService
	log *slog.Logger
}

func NewScheduleServer(svc scheduleService, log *slog.Logger) *ScheduleServer {
	if log == nil {
		log = slog.Default()
	}
	return &ScheduleServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.schedules")),
	}
}

var scheduleServiceDesc = grpc.ServiceDesc{
	ServiceName: ScheduleServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		unary(ScheduleServiceName, "CreateBlock", (*ScheduleServer).CreateBlock),
		unary(ScheduleServiceName, "UpdateBlock", (*ScheduleServer).UpdateBlock),
		unary(ScheduleServiceName, "DeleteBlock", (*ScheduleServer).DeleteBlock),
		unary(ScheduleServiceName, "BlockDate", (*ScheduleServer).BlockDate),
		unary(ScheduleServiceName, "UnblockDate", (*ScheduleServer).UnblockDate),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterScheduleServer(r grpc.ServiceRegistrar, srv *ScheduleServer) {
	r.RegisterService(&scheduleServiceDesc, srv)
}

func (s *ScheduleServer) CreateBlock(ctx context.Context, req *CreateBlockRequest) (*BlockResponse, error) {
	log := rpcLogger(ctx, s.log, "CreateBlock")

	chefID, err := parseUUID("chef_id", req.ChefID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_chef_id"))
		return nil, err
	}
	start, end, err := parseTimes(req.StartTime, req.EndTime)
	if err != nil {
		log.Warn("invalid request", slog.Any("err", err), slog.String("chef_id", req.ChefID))
		return nil, err
	}

	block, err := s.svc.CreateScheduleBlock(ctx, chefID, req.Weekday, start, end)
	if err != nil {
		return nil, statusFromError(ctx, log, "schedule block create", err,
			slog.String("chef_id", req.ChefID), slog.Int("weekday", req.Weekday))
	}

	log.Info("schedule block created",
		slog.String("block_id", block.ID.String()),
		slog.String("chef_id", req.ChefID),
		slog.Int("weekday", block.Weekday),
	)
	return &BlockResponse{Block: toWireBlock(block)}, nil
}

func (s *ScheduleServer) UpdateBlock(ctx context.Context, req *UpdateBlockRequest) (*BlockResponse, error) {
	log := rpcLogger(ctx, s.log, "UpdateBlock")

	chefID, err := parseUUID("chef_id", req.ChefID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_chef_id"))
		return nil, err
	}
	blockID, err := parseUUID("block_id", req.BlockID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_block_id"), slog.String("chef_id", req.ChefID))
		return nil, err
	}
	start, end, err := parseTimes(req.StartTime, req.EndTime)
	if err != nil {
		log.Warn("invalid request", slog.Any("err", err), slog.String("chef_id", req.ChefID))
		return nil, err
	}

	block, err := s.svc.UpdateScheduleBlock(ctx, chefID, blockID, start, end)
	if err != nil {
		return nil, statusFromError(ctx, log, "schedule block update", err,
			slog.String("chef_id", req.ChefID), slog.String("block_id", req.BlockID))
	}

	log.Info("schedule block updated", slog.String("block_id", req.BlockID), slog.String("chef_id", req.ChefID))
	return &BlockResponse{Block: toWireBlock(block)}, nil
}

func (s *ScheduleServer) DeleteBlock(ctx context.Context, req *DeleteBlockRequest) (*Empty, error) {
	log := rpcLogger(ctx, s.log, "DeleteBlock")

	chefID, err := parseUUID("chef_id", req.ChefID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_chef_id"))
		return nil, err
	}
	blockID, err := parseUUID("block_id", req.BlockID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_block_id"), slog.String("chef_id", req.ChefID))
		return nil, err
	}

	if err := s.svc.DeleteScheduleBlock(ctx, chefID, blockID); err != nil {
		return nil, statusFromError(ctx, log, "schedule block delete", err,
			slog.String("chef_id", req.ChefID), slog.String("block_id", req.BlockID))
	}

	log.Info("schedule block deleted", slog.String("block_id", req.BlockID), slog.String("chef_id", req.ChefID))
	return &Empty{}, nil
}

func (s *ScheduleServer) BlockDate(ctx context.Context, req *BlockDateRequest) (*BlockedDateResponse, error) {
	log := rpcLogger(ctx, s.log, "BlockDate")

	chefID, err := parseUUID("chef_id", req.ChefID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_chef_id"))
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_date"), slog.String("chef_id", req.ChefID))
		return nil, err
	}
	start, end, err := parseTimes(req.StartTime, req.EndTime)
	if err != nil {
		log.Warn("invalid request", slog.Any("err", err), slog.String("chef_id", req.ChefID))
		return nil, err
	}

	blocked, err := s.svc.BlockDate(ctx, chefID, date, start, end, req.Reason)
	if err != nil {
		return nil, statusFromError(ctx, log, "date block", err,
			slog.String("chef_id", req.ChefID), slog.String("date", req.Date))
	}

	log.Info("date blocked",
		slog.String("blocked_id", blocked.ID.String()),
		slog.String("chef_id", req.ChefID),
		slog.String("date", req.Date),
	)
	return &BlockedDateResponse{Blocked: toWireBlockedDate(blocked)}, nil
}

func (s *ScheduleServer) UnblockDate(ctx context.Context, req *UnblockDateRequest) (*Empty, error) {
	log := rpcLogger(ctx, s.log, "UnblockDate")

	chefID, err := parseUUID("chef_id", req.ChefID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_chef_id"))
		return nil, err
	}
	blockedID, err := parseUUID("blocked_id", req.BlockedID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_blocked_id"), slog.String("chef_id", req.ChefID))
		return nil, err
	}

	if err := s.svc.UnblockDate(ctx, chefID, blockedID); err != nil {
		return nil, statusFromError(ctx, log, "date unblock", err,
			slog.String("chef_id", req.ChefID), slog.String("blocked_id", req.BlockedID))
	}

	log.Info("date unblocked", slog.String("blocked_id", req.BlockedID), slog.String("chef_id", req.ChefID))
	return &Empty{}, nil
}

func parseTimes(rawStart, rawEnd string) (domain.TimeOfDay, domain.TimeOfDay, error) {
	start, err := parseTimeOfDay("start_time", rawStart)
	if err != nil {
		return 0, 0, err
	}
	end, err := parseTimeOfDay("end_time", rawEnd)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
