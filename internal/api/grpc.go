package api

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/heysubinoy/solardb/internal/site"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// GRPCServer implements SiteServiceServer over a Repository.
type GRPCServer struct {
	Repo   Repository
	Logger hclog.Logger
}

var _ SiteServiceServer = (*GRPCServer)(nil)

// NewGRPCServer creates a new gRPC server with the given repository.
func NewGRPCServer(repo Repository, logger hclog.Logger) *GRPCServer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GRPCServer{
		Repo:   repo,
		Logger: logger,
	}
}

// Insert stores one site.
func (s *GRPCServer) Insert(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	st, err := SiteFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := s.Repo.Insert(ctx, st); err != nil {
		return nil, s.toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

// InsertMany stores a batch of sites, all-or-nothing when "atomic" is set.
func (s *GRPCServer) InsertMany(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	sites, atomic, err := batchFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if atomic {
		err = s.Repo.InsertManyAtomic(ctx, sites...)
	} else {
		err = s.Repo.InsertMany(ctx, sites...)
	}
	if err != nil {
		return nil, s.toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

// FindByID returns one site.
func (s *GRPCServer) FindByID(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	st, err := s.Repo.FindByID(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(err)
	}
	return SiteToStruct(st), nil
}

// FindAll returns every site.
func (s *GRPCServer) FindAll(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	all, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, s.toStatus(err)
	}

	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(all))}
	for _, st := range all {
		list.Values = append(list.Values, structpb.NewStructValue(SiteToStruct(st)))
	}
	return list, nil
}

func (s *GRPCServer) toStatus(err error) error {
	_, code := classify(err)
	if code != codes.NotFound {
		s.Logger.Error("rpc failed", "code", code, "error", err)
	}
	return status.Error(code, err.Error())
}

// SiteToStruct encodes a site with the flat field encoding.
func SiteToStruct(st site.Site) *structpb.Struct {
	fields := site.Dump(st)
	out := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}
	for k, v := range fields {
		out.Fields[k] = structpb.NewStringValue(v)
	}
	return out
}

// SiteFromStruct decodes a struct produced by SiteToStruct.
func SiteFromStruct(in *structpb.Struct) (site.Site, error) {
	fields := make(map[string]string, len(in.GetFields()))
	for k, v := range in.GetFields() {
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return site.Site{}, fmt.Errorf("field %q must be a string", k)
		}
		fields[k] = sv.StringValue
	}
	return site.Load(fields)
}

// BatchToStruct builds an InsertMany request.
func BatchToStruct(sites []site.Site, atomic bool) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(sites))
	for _, st := range sites {
		values = append(values, structpb.NewStructValue(SiteToStruct(st)))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"sites":  structpb.NewListValue(&structpb.ListValue{Values: values}),
		"atomic": structpb.NewBoolValue(atomic),
	}}
}

func batchFromStruct(in *structpb.Struct) ([]site.Site, bool, error) {
	list := in.GetFields()["sites"].GetListValue()
	if list == nil {
		return nil, false, fmt.Errorf("sites list is required")
	}

	sites := make([]site.Site, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		st, err := SiteFromStruct(v.GetStructValue())
		if err != nil {
			return nil, false, fmt.Errorf("sites[%d]: %w", i, err)
		}
		sites = append(sites, st)
	}
	return sites, in.GetFields()["atomic"].GetBoolValue(), nil
}
