package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Sites travel as flat string structs (the site codec's field encoding),
// so IDs and coordinates keep full precision on the wire.
const (
	siteServiceName       = "solar.v1.SiteService"
	siteServiceInsert     = "/" + siteServiceName + "/Insert"
	siteServiceInsertMany = "/" + siteServiceName + "/InsertMany"
	siteServiceFindByID   = "/" + siteServiceName + "/FindByID"
	siteServiceFindAll    = "/" + siteServiceName + "/FindAll"
)

// SiteServiceServer is the server API for the site service.
//
// InsertMany takes a struct with a "sites" list of site structs and an
// optional "atomic" bool.
type SiteServiceServer interface {
	Insert(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	InsertMany(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	FindByID(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	FindAll(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

// RegisterSiteServiceServer registers srv on s.
func RegisterSiteServiceServer(s grpc.ServiceRegistrar, srv SiteServiceServer) {
	s.RegisterService(&siteServiceDesc, srv)
}

var siteServiceDesc = grpc.ServiceDesc{
	ServiceName: siteServiceName,
	HandlerType: (*SiteServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Insert", Handler: unaryHandler(siteServiceInsert, SiteServiceServer.Insert)},
		{MethodName: "InsertMany", Handler: unaryHandler(siteServiceInsertMany, SiteServiceServer.InsertMany)},
		{MethodName: "FindByID", Handler: unaryHandler(siteServiceFindByID, SiteServiceServer.FindByID)},
		{MethodName: "FindAll", Handler: unaryHandler(siteServiceFindAll, SiteServiceServer.FindAll)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "solar/v1/site_service",
}

func unaryHandler[Req, Resp any](fullMethod string, call func(SiteServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SiteServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SiteServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// SiteServiceClient calls a remote site service.
type SiteServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSiteServiceClient creates a client over cc.
func NewSiteServiceClient(cc grpc.ClientConnInterface) *SiteServiceClient {
	return &SiteServiceClient{cc: cc}
}

func (c *SiteServiceClient) Insert(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, siteServiceInsert, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SiteServiceClient) InsertMany(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, siteServiceInsertMany, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SiteServiceClient) FindByID(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, siteServiceFindByID, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SiteServiceClient) FindAll(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, siteServiceFindAll, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
