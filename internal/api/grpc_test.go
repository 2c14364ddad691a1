package api

import (
	"context"
	"net"
	"testing"

	"github.com/heysubinoy/solardb/internal/dao"
	"github.com/heysubinoy/solardb/internal/site"
	"github.com/heysubinoy/solardb/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func newTestClient(t *testing.T) (*SiteServiceClient, *store.MemStore) {
	t.Helper()
	mem := store.NewMemStore()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterSiteServiceServer(srv, NewGRPCServer(dao.New(mem, apiKeys), nil))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewSiteServiceClient(conn), mem
}

func grpcSite(id int64) site.Site {
	return site.Site{
		ID: id, Capacity: 4.5, Panels: 3, Address: "910 Pine St", City: "Oakland",
		State: "CA", PostalCode: "94577", Coordinate: site.Coordinate{Lat: 37.739659, Lng: -122.255689},
	}
}

func TestGRPC_InsertAndFindByID(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	_, err := client.Insert(ctx, SiteToStruct(grpcSite(9007199254740993)))
	require.NoError(t, err)

	resp, err := client.FindByID(ctx, wrapperspb.Int64(9007199254740993))
	require.NoError(t, err)

	got, err := SiteFromStruct(resp)
	require.NoError(t, err)
	assert.Equal(t, grpcSite(9007199254740993), got)
}

func TestGRPC_InsertManyAndFindAll(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	_, err := client.InsertMany(ctx, BatchToStruct([]site.Site{grpcSite(1), grpcSite(2), grpcSite(3)}, true))
	require.NoError(t, err)

	list, err := client.FindAll(ctx, &emptypb.Empty{})
	require.NoError(t, err)

	var ids []int64
	for _, v := range list.GetValues() {
		st, err := SiteFromStruct(v.GetStructValue())
		require.NoError(t, err)
		ids = append(ids, st.ID)
	}
	assert.ElementsMatch(t, []int64{1, 2, 3}, ids)
}

func TestGRPC_StatusCodes(t *testing.T) {
	ctx := context.Background()
	client, mem := newTestClient(t)

	_, err := client.FindByID(ctx, wrapperspb.Int64(404))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.Insert(ctx, &structpb.Struct{Fields: map[string]*structpb.Value{
		"id": structpb.NewNumberValue(1),
	}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.InsertMany(ctx, &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	require.NoError(t, mem.SAdd(ctx, apiKeys.SiteIDsKey(), "4"))
	_, err = client.FindAll(ctx, &emptypb.Empty{})
	assert.Equal(t, codes.DataLoss, status.Code(err))
}
