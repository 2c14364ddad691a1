package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/heysubinoy/solardb/internal/dao"
	"github.com/heysubinoy/solardb/internal/site"
	"google.golang.org/grpc/codes"
)

// Repository is the site DAO surface exposed over HTTP and gRPC.
type Repository interface {
	Insert(ctx context.Context, s site.Site) error
	InsertMany(ctx context.Context, sites ...site.Site) error
	InsertManyAtomic(ctx context.Context, sites ...site.Site) error
	FindByID(ctx context.Context, id int64) (site.Site, error)
	FindAll(ctx context.Context) (map[int64]site.Site, error)
}

var _ Repository = (*dao.SiteRepository)(nil)

// classify maps repository errors to an HTTP status and a gRPC code.
func classify(err error) (int, codes.Code) {
	switch {
	case errors.Is(err, dao.ErrNotFound):
		return http.StatusNotFound, codes.NotFound
	case errors.Is(err, dao.ErrConsistency):
		return http.StatusInternalServerError, codes.DataLoss
	case errors.Is(err, site.ErrDecode):
		return http.StatusInternalServerError, codes.Internal
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, codes.Canceled
	default:
		return http.StatusInternalServerError, codes.Unavailable
	}
}
