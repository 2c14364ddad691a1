package api

import (
	"cmp"
	"encoding/json"
	"net"
	"net/http"
	"slices"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	"github.com/heysubinoy/solardb/internal/site"
)

// Server exposes the site repository over HTTP.
// Raft is optional; when set, only the leader serves requests.
type Server struct {
	Repo     Repository
	Raft     *raft.Raft
	HTTPPort string
	Logger   hclog.Logger
}

// NewServer creates a new HTTP server over repo.
func NewServer(repo Repository, raftNode *raft.Raft, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Server{
		Repo:     repo,
		Raft:     raftNode,
		HTTPPort: "8080",
		Logger:   logger,
	}
}

// RegisterRoutes registers all HTTP handlers on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /sites", s.handleFindAll)
	mux.HandleFunc("GET /sites/{id}", s.handleFindByID)
	mux.HandleFunc("POST /sites", s.handleInsert)
}

// handleFindAll handles GET /sites.
// Returns every site as a JSON array ordered by id.
func (s *Server) handleFindAll(w http.ResponseWriter, r *http.Request) {
	if s.redirectToLeader(w, r) {
		return
	}

	all, err := s.Repo.FindAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	sites := make([]site.Site, 0, len(all))
	for _, st := range all {
		sites = append(sites, st)
	}
	slices.SortFunc(sites, func(a, b site.Site) int {
		return cmp.Compare(a.ID, b.ID)
	})

	writeJSON(w, http.StatusOK, sites)
}

// handleFindByID handles GET /sites/{id}.
func (s *Server) handleFindByID(w http.ResponseWriter, r *http.Request) {
	if s.redirectToLeader(w, r) {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid site id", http.StatusBadRequest)
		return
	}

	st, err := s.Repo.FindByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, st)
}

// handleInsert handles POST /sites with a JSON site or array of sites.
// With ?atomic=true a batch is stored all-or-nothing.
func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	if s.redirectToLeader(w, r) {
		return
	}

	sites, err := site.ReadJSON(r.Body)
	if err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if len(sites) == 0 {
		http.Error(w, "No sites in request", http.StatusBadRequest)
		return
	}

	atomic := false
	if v := r.URL.Query().Get("atomic"); v != "" {
		atomic, err = strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "Invalid atomic parameter", http.StatusBadRequest)
			return
		}
	}

	switch {
	case len(sites) == 1:
		err = s.Repo.Insert(r.Context(), sites[0])
	case atomic:
		err = s.Repo.InsertManyAtomic(r.Context(), sites...)
	default:
		err = s.Repo.InsertMany(r.Context(), sites...)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// redirectToLeader answers with a redirect when this node is a Raft
// follower. It reports whether the request was handled.
func (s *Server) redirectToLeader(w http.ResponseWriter, r *http.Request) bool {
	if s.Raft == nil || s.Raft.State() == raft.Leader {
		return false
	}

	leader, _ := s.Raft.LeaderWithID()
	if leader == "" {
		http.Error(w, "Not leader and no leader known", http.StatusServiceUnavailable)
		return true
	}

	host, _, err := net.SplitHostPort(string(leader))
	if err != nil {
		host = string(leader)
	}
	w.Header().Set("Location", "http://"+net.JoinHostPort(host, s.HTTPPort)+r.URL.RequestURI())
	http.Error(w, "Not leader. Redirect to leader.", http.StatusTemporaryRedirect)
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, _ := classify(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
