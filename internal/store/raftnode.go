package store

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"
)

// RaftConfig describes how a node joins the Raft cluster.
type RaftConfig struct {
	NodeID    string
	Addr      string
	DataDir   string
	Bootstrap bool
}

// OpenRaft starts a Raft node backed by BoltDB log storage and file
// snapshots under cfg.DataDir, with fsm as its state machine.
func OpenRaft(cfg RaftConfig, fsm raft.FSM, logger hclog.Logger) (*raft.Raft, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create raft data dir: %w", err)
	}

	rc := raft.DefaultConfig()
	rc.LocalID = raft.ServerID(cfg.NodeID)
	rc.Logger = logger.Named("raft")

	boltStore, err := raftboltdb.NewBoltStore(filepath.Join(cfg.DataDir, "raft.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt store: %w", err)
	}

	snapshots, err := raft.NewFileSnapshotStoreWithLogger(cfg.DataDir, 2, logger.Named("snapshots"))
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot store: %w", err)
	}

	addr, err := net.ResolveTCPAddr("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve raft addr: %w", err)
	}
	transport, err := raft.NewTCPTransportWithLogger(cfg.Addr, addr, 3, 10*time.Second, logger.Named("transport"))
	if err != nil {
		return nil, fmt.Errorf("failed to create raft transport: %w", err)
	}

	r, err := raft.NewRaft(rc, fsm, boltStore, boltStore, snapshots, transport)
	if err != nil {
		return nil, fmt.Errorf("failed to start raft: %w", err)
	}

	if cfg.Bootstrap {
		hasState, err := raft.HasExistingState(boltStore, boltStore, snapshots)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect raft state: %w", err)
		}
		if !hasState {
			r.BootstrapCluster(raft.Configuration{
				Servers: []raft.Server{{ID: rc.LocalID, Address: transport.LocalAddr()}},
			})
		}
	}

	return r, nil
}
