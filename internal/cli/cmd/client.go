package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/berrythewa/cliphistory/internal/common"
	"github.com/berrythewa/cliphistory/internal/daemon"
	"github.com/berrythewa/cliphistory/internal/ipc"
	"github.com/berrythewa/cliphistory/internal/storage"
)

// errDirect tells callers to work on the history file themselves.
var errDirect = errors.New("no running instance")

// callInstance sends one request to the running instance. It returns
// errDirect when none is reachable, so commands can fall back to the file.
func callInstance(ctx context.Context, command string, args map[string]any) (*ipc.Response, error) {
	if !cfg.IPC.Enabled {
		return nil, errDirect
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := ipc.SendRequest(ctx, cfg.SocketPath(), ipc.NewRequest(command, args))
	if errors.Is(err, ipc.ErrNotRunning) || errors.Is(err, ipc.ErrUnsupported) {
		GetZapLogger().Debug("Using history file directly", zap.Error(err))
		return nil, errDirect
	}
	if err != nil {
		return nil, err
	}
	return resp, resp.Err()
}

// openStore opens the history file for commands run without an instance.
func openStore() (*storage.Store, error) {
	store, err := storage.Open(storage.Kind(cfg.Storage.Backend), cfg.HistoryPath(), storage.Options{
		MaxEntries: cfg.History.MaxEntries,
		Logger:     GetZapLogger().Named("storage"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// openStoreForWrite opens the history file for a change made without an
// instance. An instance that runs without IPC keeps its own copy of the
// history and would overwrite the change, so it is refused.
func openStoreForWrite() (*storage.Store, error) {
	if pid, ok := daemon.RunningPID(cfg); ok {
		return nil, fmt.Errorf("%w (pid %d) without a reachable socket; change the history from its window",
			daemon.ErrAlreadyRunning, pid)
	}
	return openStore()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// isTerminal reports whether w is a terminal, to decide on colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && common.IsTerminal(f)
}
