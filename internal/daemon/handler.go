package daemon

import (
	"context"
	"os"

	"github.com/berrythewa/cliphistory/internal/ipc"
	"github.com/berrythewa/cliphistory/internal/types"
)

// Handle answers one IPC request. Mutations go through the controller so the
// window stays in step with the store.
func (d *Daemon) Handle(_ context.Context, req *ipc.Request) *ipc.Response {
	switch req.Command {
	case ipc.CmdHistoryList:
		search, _ := req.StringArg("search")
		entries := d.store.Entries(search)
		total := len(entries)
		if limit, ok := req.IntArg("limit"); ok && limit > 0 && limit < len(entries) {
			entries = entries[:limit]
		}
		return ipc.OK(req, "", ipc.HistoryList{Entries: entries, Total: total})

	case ipc.CmdHistoryDelete:
		text, ok := req.StringArg("text")
		if !ok {
			return ipc.Errorf(req, "missing argument %q", "text")
		}
		if !d.store.Contains(text) {
			return ipc.Errorf(req, "entry not found")
		}
		if err := d.controller.RequestDelete(text); err != nil {
			return ipc.Errorf(req, "%v", err)
		}
		return ipc.OK(req, "Item removed from history", nil)

	case ipc.CmdHistoryClear:
		if err := d.controller.RequestClear(); err != nil {
			return ipc.Errorf(req, "%v", err)
		}
		return ipc.OK(req, "History cleared", nil)

	case ipc.CmdHistoryCopy:
		text, ok := req.StringArg("text")
		if !ok || text == "" {
			return ipc.Errorf(req, "missing argument %q", "text")
		}
		if err := d.controller.RequestCopy(text); err != nil {
			return ipc.Errorf(req, "%v", err)
		}
		return ipc.OK(req, "Text copied to clipboard", nil)

	case ipc.CmdStatus:
		return ipc.OK(req, "", d.Status())

	case ipc.CmdShow:
		if d.onShow == nil {
			return ipc.Errorf(req, "instance has no window")
		}
		d.onShow()
		return ipc.OK(req, "", nil)

	default:
		return ipc.Errorf(req, "unknown command %q", req.Command)
	}
}

// Status describes the running instance.
func (d *Daemon) Status() types.InstanceStatus {
	return types.InstanceStatus{
		PID:         os.Getpid(),
		Version:     d.version,
		StartedAt:   d.startedAt,
		HistoryPath: d.store.Path(),
		Entries:     d.store.Len(),
		MaxEntries:  d.store.MaxEntries(),
		Watcher:     d.watcher.Status(),
	}
}
