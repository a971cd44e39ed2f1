package daemon

import (
	"go.uber.org/zap"

	"github.com/berrythewa/cliphistory/internal/history"
)

// LogPresenter stands in for the window when running headless.
type LogPresenter struct {
	logger *zap.Logger
}

var (
	_ history.Presenter = (*LogPresenter)(nil)
	_ history.Notifier  = (*LogPresenter)(nil)
)

func NewLogPresenter(logger *zap.Logger) *LogPresenter {
	return &LogPresenter{logger: logger}
}

func (p *LogPresenter) Prepend(text string) {
	p.logger.Debug("Entry added", zap.Int("length", len(text)))
}

func (p *LogPresenter) ReplaceAll(entries []string) {
	p.logger.Debug("View replaced", zap.Int("entries", len(entries)))
}

func (p *LogPresenter) Remove(text string) {
	p.logger.Debug("Entry removed", zap.Int("length", len(text)))
}

func (p *LogPresenter) Clear() {
	p.logger.Debug("View cleared")
}

func (p *LogPresenter) Notify(message string) {
	p.logger.Info(message)
}
