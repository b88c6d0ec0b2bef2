package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"lifeexp/internal/logging"
	"lifeexp/internal/parser/csv"
	"lifeexp/internal/table"
)

// Options configures the default strategies.
type Options struct {
	// Comma overrides the delimiter of .tsv (tab) and .csv (comma) inputs.
	Comma rune

	// NAValues defaults to csv.DefaultNAValues when nil.
	NAValues  []string
	TrimSpace bool

	Logger *slog.Logger
}

// Handler dispatches loads to a Strategy keyed by extension.
type Handler struct {
	logger     *slog.Logger
	strategies map[string]Strategy
	forced     Strategy
}

// NewHandler returns a Handler with .tsv, .csv, .json and .zip registered.
// Zip entries are dispatched on the same delimited and JSON strategies.
func NewHandler(opts Options) *Handler {
	log := logging.OrDefault(opts.Logger)
	na := opts.NAValues
	if na == nil {
		na = csv.DefaultNAValues
	}
	delimited := func(comma rune) Strategy {
		if opts.Comma != 0 {
			comma = opts.Comma
		}
		return NewDelimited(csv.Options{Comma: comma, TrimSpace: opts.TrimSpace, NAValues: na, Logger: log})
	}

	flat := map[string]Strategy{
		".tsv":  delimited('\t'),
		".csv":  delimited(','),
		".json": NewJSON(log),
	}
	h := &Handler{logger: log, strategies: map[string]Strategy{}}
	for ext, s := range flat {
		h.strategies[ext] = s
	}
	h.strategies[".zip"] = &Archive{Inner: flat}
	return h
}

// NewEmptyHandler returns a Handler with no strategies registered.
func NewEmptyHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logging.OrDefault(logger), strategies: map[string]Strategy{}}
}

// Register binds ext (with or without the leading dot) to s.
func (h *Handler) Register(ext string, s Strategy) {
	h.strategies[normalizeExt(ext)] = s
}

// SetStrategy forces s for every path regardless of extension. Nil
// restores extension dispatch.
func (h *Handler) SetStrategy(s Strategy) { h.forced = s }

// StrategyFor resolves the strategy for path. format, when set, names the
// extension to use instead of the path's own ("tsv", "json", ...).
func (h *Handler) StrategyFor(path, format string) (Strategy, error) {
	if h.forced != nil {
		return h.forced, nil
	}
	ext := filepath.Ext(path)
	if format != "" {
		ext = format
	}
	if s, ok := h.strategies[normalizeExt(ext)]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%s: %w", path, ErrNoStrategy)
}

// Load reads path with the resolved strategy. Failures are logged and
// returned together with an empty table.
func (h *Handler) Load(ctx context.Context, path, format string) (*table.Table, error) {
	s, err := h.StrategyFor(path, format)
	if err != nil {
		h.logger.Error(Message(path, err))
		return table.Empty(), err
	}
	t, err := s.Load(ctx, path)
	if err != nil {
		h.logger.Error(Message(path, err), "err", err)
		return table.Empty(), err
	}
	h.logger.Info("loaded input", "path", path, "rows", t.Len(), "columns", len(t.Columns))
	return t, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
