package bulkimport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trama-erp/trama-erp/internal/observability"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
	"github.com/trama-erp/trama-erp/internal/shared"
)

// Options bounds an import run. Zero values fall back to the defaults
// used in production.
type Options struct {
	RowTimeout time.Duration
	RunTimeout time.Duration
	BatchSize  int
	BatchPause time.Duration
}

func (o Options) withDefaults() Options {
	if o.RowTimeout <= 0 {
		o.RowTimeout = 30 * time.Second
	}
	if o.RunTimeout <= 0 {
		o.RunTimeout = 5 * time.Minute
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 25
	}
	if o.BatchPause < 0 {
		o.BatchPause = 0
	}
	return o
}

// Mapping binds a CSV column to a destination field. Required marks
// columns the caller insists on beyond what the target itself demands.
type Mapping struct {
	CSVColumn string `json:"csvColumn"`
	DBField   string `json:"dbField"`
	Required  bool   `json:"required"`
}

// Result is the import report returned to the client. Row numbers in
// Errors and Duplicates count from 2: line 1 is the CSV header.
type Result struct {
	Success        bool     `json:"success"`
	Imported       int      `json:"imported"`
	Duplicates     []string `json:"duplicates"`
	Errors         []string `json:"errors"`
	Message        string   `json:"message"`
	ProcessingTime string   `json:"processingTime"`
}

// Engine runs imports against any Target.
type Engine struct {
	logger  *slog.Logger
	metrics *observability.Metrics
	opts    Options
}

// NewEngine creates an import engine.
func NewEngine(logger *slog.Logger, metrics *observability.Metrics, opts Options) *Engine {
	return &Engine{logger: logger, metrics: metrics, opts: opts.withDefaults()}
}

// Run imports rows into target. Rows are processed in file order; a row
// failure never aborts the run. When the run deadline expires the
// partial Result is returned together with httpx.ErrTimeout.
func (e *Engine) Run(ctx context.Context, target Target, rows []map[string]string, mappings []Mapping) (Result, error) {
	opts := e.opts
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, opts.RunTimeout)
	defer cancel()

	res := Result{Duplicates: []string{}, Errors: []string{}}
	fields := target.Fields()
	byField := make(map[string]Mapping, len(mappings))
	for _, m := range mappings {
		byField[m.DBField] = m
	}
	naturalKey := target.NaturalKey()
	seen := make(map[string]bool, len(rows))
	timedOut := false

rowLoop:
	for i, raw := range rows {
		line := i + 2

		// Batches are counted in rows processed, not rows imported:
		// duplicate-heavy files still hit storage once per row and
		// must pace the same way.
		if i > 0 && i%opts.BatchSize == 0 && opts.BatchPause > 0 {
			select {
			case <-ctx.Done():
				timedOut = true
				break rowLoop
			case <-time.After(opts.BatchPause):
			}
		}

		select {
		case <-ctx.Done():
			timedOut = true
			break rowLoop
		default:
		}

		record := make(map[string]any, len(fields))
		rowOK := true
		for _, f := range fields {
			m := byField[f.Name]
			cell := raw[m.CSVColumn]
			value, err := coerce(f, cell)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Linha %d: %s", line, err))
				rowOK = false
				continue
			}
			if (f.Required || m.Required) && value == nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Linha %d: Campo obrigatório '%s' está vazio", line, f.Name))
				rowOK = false
				continue
			}
			record[f.Name] = value
		}
		if !rowOK {
			continue
		}

		keyValue, _ := record[naturalKey].(string)
		folded := shared.Fold(keyValue)
		if seen[folded] {
			res.Duplicates = append(res.Duplicates, fmt.Sprintf("Linha %d: %s '%s' já existe", line, target.Label(), keyValue))
			continue
		}

		if err := e.insertRow(ctx, target, folded, record); err != nil {
			switch {
			case errors.Is(err, httpx.ErrDuplicate):
				res.Duplicates = append(res.Duplicates, fmt.Sprintf("Linha %d: %s '%s' já existe", line, target.Label(), keyValue))
			case errors.Is(err, context.DeadlineExceeded):
				if ctx.Err() != nil {
					timedOut = true
					break rowLoop
				}
				res.Errors = append(res.Errors, fmt.Sprintf("Linha %d: tempo limite excedido", line))
			default:
				res.Errors = append(res.Errors, fmt.Sprintf("Linha %d: %s", line, err))
			}
			continue
		}

		res.Imported++
		seen[folded] = true
	}

	res.Success = res.Imported > 0
	res.ProcessingTime = time.Since(started).Round(time.Millisecond).String()
	res.Message = fmt.Sprintf("%d registros importados, %d duplicados, %d erros",
		res.Imported, len(res.Duplicates), len(res.Errors))

	e.metrics.CountImportRows(target.Name(), "imported", res.Imported)
	e.metrics.CountImportRows(target.Name(), "duplicate", len(res.Duplicates))
	e.metrics.CountImportRows(target.Name(), "error", len(res.Errors))

	e.logger.Info("import finished",
		slog.String("entity", target.Name()),
		slog.Int("rows", len(rows)),
		slog.Int("imported", res.Imported),
		slog.Int("duplicates", len(res.Duplicates)),
		slog.Int("errors", len(res.Errors)),
		slog.Bool("timeout", timedOut),
		slog.Duration("elapsed", time.Since(started)))

	if timedOut {
		res.Message = fmt.Sprintf("Importação interrompida por tempo limite: %s", res.Message)
		return res, httpx.ErrTimeout
	}
	return res, nil
}

// insertRow runs the duplicate probe and insert under the per-row
// deadline.
func (e *Engine) insertRow(ctx context.Context, target Target, folded string, record map[string]any) error {
	rowCtx, cancel := context.WithTimeout(ctx, e.opts.RowTimeout)
	defer cancel()

	exists, err := target.Exists(rowCtx, folded)
	if err != nil {
		return err
	}
	if exists {
		return httpx.ErrDuplicate
	}
	return target.Insert(rowCtx, record)
}
