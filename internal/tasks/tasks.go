package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/abx/internal/extract"
	"github.com/desertthunder/abx/internal/models"
	"github.com/desertthunder/abx/internal/shared"
	"github.com/desertthunder/abx/internal/source"
)

// DefaultProgressBuffer is the event buffer used when none is configured.
const DefaultProgressBuffer = 64

// Engine runs contact operations against sources produced by an [source.Opener].
//
// Every operation opens its own source handle and closes it before finishing, so an Engine is safe for
// concurrent use.
type Engine struct {
	open      source.Opener
	extractor *extract.Extractor
	logger    *log.Logger
	buffer    int
}

// NewEngine creates an Engine. A nil logger discards output; a non-positive buffer uses
// [DefaultProgressBuffer].
func NewEngine(open source.Opener, logger *log.Logger, buffer int) *Engine {
	if logger == nil {
		logger = shared.NewDiscardLogger()
	}
	if buffer <= 0 {
		buffer = DefaultProgressBuffer
	}
	return &Engine{
		open:      open,
		extractor: extract.New(logger),
		logger:    logger,
		buffer:    buffer,
	}
}

// Count returns the number of contact records in the source.
func (e *Engine) Count(ctx context.Context) (int, error) {
	src, err := e.openSource(ctx)
	if err != nil {
		return 0, err
	}
	defer e.closeSource(src)

	n, err := src.Count(ctx)
	if err != nil {
		return 0, unavailable(err)
	}
	return n, nil
}

// Get extracts the contact at index.
func (e *Engine) Get(ctx context.Context, index int) (models.ContactRecord, error) {
	src, err := e.openSource(ctx)
	if err != nil {
		return models.ContactRecord{}, err
	}
	defer e.closeSource(src)

	n, err := src.Count(ctx)
	if err != nil {
		return models.ContactRecord{}, unavailable(err)
	}
	if index < 0 || index >= n {
		return models.ContactRecord{}, fmt.Errorf("%w: index %d, %d records available", shared.ErrOutOfRange, index, n)
	}

	rec, err := src.Record(ctx, index)
	if err != nil {
		if errors.Is(err, shared.ErrOutOfRange) {
			return models.ContactRecord{}, err
		}
		return models.ContactRecord{}, unavailable(err)
	}
	return e.extractRecord(rec), nil
}

// Me extracts the address-book owner's card.
func (e *Engine) Me(ctx context.Context) (models.ContactRecord, error) {
	src, err := e.openSource(ctx)
	if err != nil {
		return models.ContactRecord{}, err
	}
	defer e.closeSource(src)

	owner, ok := src.(source.OwnerSource)
	if !ok {
		return models.ContactRecord{}, fmt.Errorf("%w: source does not track an owner", shared.ErrNoOwner)
	}

	rec, err := owner.Me(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNoOwner) {
			return models.ContactRecord{}, err
		}
		return models.ContactRecord{}, unavailable(err)
	}
	return e.extractRecord(rec), nil
}

// Start launches a background [Job] enumerating every contact and returns without blocking.
//
// Cancelling ctx, or calling [Job.Cancel], fails the job at the next record boundary.
func (e *Engine) Start(ctx context.Context) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := newJob(e.buffer, cancel)
	j.logger = shared.WithLogger(e.logger, "job", j.id)
	j.state.Store(int32(Running))

	go e.run(ctx, j)
	return j
}

func (e *Engine) run(ctx context.Context, j *Job) {
	defer close(j.events)
	defer j.cancel()

	j.logger.Debug("enumeration started")
	contacts, err := e.enumerate(ctx, j)
	if err != nil {
		j.state.Store(int32(Failed))
		j.logger.Warn("enumeration failed", "err", err)
		j.finish(ctx, Event{Err: err})
		return
	}

	j.state.Store(int32(Completed))
	j.logger.Debug("enumeration completed", "count", len(contacts))
	j.finish(ctx, Event{Contacts: contacts})
}

// enumerate reads every record in index order. Any error discards what was read.
func (e *Engine) enumerate(ctx context.Context, j *Job) ([]models.ContactRecord, error) {
	src, err := e.openSource(ctx)
	if err != nil {
		return nil, err
	}
	defer e.closeSource(src)

	total, err := src.Count(ctx)
	if err != nil {
		return nil, unavailable(err)
	}

	contacts := make([]models.ContactRecord, 0, total)
	for i := range total {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("cancelled after %d of %d records: %w", i, total, err)
		}

		rec, err := src.Record(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("reading record %d of %d: %w", i, total, unavailable(err))
		}
		c := e.extractRecord(rec)
		contacts = append(contacts, c)

		if err := j.emit(ctx, readContactUpdate(i+1, total, c)); err != nil {
			return nil, fmt.Errorf("cancelled after %d of %d records: %w", i+1, total, err)
		}
	}
	return contacts, nil
}

func (e *Engine) extractRecord(rec source.Record) models.ContactRecord {
	defer func() {
		if err := rec.Close(); err != nil {
			e.logger.Warn("failed to release record", "err", err)
		}
	}()
	return e.extractor.Extract(rec)
}

func (e *Engine) openSource(ctx context.Context) (source.Source, error) {
	if e.open == nil {
		return nil, fmt.Errorf("%w: no source configured", shared.ErrSourceUnavailable)
	}
	src, err := e.open(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	return src, nil
}

func (e *Engine) closeSource(src source.Source) {
	if err := src.Close(); err != nil {
		e.logger.Warn("failed to close source", "err", err)
	}
}

// unavailable tags err with [shared.ErrSourceUnavailable] unless it already is.
func unavailable(err error) error {
	if errors.Is(err, shared.ErrSourceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", shared.ErrSourceUnavailable, err)
}
