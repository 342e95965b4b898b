package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/user"
)

const recordBuffer = 64

type (
	Repository interface {
		CreateEntry(ctx context.Context, entry Entry) error
		// FilterEntries applies AND operation on available QueryFilter fields
		// and paginates with core.AuditPageSize. It returns the requested
		// page (newest first) and the total match count.
		FilterEntries(ctx context.Context, filter QueryFilter) ([]Entry, int, error)
	}

	// Service records entries asynchronously through a buffered dispatcher
	// so guarded actions never block on the audit write; a full buffer drops
	// the entry and counts it rather than stalling the mutation.
	Service struct {
		repo   Repository
		logger core.Logger

		ch        chan Entry
		done      chan struct{}
		wg        sync.WaitGroup
		dropped   atomic.Uint64
		closeOnce sync.Once
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	svc := &Service{
		repo:   repo,
		logger: logger,
		ch:     make(chan Entry, recordBuffer),
		done:   make(chan struct{}),
	}
	svc.wg.Add(1)
	go svc.run()
	return svc
}

// Record enqueues an audit entry for the given action. actor may be the zero
// User when the actor is unknown.
func (svc *Service) Record(actor user.User, action Action, targetType, targetID, detail string) {
	entry := Entry{
		ID:         uuid.New().String(),
		CreatedAt:  time.Now().UTC(),
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
	}
	if actor.ID != "" {
		entry.ActorID = null.StringFrom(actor.ID)
		entry.ActorEmail = null.StringFrom(actor.Email)
	}

	select {
	case svc.ch <- entry:
	case <-svc.done:
	default:
		svc.dropped.Add(1)
	}
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Entry, int, error) {
	filter.Clean()
	return svc.repo.FilterEntries(ctx, filter)
}

// Dropped reports how many entries were discarded due to a full buffer.
func (svc *Service) Dropped() uint64 {
	return svc.dropped.Load()
}

// Close drains pending entries and stops the dispatcher.
func (svc *Service) Close() {
	svc.closeOnce.Do(func() {
		close(svc.done)
		svc.wg.Wait()
	})
}

func (svc *Service) run() {
	defer svc.wg.Done()

	for {
		select {
		case entry := <-svc.ch:
			svc.write(entry)
		case <-svc.done:
			for {
				select {
				case entry := <-svc.ch:
					svc.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (svc *Service) write(entry Entry) {
	if err := svc.repo.CreateEntry(context.Background(), entry); err != nil && svc.logger != nil {
		svc.logger.Error("writing audit entry", err)
	}
}
