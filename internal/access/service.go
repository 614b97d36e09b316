package access

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/taggate/taggate/internal/models"
	"github.com/taggate/taggate/pkg/metrics"
)

var (
	ErrMissingTag  = errors.New("tag is required")
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
)

// Publisher delivers a persisted access log to live subscribers. Publish must
// never block and never fail the caller; delivery is best-effort.
type Publisher interface {
	Publish(log models.AccessLog)
}

// NopPublisher discards events. Useful when no real-time channel is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(models.AccessLog) {}

// Service implements the access-check write path and the log query read path.
type Service struct {
	resolver *Resolver
	logs     LogRepository
	pub      Publisher
	now      func() time.Time
}

func NewService(resolver *Resolver, logs LogRepository, pub Publisher) *Service {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &Service{resolver: resolver, logs: logs, pub: pub, now: time.Now}
}

// RecordAccess validates a scan, resolves the tag to a user, persists an
// immutable log record and, only after the write succeeded, publishes the
// record to subscribers. The returned log is exactly what was stored.
//
// Name/matric are copied from the user at this instant; later edits to the
// User record never change historical logs.
func (s *Service) RecordAccess(ctx context.Context, tag, clientTimestamp string) (*models.AccessLog, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, ErrMissingTag
	}

	user, err := s.resolver.Resolve(ctx, tag)
	if err != nil {
		return nil, err
	}

	log := &models.AccessLog{
		Tag:       tag,
		Name:      "Unknown",
		Status:    models.AccessDenied,
		Timestamp: s.decideTimestamp(clientTimestamp),
	}
	if user != nil {
		log.Status = models.AccessGranted
		log.Name = user.Name
		log.Matric = user.Matric
	}

	if err := s.logs.Insert(ctx, log); err != nil {
		// nothing was stored, so nothing may be broadcast
		return nil, err
	}
	metrics.AccessDecisions.WithLabelValues(string(log.Status)).Inc()
	s.pub.Publish(*log)
	return log, nil
}

// decideTimestamp prefers a parseable client-supplied instant (normalized to
// UTC) and falls back to server time. An unparseable value is not an error;
// the tag is the only required input.
func (s *Service) decideTimestamp(clientTimestamp string) time.Time {
	clientTimestamp = strings.TrimSpace(clientTimestamp)
	if clientTimestamp != "" {
		if t, err := time.Parse(time.RFC3339Nano, clientTimestamp); err == nil {
			return t.UTC()
		}
		// zone-less ISO-8601 as produced by older reader firmware; taken as UTC
		if t, err := time.Parse("2006-01-02T15:04:05.999999999", clientTimestamp); err == nil {
			return t.UTC()
		}
	}
	return s.now().UTC()
}

// FindByDate returns the logs recorded on the given calendar day (UTC), i.e.
// timestamps in [d 00:00, d+1 00:00). A day with no logs yields an empty
// slice, not an error. Order is the repository's natural order and stable
// within one call.
func (s *Service) FindByDate(ctx context.Context, date string) ([]models.AccessLog, error) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	start := day
	end := day.AddDate(0, 0, 1)
	return s.logs.FindInRange(ctx, start, end)
}

// AllLogs returns every stored access log. Full-collection scan; kept for
// dashboard compatibility.
func (s *Service) AllLogs(ctx context.Context) ([]models.AccessLog, error) {
	return s.logs.FindAll(ctx)
}
