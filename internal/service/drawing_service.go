package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/taprate/backend/internal/metrics"
	"github.com/taprate/backend/internal/model"
	"github.com/taprate/backend/internal/repository"
	"github.com/taprate/backend/internal/schedule"
	"github.com/taprate/backend/pkg/mailer"
)

// ErrNoEligibleEntries is returned when a due company has no non-winner
// entries left to draw from.
var ErrNoEligibleEntries = errors.New("no eligible entries found for drawing a winner")

// CompanyStore is the company persistence surface the drawing service
// needs.
type CompanyStore interface {
	FindDueLottery(ctx context.Context, now time.Time) ([]model.Company, error)
	FindLotteryByID(ctx context.Context, id string) (*model.Company, error)
	UpdateSchedule(ctx context.Context, id string, nextDrawingAt time.Time, lastDrawingAt *time.Time) error
}

// EntryStore is the entry persistence surface the drawing service needs.
type EntryStore interface {
	ListEligible(ctx context.Context, companyID string) ([]model.Entry, error)
	MarkWinner(ctx context.Context, entryID string, wonAt time.Time) error
}

// DrawingService runs lottery drawings: it finds due companies, picks a
// uniform random winner per company, advances each company's schedule
// and fires a best-effort winner notification. Companies are processed
// sequentially; one company's failure never aborts the batch.
type DrawingService struct {
	companies CompanyStore
	entries   EntryStore
	mail      mailer.Mailer

	// Injected so tests can pin the clock and the random selection.
	now  func() time.Time
	pick func(n int) int
}

// NewDrawingService creates a new DrawingService
func NewDrawingService(companies CompanyStore, entries EntryStore, mail mailer.Mailer) *DrawingService {
	return &DrawingService{
		companies: companies,
		entries:   entries,
		mail:      mail,
		now:       time.Now,
		pick:      rand.Intn,
	}
}

// Run processes one drawing invocation. With a company id the "due"
// filter is bypassed and that company is processed unconditionally,
// provided it is lottery mode; otherwise every due lottery company is
// processed. Only a persistence read failure aborts the invocation.
func (s *DrawingService) Run(ctx context.Context, companyID string) ([]model.DrawingResult, error) {
	now := s.now()
	forced := companyID != ""

	var companies []model.Company
	if forced {
		company, err := s.companies.FindLotteryByID(ctx, companyID)
		if err != nil {
			if errors.Is(err, repository.ErrCompanyNotFound) {
				// Unknown id or not a lottery company: nothing to process.
				return []model.DrawingResult{}, nil
			}
			return nil, err
		}
		companies = []model.Company{*company}
	} else {
		var err error
		companies, err = s.companies.FindDueLottery(ctx, now)
		if err != nil {
			return nil, err
		}
	}

	results := make([]model.DrawingResult, 0, len(companies))
	for _, company := range companies {
		result := s.processCompany(ctx, company, now, forced)
		metrics.DrawingOutcomes.WithLabelValues(result.Status).Inc()
		results = append(results, result)
	}

	return results, nil
}

// processCompany advances one company through the drawing state machine.
func (s *DrawingService) processCompany(ctx context.Context, company model.Company, now time.Time, forced bool) model.DrawingResult {
	result := model.DrawingResult{
		CompanyID:   company.ID,
		CompanyName: company.Name,
	}

	// First pass only establishes the cadence; no winner is drawn until
	// the computed drawing time actually arrives.
	if company.NextDrawingAt == nil {
		next := schedule.Next(company.DrawingFrequency, company.DrawingDay, now)
		if err := s.companies.UpdateSchedule(ctx, company.ID, next, nil); err != nil {
			slog.Error("failed to persist initial drawing schedule", "companyId", company.ID, "error", err)
			result.Status = model.DrawingStatusFailed
			result.Error = err.Error()
			return result
		}
		slog.Info("drawing scheduled", "companyId", company.ID, "nextDrawing", next)
		result.Status = model.DrawingStatusScheduled
		result.NextDrawing = &next
		return result
	}

	// Not due and not forced: another invocation already advanced the
	// schedule between the eligibility query and here.
	if !forced && company.NextDrawingAt.After(now) {
		result.Status = model.DrawingStatusScheduled
		result.NextDrawing = company.NextDrawingAt
		return result
	}

	winner, drawErr := s.drawWinner(ctx, company, now)

	// The schedule advances whether or not the draw produced a winner,
	// but last_drawing_at is only stamped on a successful draw.
	next := schedule.Next(company.DrawingFrequency, company.DrawingDay, now)
	var lastDrawingAt *time.Time
	if drawErr == nil {
		lastDrawingAt = &now
	}
	if err := s.companies.UpdateSchedule(ctx, company.ID, next, lastDrawingAt); err != nil {
		slog.Error("failed to advance drawing schedule", "companyId", company.ID, "error", err)
		if drawErr == nil {
			drawErr = err
		}
	}
	result.NextDrawing = &next

	if drawErr != nil {
		slog.Warn("drawing failed", "companyId", company.ID, "error", drawErr)
		result.Status = model.DrawingStatusFailed
		result.Error = drawErr.Error()
		if winner != nil {
			result.WinnerID = winner.ID
		}
		return result
	}

	slog.Info("drawing completed", "companyId", company.ID, "winnerId", winner.ID, "nextDrawing", next)
	result.Status = model.DrawingStatusDrawn
	result.WinnerID = winner.ID

	s.notifyWinner(ctx, company, winner)

	return result
}

// drawWinner picks one entry uniformly at random from the company's
// non-winner pool and flips its winner flag.
func (s *DrawingService) drawWinner(ctx context.Context, company model.Company, now time.Time) (*model.Entry, error) {
	pool, err := s.entries.ListEligible(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, ErrNoEligibleEntries
	}

	winner := pool[s.pick(len(pool))]
	if err := s.entries.MarkWinner(ctx, winner.ID, now); err != nil {
		return nil, err
	}

	return &winner, nil
}

// notifyWinner sends the "you won" email when the entry carries one.
// Delivery is at-most-once and best-effort: failures are logged and
// counted, never escalated, and the drawn outcome stands.
func (s *DrawingService) notifyWinner(ctx context.Context, company model.Company, winner *model.Entry) {
	if winner.Email == nil || *winner.Email == "" {
		return
	}

	if err := s.mail.SendWinnerNotification(ctx, *winner.Email, company.Name); err != nil {
		metrics.NotificationFailures.Inc()
		slog.Warn("failed to send winner notification", "companyId", company.ID, "entryId", winner.ID, "error", err)
	}
}
