package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/credit-strategy/internal/models"
)

// DefaultYearGoal is the credit target of one academic year.
const DefaultYearGoal = 60

// CreditServiceConfig tunes credit accounting.
type CreditServiceConfig struct {
	YearGoal int
}

// CreditService classifies modules into credit buckets and aggregates
// per-semester and per-year totals.
type CreditService struct {
	cfg    CreditServiceConfig
	logger *zap.Logger
}

// NewCreditService constructs a CreditService.
func NewCreditService(cfg CreditServiceConfig, logger *zap.Logger) *CreditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.YearGoal <= 0 {
		cfg.YearGoal = DefaultYearGoal
	}
	return &CreditService{cfg: cfg, logger: logger}
}

// Classify derives a module's category, status and credit contribution from
// its raw registration fields. It never fails: unknown codes land in the
// "Other" category and missing fields behave as zero values.
func (s *CreditService) Classify(m models.Module) models.Classification {
	c := models.Classification{
		Category: models.CategoryFor(m.Code),
		Bonus:    m.IsBonus(),
	}

	switch {
	case !m.Registered:
		c.Status = models.StatusUnregistered
	case m.StudentCredits > 0:
		c.Status = models.StatusValidated
		c.Amount = m.StudentCredits
	default:
		c.Status = models.StatusPending
		c.Amount = m.Credits
	}

	return c
}

// Accumulate sums one semester's classified modules into a SemesterCredit,
// keeping regular and bonus buckets apart. Unregistered modules contribute
// nothing regardless of their fields.
func (s *CreditService) Accumulate(semester int, modules []models.Module) models.SemesterCredit {
	credit := models.SemesterCredit{Semester: semester}

	for _, m := range modules {
		c := s.Classify(m)
		switch c.Status {
		case models.StatusValidated:
			if c.Bonus {
				credit.InnovationValidated += c.Amount
			} else {
				credit.Validated += c.Amount
			}
		case models.StatusPending:
			if c.Bonus {
				credit.InnovationPending += c.Amount
			} else {
				credit.Pending += c.Amount
			}
		}
	}

	return credit
}

// SummarizeYear reduces per-semester credits into year totals. The reduction
// only sums values, so the map's iteration order cannot affect the result.
func (s *CreditService) SummarizeYear(perSemester map[int]models.SemesterCredit) models.YearTotals {
	totals := models.YearTotals{Goal: s.cfg.YearGoal}

	for _, sem := range perSemester {
		totals.Validated += sem.Validated
		totals.Pending += sem.Pending
		totals.InnovationValidated += sem.InnovationValidated
		totals.InnovationPending += sem.InnovationPending
	}

	remaining := totals.Goal - totals.Validated - totals.Pending
	if remaining < 0 {
		remaining = 0
	}
	totals.RemainingToGoal = remaining

	return totals
}
