package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/credit-strategy/internal/dto"
	"github.com/noah-isme/credit-strategy/internal/models"
	apperrors "github.com/noah-isme/credit-strategy/pkg/errors"
)

type intranetAPI interface {
	ListModules(ctx context.Context, semester int) ([]dto.ModuleSummary, error)
	GetModuleDetail(ctx context.Context, scolaryear int, code, instance string) (*dto.ModuleDetail, error)
	GetUserProfile(ctx context.Context) (*dto.UserProfile, error)
}

// FetchServiceConfig narrows which listed modules are relevant.
type FetchServiceConfig struct {
	Location string
}

// FetchService turns raw intranet records into domain modules. Per-module
// detail failures never abort a run: the credit scan drops the module's
// contribution (totals must stay accurate), while the full fetch keeps the
// module with an empty activity list (the timeline wants completeness).
type FetchService struct {
	api     intranetAPI
	credits *CreditService
	cfg     FetchServiceConfig
	logger  *zap.Logger
}

// NewFetchService constructs a FetchService.
func NewFetchService(api intranetAPI, credits *CreditService, cfg FetchServiceConfig, logger *zap.Logger) *FetchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FetchService{api: api, credits: credits, cfg: cfg, logger: logger}
}

// LatestSemester lists every module and returns the highest semester number
// found, defaulting to 1 when the listing carries none.
func (s *FetchService) LatestSemester(ctx context.Context) (int, int, error) {
	summaries, err := s.api.ListModules(ctx, 0)
	if err != nil {
		return 0, 0, err
	}

	latest := 0
	for _, m := range summaries {
		if m.Semester > latest {
			latest = m.Semester
		}
	}
	if latest == 0 {
		latest = 1
	}
	return latest, len(summaries), nil
}

// ScanSemesterCredits quickly totals one semester's credits without building
// activity timelines. Modules whose detail fetch fails are dropped from the
// totals.
func (s *FetchService) ScanSemesterCredits(ctx context.Context, semester int) (models.SemesterCredit, error) {
	summaries, err := s.api.ListModules(ctx, semester)
	if err != nil {
		return models.SemesterCredit{}, err
	}

	var modules []models.Module
	for _, summary := range s.relevant(summaries) {
		detail, err := s.api.GetModuleDetail(ctx, summary.ScolarYear.Int(), summary.Code, summary.CodeInstance)
		if err != nil {
			if apperrors.IsAuthorization(err) {
				return models.SemesterCredit{}, err
			}
			s.logger.Warn("credit scan: dropping module after failed detail fetch",
				zap.String("code", summary.Code),
				zap.Error(err))
			continue
		}
		modules = append(modules, moduleFromDetail(summary, detail, semester))
	}

	return s.credits.Accumulate(semester, modules), nil
}

// FetchModules builds the full module list for one semester, activities
// included. A failed detail fetch degrades that module to its summary data
// with no activities instead of removing it.
func (s *FetchService) FetchModules(ctx context.Context, semester int) ([]models.Module, error) {
	summaries, err := s.api.ListModules(ctx, semester)
	if err != nil {
		return nil, err
	}

	relevant := s.relevant(summaries)
	s.logger.Info("fetching module details",
		zap.Int("semester", semester),
		zap.Int("modules", len(relevant)))

	modules := make([]models.Module, 0, len(relevant))
	for _, summary := range relevant {
		detail, err := s.api.GetModuleDetail(ctx, summary.ScolarYear.Int(), summary.Code, summary.CodeInstance)
		if err != nil {
			if apperrors.IsAuthorization(err) {
				return nil, err
			}
			s.logger.Warn("keeping module without activities after failed detail fetch",
				zap.String("code", summary.Code),
				zap.Error(err))
			modules = append(modules, moduleFromSummary(summary, semester))
			continue
		}
		m := moduleFromDetail(summary, detail, semester)
		s.logger.Debug("module fetched",
			zap.String("code", m.Code),
			zap.Int("activities", len(m.Activities)),
			zap.Bool("registered", m.Registered),
			zap.Int("student_credits", m.StudentCredits))
		modules = append(modules, m)
	}

	return modules, nil
}

// FetchUserInfo retrieves the student profile snapshot.
func (s *FetchService) FetchUserInfo(ctx context.Context) (*models.UserInfo, error) {
	profile, err := s.api.GetUserProfile(ctx)
	if err != nil {
		return nil, err
	}
	return &models.UserInfo{
		Login:       profile.Login,
		Name:        profile.Title,
		Semester:    profile.Semester,
		StudentYear: profile.StudentYear,
		Promo:       profile.Promo,
		Credits:     profile.Credits.Int(),
		GPA:         profile.GPAValue(),
	}, nil
}

// relevant keeps records for the configured campus that carry credits.
func (s *FetchService) relevant(summaries []dto.ModuleSummary) []dto.ModuleSummary {
	kept := make([]dto.ModuleSummary, 0, len(summaries))
	for _, m := range summaries {
		if m.InstanceLocation != s.cfg.Location {
			continue
		}
		if m.Credits.Int() <= 0 {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

func moduleFromDetail(summary dto.ModuleSummary, detail *dto.ModuleDetail, semester int) models.Module {
	title := detail.Title
	if title == "" {
		title = summary.Title
	}

	activities := make([]models.Activity, 0, len(detail.Activities))
	for _, act := range detail.Activities {
		begin := act.BeginDate()
		end := act.EndDate()
		if begin == nil || end == nil {
			continue
		}
		activities = append(activities, models.Activity{
			Title:       act.Title,
			TypeTitle:   act.TypeTitle,
			Begin:       *begin,
			End:         *end,
			ModuleTitle: title,
		})
	}

	m := models.Module{
		ID:             summary.ID,
		Code:           summary.Code,
		Instance:       summary.CodeInstance,
		Title:          title,
		Credits:        detail.Credits.Int(),
		Semester:       semester,
		ScolarYear:     summary.ScolarYear.Int(),
		Activities:     activities,
		Registered:     detail.StudentRegistered.Int() == 1,
		StudentCredits: detail.StudentCredits.Int(),
	}
	if detail.Begin != nil && !detail.Begin.IsZero() {
		t := detail.Begin.Time
		m.Begin = &t
	}
	if detail.End != nil && !detail.End.IsZero() {
		t := detail.End.Time
		m.End = &t
	}
	return m
}

func moduleFromSummary(summary dto.ModuleSummary, semester int) models.Module {
	return models.Module{
		ID:         summary.ID,
		Code:       summary.Code,
		Instance:   summary.CodeInstance,
		Title:      summary.Title,
		Credits:    summary.Credits.Int(),
		Semester:   semester,
		ScolarYear: summary.ScolarYear.Int(),
	}
}
