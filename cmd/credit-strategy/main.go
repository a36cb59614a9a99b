package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/credit-strategy/internal/intra"
	"github.com/noah-isme/credit-strategy/internal/models"
	"github.com/noah-isme/credit-strategy/internal/service"
	"github.com/noah-isme/credit-strategy/pkg/config"
	apperrors "github.com/noah-isme/credit-strategy/pkg/errors"
	"github.com/noah-isme/credit-strategy/pkg/export"
	"github.com/noah-isme/credit-strategy/pkg/logger"
	"github.com/noah-isme/credit-strategy/pkg/storage"
)

type options struct {
	cookie   string
	semester int
	output   string
	format   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "credit-strategy",
		Short:         "Generate a Gantt-style credit planning spreadsheet from the school intranet",
		Long:          "Fetches the student's modules and project activities from the intranet and renders a week-by-week timeline with credit accounting.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.cookie, "cookie", "c", "", "intranet session cookie (full cookie string or user token; falls back to INTRA_COOKIE)")
	cmd.Flags().IntVarP(&opts.semester, "semester", "s", 0, "semester number (default: latest available)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file path (default: <output dir>/credit_strategy_S<semester>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "xlsx", "output format: xlsx, csv or pdf")

	return cmd
}

func run(ctx context.Context, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return err
	}
	if opts.cookie != "" {
		cfg.Intra.Cookie = opts.cookie
	}
	if cfg.Intra.Cookie == "" {
		log.Print("no intranet cookie: pass --cookie or set INTRA_COOKIE")
		return fmt.Errorf("missing intranet cookie")
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return err
	}
	defer logr.Sync() //nolint:errcheck
	logr, _ = logger.ForRun(logr)

	client := intra.NewClient(cfg.Intra, logr)
	creditSvc := service.NewCreditService(service.CreditServiceConfig{YearGoal: cfg.Credits.YearGoal}, logr)
	fetchSvc := service.NewFetchService(client, creditSvc, service.FetchServiceConfig{Location: cfg.Intra.Location}, logr)
	timelineSvc := service.NewTimelineService(logr)
	reportSvc := service.NewReportService(logr)

	latest, listed, err := fetchSvc.LatestSemester(ctx)
	if err != nil {
		return reportFailure(logr, "could not reach the intranet", err)
	}
	semester := opts.semester
	if semester == 0 {
		semester = latest
		logr.Info("auto-detected latest semester", zap.Int("semester", semester))
	}
	logr.Info("connected to intranet",
		zap.Int("modules_listed", listed),
		zap.Int("semester", semester))

	user, err := fetchSvc.FetchUserInfo(ctx)
	if err != nil {
		logr.Warn("could not fetch user info, skipping credit summary", zap.Error(err))
		user = nil
	} else {
		logr.Info("student profile",
			zap.String("name", user.Name),
			zap.Int("year", user.StudentYear),
			zap.Int("promo", user.Promo),
			zap.Int("credits", user.Credits),
			zap.Int("year_credits", user.YearCredits()),
			zap.Float64("gpa", user.GPA))
	}

	// Year 1 covers S1-S2, year 2 covers S3-S4, and so on. The second
	// semester is only scanned once the student has reached it.
	yearCredits := map[int]models.SemesterCredit{}
	if user != nil {
		firstSem := (user.StudentYear-1)*2 + 1
		secondSem := firstSem + 1

		for _, sem := range []int{firstSem, secondSem} {
			if sem == secondSem && semester < secondSem {
				continue
			}
			credit, err := fetchSvc.ScanSemesterCredits(ctx, sem)
			if err != nil {
				if apperrors.IsAuthorization(err) {
					return reportFailure(logr, "credit scan rejected", err)
				}
				logr.Warn("credit scan failed, skipping semester",
					zap.Int("semester", sem), zap.Error(err))
				continue
			}
			yearCredits[sem] = credit
			logr.Info("semester credits scanned",
				zap.Int("semester", sem),
				zap.Int("validated", credit.Validated),
				zap.Int("pending", credit.Pending),
				zap.Int("innovation_validated", credit.InnovationValidated),
				zap.Int("innovation_pending", credit.InnovationPending))
		}
	}

	modules, err := fetchSvc.FetchModules(ctx, semester)
	if err != nil {
		return reportFailure(logr, "module fetch failed", err)
	}
	if len(modules) == 0 {
		logr.Info("no modules found for semester, nothing to do", zap.Int("semester", semester))
		return nil
	}

	timelineSvc.FilterProjects(modules)

	minDate, maxDate, err := timelineSvc.DateRange(modules)
	if err != nil {
		if apperrors.IsEmptyResult(err) {
			logr.Info("no dates found, nothing to do")
			return nil
		}
		return reportFailure(logr, "date range", err)
	}

	grid, err := timelineSvc.BuildWeekGrid(minDate, maxDate)
	if err != nil {
		return reportFailure(logr, "week grid", err)
	}
	logr.Info("timeline span",
		zap.String("from", minDate.Format("2006-01-02")),
		zap.String("to", maxDate.Format("2006-01-02")),
		zap.Int("weeks", len(grid)),
		zap.Int("modules", len(modules)))

	in := service.AssembleInput{
		Semester:    semester,
		Rows:        timelineSvc.Layout(modules, grid),
		Grid:        grid,
		User:        user,
		YearCredits: yearCredits,
		Totals:      creditSvc.SummarizeYear(yearCredits),
	}

	sheet, err := reportSvc.Assemble(in)
	if err != nil {
		if apperrors.IsEmptyResult(err) {
			logr.Info("empty report, nothing to do")
			return nil
		}
		return reportFailure(logr, "report assembly", err)
	}

	payload, err := render(reportSvc, sheet, in, opts.format)
	if err != nil {
		return reportFailure(logr, "render", err)
	}

	store, err := storage.NewLocalStorage(cfg.Output.Dir)
	if err != nil {
		return reportFailure(logr, "output directory", err)
	}
	filename := opts.output
	if filename == "" {
		filename = fmt.Sprintf("credit_strategy_S%d.%s", semester, opts.format)
	}
	path, err := store.Save(filename, payload)
	if err != nil {
		return reportFailure(logr, "save report", err)
	}

	logr.Info("report written",
		zap.String("file", path),
		zap.Int("modules", len(modules)))
	return nil
}

func render(reportSvc *service.ReportService, sheet *export.Sheet, in service.AssembleInput, format string) ([]byte, error) {
	switch format {
	case "xlsx":
		return export.NewXLSXExporter().Render(sheet)
	case "csv":
		return export.NewCSVExporter().Render(reportSvc.SummaryDataset(in))
	case "pdf":
		return export.NewPDFExporter().Render(reportSvc.SummaryDataset(in), sheet.Title)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func reportFailure(logr *zap.Logger, msg string, err error) error {
	appErr := apperrors.FromError(err)
	logr.Error(msg,
		zap.String("code", appErr.Code),
		zap.Error(err))
	switch {
	case apperrors.IsAuthorization(err):
		logr.Error("the session cookie is invalid or expired, grab a fresh one from the intranet")
	case apperrors.IsTransient(err):
		logr.Error("the intranet did not respond after retries, try again in a few minutes")
	}
	return err
}
