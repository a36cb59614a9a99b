package service

import (
	"strconv"
	"time"

	"github.com/noah-isme/credit-strategy/internal/models"
	"github.com/noah-isme/credit-strategy/pkg/export"
)

// SummaryDataset flattens the report into the Dataset shape the CSV and PDF
// sinks consume. Formula totals are recomputed eagerly here.
func (s *ReportService) SummaryDataset(in AssembleInput) export.Dataset {
	headers := []string{"Module", "Category", "Code", "Credits", "Status", "Begin", "End"}
	data := export.Dataset{Headers: headers}

	available, registered, bonusRegistered := 0, 0, 0
	hasBonus := false

	for _, row := range in.Rows {
		m := row.Module
		if row.Bonus {
			hasBonus = true
			if m.Registered {
				bonusRegistered += m.Credits
			}
		} else {
			available += m.Credits
			if m.Registered {
				registered += m.Credits
			}
		}

		data.Rows = append(data.Rows, map[string]string{
			"Module":   m.DisplayTitle(in.Semester),
			"Category": row.Category.Name,
			"Code":     m.Code,
			"Credits":  strconv.Itoa(m.Credits),
			"Status":   statusLabel(m),
			"Begin":    formatDate(m.Begin),
			"End":      formatDate(m.End),
		})
	}

	totalRow := func(label string, credits int) map[string]string {
		return map[string]string{"Module": label, "Credits": strconv.Itoa(credits)}
	}

	data.Rows = append(data.Rows, totalRow("TOTAL AVAILABLE", available))
	data.Rows = append(data.Rows, totalRow("TOTAL REGISTERED", registered))
	if hasBonus {
		data.Rows = append(data.Rows, totalRow("TOTAL BONUS (if validated)", bonusRegistered))
	}

	if in.User != nil && len(in.YearCredits) > 0 {
		totals := in.Totals
		data.Rows = append(data.Rows, totalRow("YEAR VALIDATED", totals.Validated))
		data.Rows = append(data.Rows, totalRow("YEAR PENDING", totals.Pending))
		if totals.HasInnovation() {
			data.Rows = append(data.Rows, totalRow("YEAR INNOVATION VALIDATED", totals.InnovationValidated))
			data.Rows = append(data.Rows, totalRow("YEAR INNOVATION PENDING", totals.InnovationPending))
		}
		data.Rows = append(data.Rows, totalRow("YEAR GOAL", totals.Goal))
		data.Rows = append(data.Rows, totalRow("REMAINING TO GOAL", totals.RemainingToGoal))
		data.Rows = append(data.Rows, totalRow("POTENTIAL TOTAL", totals.PotentialTotal()))
		if totals.HasInnovation() {
			data.Rows = append(data.Rows, totalRow("WITH INNOVATION", totals.PotentialWithInnovation()))
		}
	}

	return data
}

func statusLabel(m models.Module) string {
	switch {
	case !m.Registered:
		return "not registered"
	case m.StudentCredits > 0:
		return "validated (+" + strconv.Itoa(m.StudentCredits) + ")"
	default:
		return "pending"
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
