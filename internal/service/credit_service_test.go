package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/credit-strategy/internal/models"
)

func newCreditService() *CreditService {
	return NewCreditService(CreditServiceConfig{}, nil)
}

func TestClassifyValidated(t *testing.T) {
	svc := newCreditService()
	c := svc.Classify(models.Module{
		Code: "G-AIA-400", Credits: 5, Registered: true, StudentCredits: 5,
	})

	assert.Equal(t, models.StatusValidated, c.Status)
	assert.Equal(t, 5, c.Amount)
	assert.Equal(t, "AI & Machine Learning", c.Category.Name)
	assert.False(t, c.Bonus)
}

func TestClassifyPendingUsesModuleCredits(t *testing.T) {
	svc := newCreditService()
	c := svc.Classify(models.Module{
		Code: "G-SEC-300", Credits: 3, Registered: true, StudentCredits: 0,
	})

	assert.Equal(t, models.StatusPending, c.Status)
	assert.Equal(t, 3, c.Amount)
}

func TestClassifyUnregistered(t *testing.T) {
	svc := newCreditService()
	// Unregistered with stray student credits still contributes nothing.
	c := svc.Classify(models.Module{
		Code: "G-OOP-200", Credits: 4, Registered: false, StudentCredits: 2,
	})

	assert.Equal(t, models.StatusUnregistered, c.Status)
	assert.Equal(t, 0, c.Amount)
}

func TestClassifyUnknownCodeFallsBack(t *testing.T) {
	svc := newCreditService()
	c := svc.Classify(models.Module{Code: "X-UNKNOWN", Registered: true, Credits: 2})

	assert.Equal(t, "Other", c.Category.Name)
	assert.Equal(t, models.StatusPending, c.Status)
}

func TestAccumulateSplitsBuckets(t *testing.T) {
	svc := newCreditService()
	modules := []models.Module{
		{Code: "G-AIA-400", Credits: 5, Registered: true, StudentCredits: 5},
		{Code: "G-INN-100", Credits: 3, Registered: true, StudentCredits: 0},
		{Code: "G-SEC-300", Credits: 3, Registered: true, StudentCredits: 0},
		{Code: "G-OOP-200", Credits: 4, Registered: false, StudentCredits: 0},
		{Code: "G-INN-200", Credits: 2, Registered: true, StudentCredits: 2},
	}

	credit := svc.Accumulate(7, modules)

	assert.Equal(t, 7, credit.Semester)
	assert.Equal(t, 5, credit.Validated)
	assert.Equal(t, 3, credit.Pending)
	assert.Equal(t, 2, credit.InnovationValidated)
	assert.Equal(t, 3, credit.InnovationPending)
}

func TestAccumulateIgnoresUnregistered(t *testing.T) {
	svc := newCreditService()
	credit := svc.Accumulate(1, []models.Module{
		{Code: "G-AIA-100", Credits: 5, Registered: false, StudentCredits: 9},
		{Code: "G-INN-100", Credits: 3, Registered: false},
	})

	assert.Zero(t, credit.Validated)
	assert.Zero(t, credit.Pending)
	assert.Zero(t, credit.InnovationValidated)
	assert.Zero(t, credit.InnovationPending)
}

func TestSummarizeYear(t *testing.T) {
	svc := newCreditService()
	totals := svc.SummarizeYear(map[int]models.SemesterCredit{
		5: {Semester: 5, Validated: 25, Pending: 5, InnovationPending: 2},
		6: {Semester: 6, Validated: 15, Pending: 5, InnovationValidated: 1},
	})

	assert.Equal(t, 40, totals.Validated)
	assert.Equal(t, 10, totals.Pending)
	assert.Equal(t, 1, totals.InnovationValidated)
	assert.Equal(t, 2, totals.InnovationPending)
	assert.Equal(t, 60, totals.Goal)
	assert.Equal(t, 10, totals.RemainingToGoal)
	assert.Equal(t, 50, totals.PotentialTotal())
	assert.Equal(t, 53, totals.PotentialWithInnovation())
}

func TestSummarizeYearClampsRemaining(t *testing.T) {
	svc := newCreditService()
	totals := svc.SummarizeYear(map[int]models.SemesterCredit{
		1: {Validated: 55, Pending: 10},
	})

	assert.Equal(t, 0, totals.RemainingToGoal)
}

func TestSummarizeYearOrderIndependent(t *testing.T) {
	svc := newCreditService()
	a := map[int]models.SemesterCredit{
		1: {Validated: 10, Pending: 4},
		2: {Validated: 20, Pending: 6, InnovationValidated: 3},
		3: {Validated: 5},
	}
	b := map[int]models.SemesterCredit{
		3: a[3],
		1: a[1],
		2: a[2],
	}

	require.Equal(t, svc.SummarizeYear(a), svc.SummarizeYear(b))
}

func TestSummarizeYearCustomGoal(t *testing.T) {
	svc := NewCreditService(CreditServiceConfig{YearGoal: 30}, nil)
	totals := svc.SummarizeYear(map[int]models.SemesterCredit{
		1: {Validated: 12, Pending: 6},
	})

	assert.Equal(t, 30, totals.Goal)
	assert.Equal(t, 12, totals.RemainingToGoal)
}
