package models

// ModuleStatus captures the registration outcome the classifier derives from
// raw intranet fields.
type ModuleStatus string

const (
	// StatusValidated means registered with confirmed credits.
	StatusValidated ModuleStatus = "VALIDATED"
	// StatusPending means registered but credits not yet confirmed.
	StatusPending ModuleStatus = "PENDING"
	// StatusUnregistered means no active enrollment for the module.
	StatusUnregistered ModuleStatus = "UNREGISTERED"
)

// Classification is the classifier's verdict for one module.
type Classification struct {
	Category Category
	Status   ModuleStatus
	// Amount is the credit figure the status contributes: StudentCredits for
	// validated modules, the module's nominal credits for pending ones, zero
	// otherwise.
	Amount int
	Bonus  bool
}

// SemesterCredit accumulates one semester's credit figures, regular and
// bonus buckets kept apart.
type SemesterCredit struct {
	Semester            int
	Validated           int
	Pending             int
	InnovationValidated int
	InnovationPending   int
}

// HasInnovation reports whether any bonus credits were seen.
func (s SemesterCredit) HasInnovation() bool {
	return s.InnovationValidated > 0 || s.InnovationPending > 0
}

// YearTotals rolls per-semester credit figures up to the academic year.
type YearTotals struct {
	Validated           int
	Pending             int
	InnovationValidated int
	InnovationPending   int
	Goal                int
	RemainingToGoal     int
}

// PotentialTotal is the best case for regular credits: everything validated
// plus everything still pending.
func (y YearTotals) PotentialTotal() int {
	return y.Validated + y.Pending
}

// PotentialWithInnovation adds the bonus buckets on top of the potential
// total.
func (y YearTotals) PotentialWithInnovation() int {
	return y.PotentialTotal() + y.InnovationValidated + y.InnovationPending
}

// HasInnovation reports whether any bonus credits were seen across the year.
func (y YearTotals) HasInnovation() bool {
	return y.InnovationValidated > 0 || y.InnovationPending > 0
}
