// Package report derives the screening findings attached to a positive
// result. The values are demonstration estimates, not measurements; rendering
// them into a document is the caller's concern.
package report

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// Size boundaries in cm that drive the danger and urgency rules.
const (
	dangerSizeCM = 3.0
	urgentSizeCM = 4.0
)

// Findings describes an estimated tumor for a positive screening result.
type Findings struct {
	ID                  string  // short report identifier
	SizeCM              float64 // estimated diameter, cm
	Dangerous           bool    // size above the danger boundary
	LifeExpectancyYears int
	TreatmentWindow     string
}

// NewFindings generates findings from the given random source. Sizes are
// uniform in [0.5, 5.0] cm rounded to two decimals; danger, life expectancy
// and the treatment window follow from the size.
func NewFindings(rng *rand.Rand) Findings {
	size := roundCM(0.5 + rng.Float64()*4.5)
	f := Findings{
		ID:        NewReportID(),
		SizeCM:    size,
		Dangerous: size > dangerSizeCM,
	}

	if f.Dangerous {
		f.LifeExpectancyYears = 1 + rng.Intn(5)
		if size > urgentSizeCM {
			f.TreatmentWindow = "within 1 month"
		} else {
			f.TreatmentWindow = "within 3 months"
		}
	} else {
		f.LifeExpectancyYears = 10 + rng.Intn(21)
		f.TreatmentWindow = "within 6 months"
	}
	return f
}

// NewReportID returns a short unique identifier for a screening report.
func NewReportID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (f Findings) String() string {
	danger := "LOW"
	if f.Dangerous {
		danger = "HIGH"
	}
	return fmt.Sprintf("report %s: %.2f cm, danger %s, life expectancy %d years, treatment %s",
		f.ID, f.SizeCM, danger, f.LifeExpectancyYears, f.TreatmentWindow)
}

func roundCM(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
