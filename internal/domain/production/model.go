package production

import (
	"fmt"
	"strings"
	"time"

	"github.com/mahdibujari75/Sampling-App/internal/domain/formulation"
	"github.com/mahdibujari75/Sampling-App/internal/domain/materials"
)

type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In progress"
	StatusWaiting    Status = "Waiting"
	StatusClosed     Status = "Closed"
)

var statuses = []Status{StatusOpen, StatusInProgress, StatusWaiting, StatusClosed}

// ParseStatus matches a label ignoring case, spaces and underscores.
func ParseStatus(s string) (Status, error) {
	norm := func(v string) string {
		return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(v))
	}
	for _, st := range statuses {
		if norm(string(st)) == norm(s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("production: unknown status %q", s)
}

// Card is one subproject's selected formulation and its extracted items.
type Card struct {
	ID              string           `json:"id"`
	SubprojectID    int64            `json:"subprojectId"`
	SubprojectCode  string           `json:"subprojectCode"`
	CustomerSlug    string           `json:"customerSlug"`
	CustomerName    string           `json:"customerName"`
	Kind            formulation.Kind `json:"kind"`
	FormulationFile string           `json:"file"`
	Items           []materials.Item `json:"items"`
}

// DayPlan binds the cards of one production date. Materials is derived
// from the cards and never edited directly.
type DayPlan struct {
	Date      string
	DayNumber int
	Status    Status
	Cards     []Card
	Materials []materials.Item

	CreatedAt time.Time
	CreatedBy string
	UpdatedAt time.Time
	UpdatedBy string
}

// Summary is a row of the plan list.
type Summary struct {
	Date      string
	DayNumber int
	Status    Status
	Cards     int
	UpdatedAt time.Time
}
