package fulfillment

import (
	"fmt"
	"strconv"
	"strings"

	"bloodlink-backend/internal/domain"
)

// Validation rule tags, in check order.
const (
	RuleDonorIdentity = "donor_identity"
	RuleUnitsPositive = "units_positive"
	RuleUnitsExceed   = "units_exceed_remaining"
)

// ValidationError reports the first pledge intake rule that failed.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PledgeInput carries the raw pledge form fields. Units arrives as text
// because that is how the form submits it.
type PledgeInput struct {
	DonorName  string
	DonorPhone string
	Units      string
	Notes      string
}

// ValidatePledge gates a pledge submission. Rules run in a fixed order and
// the first violation wins: identity fields present, units a positive
// integer, units within the request's remaining count. On success it returns
// the normalized pledge payload, ready for insertion; it performs no I/O.
func ValidatePledge(in PledgeInput, remaining int32) (*domain.Pledge, error) {
	name := strings.TrimSpace(in.DonorName)
	phone := strings.TrimSpace(in.DonorPhone)
	if name == "" || phone == "" {
		return nil, &ValidationError{
			Rule:    RuleDonorIdentity,
			Message: "donor name and phone are required",
		}
	}

	units, err := strconv.ParseInt(strings.TrimSpace(in.Units), 10, 32)
	if err != nil || units <= 0 {
		return nil, &ValidationError{
			Rule:    RuleUnitsPositive,
			Message: "units must be a positive whole number",
		}
	}

	if int32(units) > remaining {
		return nil, &ValidationError{
			Rule:    RuleUnitsExceed,
			Message: fmt.Sprintf("only %d units are still needed", remaining),
		}
	}

	p := &domain.Pledge{
		DonorName:    name,
		DonorPhone:   phone,
		UnitsPledged: int32(units),
		Status:       domain.PledgeStatusPledged,
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		p.Notes = &notes
	}
	return p, nil
}
