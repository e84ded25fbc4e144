package service

import (
	"fmt"

	"osas-connect/internal/model"
)

// Renewal rule names, reported in this order
const (
	RuleOriginalApproved     = "original_approved"
	RuleScholarshipRenewable = "scholarship_renewable"
	RuleGWAThreshold         = "gwa_threshold"
	RuleEnrollmentStatus     = "enrollment_status"
	RuleNoDisciplinary       = "no_disciplinary_action"
	RuleNoPriorRenewal       = "no_prior_renewal_for_period"
)

// gwaThresholds default maximum GWA per scholarship type; lower GWA is better
var gwaThresholds = map[string]float64{
	model.ScholarshipAcademicFull:          1.45,
	model.ScholarshipAcademicPartial:       1.75,
	model.ScholarshipPerformingArtsFull:    2.00,
	model.ScholarshipPerformingArtsPartial: 2.25,
	model.ScholarshipStudentAssistantship:  2.50,
	model.ScholarshipEconomicAssistance:    2.50,
	model.ScholarshipOthers:                3.00,
}

const defaultGWAThreshold = 3.00

// EligibilityInput everything the rules look at
type EligibilityInput struct {
	Profile     *model.StudentProfile
	Scholarship *model.Scholarship
	Application *model.ScholarshipApplication
	Renewals    []model.RenewalApplication // existing renewals of Application
	Period      string
	CGPA        *float64 // submitted grade; falls back to the profile's current GWA
}

// EligibilityResult per-rule outcome
type EligibilityResult struct {
	Eligible  bool
	Threshold float64
	Checks    []model.EligibilityCheck
}

// Failed only the rules that did not pass
func (r *EligibilityResult) Failed() []model.EligibilityCheck {
	var out []model.EligibilityCheck
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// GWAThreshold criteria.max_gwa when set, otherwise the type default
func GWAThreshold(sch *model.Scholarship) float64 {
	if sch == nil {
		return defaultGWAThreshold
	}
	if maxGWA := sch.Criteria.Data().MaxGWA; maxGWA != nil {
		return *maxGWA
	}
	if t, ok := gwaThresholds[sch.Type]; ok {
		return t
	}
	return defaultGWAThreshold
}

// CheckEligibility evaluates every renewal rule. It has no side effects.
func CheckEligibility(in EligibilityInput) *EligibilityResult {
	res := &EligibilityResult{Eligible: true, Threshold: GWAThreshold(in.Scholarship)}
	check := func(rule string, passed bool, format string, args ...interface{}) {
		res.Checks = append(res.Checks, model.EligibilityCheck{
			Rule:    rule,
			Passed:  passed,
			Message: fmt.Sprintf(format, args...),
		})
		if !passed {
			res.Eligible = false
		}
	}

	// 1
	if in.Application != nil && in.Application.Status == model.AppStatusApproved {
		check(RuleOriginalApproved, true, "original application is approved")
	} else {
		check(RuleOriginalApproved, false, "original application is not approved")
	}

	// 2
	if in.Scholarship != nil && in.Scholarship.IsRenewable {
		check(RuleScholarshipRenewable, true, "scholarship is renewable")
	} else {
		check(RuleScholarshipRenewable, false, "scholarship is not renewable")
	}

	// 3
	gwa := in.CGPA
	if gwa == nil && in.Profile != nil {
		gwa = in.Profile.CurrentGWA
	}
	switch {
	case gwa == nil:
		check(RuleGWAThreshold, false, "no GWA on record; required %.2f or better", res.Threshold)
	case *gwa <= res.Threshold:
		check(RuleGWAThreshold, true, "GWA %.3f meets the required %.2f", *gwa, res.Threshold)
	default:
		check(RuleGWAThreshold, false, "GWA %.3f is above the required %.2f", *gwa, res.Threshold)
	}

	// 4
	switch {
	case in.Profile == nil:
		check(RuleEnrollmentStatus, false, "student profile not found")
	case in.Profile.EnrollmentStatus == model.EnrollmentEnrolled:
		check(RuleEnrollmentStatus, true, "student is enrolled")
	default:
		check(RuleEnrollmentStatus, false, "student is not enrolled (%s)", in.Profile.EnrollmentStatus)
	}

	// 5
	if in.Profile != nil && !in.Profile.HasDisciplinaryAction {
		check(RuleNoDisciplinary, true, "no disciplinary action on record")
	} else {
		check(RuleNoDisciplinary, false, "student has a disciplinary action on record")
	}

	// 6
	prior := false
	for i := range in.Renewals {
		r := &in.Renewals[i]
		if r.RenewalPeriod == in.Period && r.BlocksPeriod() {
			prior = true
			break
		}
	}
	if prior {
		check(RuleNoPriorRenewal, false, "a renewal for %s already exists", in.Period)
	} else {
		check(RuleNoPriorRenewal, true, "no renewal for %s yet", in.Period)
	}

	return res
}
