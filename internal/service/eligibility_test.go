package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"osas-connect/internal/model"
)

func eligibleInput() EligibilityInput {
	gwa := 1.40
	return EligibilityInput{
		Profile: &model.StudentProfile{
			UserID:           "s1",
			CurrentGWA:       &gwa,
			EnrollmentStatus: model.EnrollmentEnrolled,
		},
		Scholarship: &model.Scholarship{
			ScholarshipID: "sch1",
			Type:          model.ScholarshipAcademicFull,
			IsRenewable:   true,
			Criteria:      datatypes.NewJSONType(model.ScholarshipCriteria{}),
		},
		Application: &model.ScholarshipApplication{ApplicationID: "a1", Status: model.AppStatusApproved},
		Period:      "2025-2026 1st Semester",
	}
}

func TestCheckEligibility_AllPass(t *testing.T) {
	res := CheckEligibility(eligibleInput())

	assert.True(t, res.Eligible)
	assert.Equal(t, 1.45, res.Threshold)
	assert.Empty(t, res.Failed())

	rules := make([]string, 0, len(res.Checks))
	for _, c := range res.Checks {
		rules = append(rules, c.Rule)
	}
	assert.Equal(t, []string{
		RuleOriginalApproved,
		RuleScholarshipRenewable,
		RuleGWAThreshold,
		RuleEnrollmentStatus,
		RuleNoDisciplinary,
		RuleNoPriorRenewal,
	}, rules)
}

func TestCheckEligibility_FailingRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EligibilityInput)
		rule   string
	}{
		{"application not approved", func(in *EligibilityInput) { in.Application.Status = model.AppStatusUnderEvaluation }, RuleOriginalApproved},
		{"scholarship not renewable", func(in *EligibilityInput) { in.Scholarship.IsRenewable = false }, RuleScholarshipRenewable},
		{"submitted GWA above threshold", func(in *EligibilityInput) { in.CGPA = ptr(1.50) }, RuleGWAThreshold},
		{"no GWA on record", func(in *EligibilityInput) { in.Profile.CurrentGWA = nil }, RuleGWAThreshold},
		{"on leave", func(in *EligibilityInput) { in.Profile.EnrollmentStatus = model.EnrollmentOnLeave }, RuleEnrollmentStatus},
		{"disciplinary action", func(in *EligibilityInput) { in.Profile.HasDisciplinaryAction = true }, RuleNoDisciplinary},
		{"pending renewal for the period", func(in *EligibilityInput) {
			in.Renewals = []model.RenewalApplication{{RenewalPeriod: in.Period, Status: model.RenewalPending}}
		}, RuleNoPriorRenewal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := eligibleInput()
			tt.mutate(&in)
			res := CheckEligibility(in)

			assert.False(t, res.Eligible)
			failed := res.Failed()
			if assert.Len(t, failed, 1) {
				assert.Equal(t, tt.rule, failed[0].Rule)
				assert.NotEmpty(t, failed[0].Message)
			}
		})
	}
}

func TestCheckEligibility_PriorRenewalEdgeCases(t *testing.T) {
	in := eligibleInput()
	in.Renewals = []model.RenewalApplication{
		{RenewalPeriod: in.Period, Status: model.RenewalRejected},
		{RenewalPeriod: "2024-2025 2nd Semester", Status: model.RenewalApproved},
	}
	assert.True(t, CheckEligibility(in).Eligible)
}

func TestCheckEligibility_SubmittedGWAOverridesProfile(t *testing.T) {
	in := eligibleInput()
	in.Profile.CurrentGWA = ptr(2.0)
	in.CGPA = ptr(1.45)
	assert.True(t, CheckEligibility(in).Eligible)
}

func TestGWAThreshold(t *testing.T) {
	assert.Equal(t, defaultGWAThreshold, GWAThreshold(nil))

	sch := &model.Scholarship{Type: model.ScholarshipEconomicAssistance, Criteria: datatypes.NewJSONType(model.ScholarshipCriteria{})}
	assert.Equal(t, 2.50, GWAThreshold(sch))

	sch.Criteria = datatypes.NewJSONType(model.ScholarshipCriteria{MaxGWA: ptr(1.75)})
	assert.Equal(t, 1.75, GWAThreshold(sch))

	sch = &model.Scholarship{Type: "unknown", Criteria: datatypes.NewJSONType(model.ScholarshipCriteria{})}
	assert.Equal(t, defaultGWAThreshold, GWAThreshold(sch))
}
