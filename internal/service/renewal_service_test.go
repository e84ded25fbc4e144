package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"osas-connect/internal/dto"
	"osas-connect/internal/model"
)

func renewalEnv() *testEnv {
	env := newTestEnv("")
	env.addStudent("s1")
	env.addStudent("s2")
	env.addStaff("staff")
	env.addScholarship("sch1", model.ScholarshipAcademicFull, 3)
	env.addApplication("a1", "s1", "sch1", model.AppStatusApproved)
	return env
}

func TestRenewal_Eligibility(t *testing.T) {
	env := renewalEnv()
	ctx := context.Background()

	resp, err := env.svc.Renewal.Eligibility(ctx, "a1", "s1", model.RoleStudent)
	require.NoError(t, err)
	assert.True(t, resp.Eligible)
	assert.Equal(t, "2025-2026 1st Semester", resp.Period)
	require.NotNil(t, resp.Deadline)
	assert.Equal(t, "2025-09-15", *resp.Deadline)
	assert.Len(t, resp.Checks, 6)

	_, err = env.svc.Renewal.Eligibility(ctx, "a1", "s2", model.RoleStudent)
	assert.ErrorIs(t, err, ErrNoPermission)

	env.profiles.profiles["s1"].HasDisciplinaryAction = true
	resp, err = env.svc.Renewal.Eligibility(ctx, "a1", "staff", model.RoleOSASStaff)
	require.NoError(t, err)
	assert.False(t, resp.Eligible)
}

func TestRenewal_Submit(t *testing.T) {
	env := renewalEnv()
	ctx := context.Background()

	r, err := env.svc.Renewal.Submit(ctx, "s1", &dto.SubmitRenewalRequest{ApplicationID: "a1", CGPA: 1.30})
	require.NoError(t, err)
	assert.Equal(t, model.RenewalPending, r.Status)
	assert.Equal(t, "2025-2026 1st Semester", r.RenewalPeriod)
	assert.Equal(t, "2025-2026", r.AcademicYear)
	assert.Equal(t, SemesterFirst, r.Semester)
	assert.True(t, r.SubmittedAt.Equal(testNow))
	assert.Len(t, r.Eligibility, 6)

	_, err = env.svc.Renewal.Submit(ctx, "s1", &dto.SubmitRenewalRequest{ApplicationID: "a1", CGPA: 1.30})
	require.ErrorIs(t, err, ErrNotEligible)
	var ne *NotEligibleError
	require.True(t, errors.As(err, &ne))
	require.Len(t, ne.Failed, 1)
	assert.Equal(t, RuleNoPriorRenewal, ne.Failed[0].Rule)
}

func TestRenewal_Submit_Refusals(t *testing.T) {
	env := renewalEnv()
	ctx := context.Background()

	_, err := env.svc.Renewal.Submit(ctx, "s1", &dto.SubmitRenewalRequest{ApplicationID: "a1", CGPA: 1.60})
	var ne *NotEligibleError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, RuleGWAThreshold, ne.Failed[0].Rule)
	assert.Contains(t, err.Error(), RuleGWAThreshold)

	_, err = env.svc.Renewal.Submit(ctx, "s2", &dto.SubmitRenewalRequest{ApplicationID: "a1", CGPA: 1.30})
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	_, err = env.svc.Renewal.Submit(ctx, "s1", &dto.SubmitRenewalRequest{ApplicationID: "a1", CGPA: 1.30, Period: ptr("next term")})
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	assert.Empty(t, env.renewals.renewals)
}

func TestRenewal_Submit_ExplicitPeriod(t *testing.T) {
	env := renewalEnv()

	r, err := env.svc.Renewal.Submit(context.Background(), "s1", &dto.SubmitRenewalRequest{
		ApplicationID: "a1",
		CGPA:          1.25,
		Period:        ptr(" 2025-2026 2nd Semester "),
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-2026 2nd Semester", r.RenewalPeriod)
	assert.Equal(t, SemesterSecond, r.Semester)
}

func TestRenewal_ReviewWorkflow(t *testing.T) {
	env := renewalEnv()
	ctx := context.Background()

	r, err := env.svc.Renewal.Submit(ctx, "s1", &dto.SubmitRenewalRequest{ApplicationID: "a1", CGPA: 1.30})
	require.NoError(t, err)

	_, err = env.svc.Renewal.Approve(ctx, r.RenewalID, "staff", &dto.ReviewRenewalRequest{})
	assert.ErrorIs(t, err, ErrRenewalInvalidTransition)

	r, err = env.svc.Renewal.StartReview(ctx, r.RenewalID, "staff", &dto.ReviewRenewalRequest{Notes: "grades received"})
	require.NoError(t, err)
	assert.Equal(t, model.RenewalUnderReview, r.Status)
	assert.Equal(t, "grades received", r.ReviewNotes)

	r, err = env.svc.Renewal.Approve(ctx, r.RenewalID, "staff", &dto.ReviewRenewalRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.RenewalApproved, r.Status)
	assert.Equal(t, "staff", *r.ReviewedBy)
	assert.EqualValues(t, 3, env.renewals.renewals[r.RenewalID].Version)

	gwa := env.profiles.profiles["s1"].CurrentGWA
	require.NotNil(t, gwa)
	assert.Equal(t, 1.30, *gwa)

	_, err = env.svc.Renewal.Reject(ctx, r.RenewalID, "staff", &dto.RejectRenewalRequest{Notes: "late"})
	assert.ErrorIs(t, err, ErrRenewalInvalidTransition)

	assert.Len(t, env.notifications.ofType(model.NotifyRenewalStatus), 2)
}

func TestRenewal_RejectFreesThePeriod(t *testing.T) {
	env := renewalEnv()
	ctx := context.Background()

	r, err := env.svc.Renewal.Submit(ctx, "s1", &dto.SubmitRenewalRequest{ApplicationID: "a1", CGPA: 1.30})
	require.NoError(t, err)

	_, err = env.svc.Renewal.Reject(ctx, r.RenewalID, "staff", &dto.RejectRenewalRequest{Notes: "   "})
	assert.ErrorIs(t, err, ErrRenewalNotesRequired)

	r, err = env.svc.Renewal.Reject(ctx, r.RenewalID, "staff", &dto.RejectRenewalRequest{Notes: "Grades not certified"})
	require.NoError(t, err)
	assert.Equal(t, model.RenewalRejected, r.Status)

	notes := env.notifications.ofType(model.NotifyRenewalStatus)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Content, "Grades not certified")

	_, err = env.svc.Renewal.Submit(ctx, "s1", &dto.SubmitRenewalRequest{ApplicationID: "a1", CGPA: 1.30})
	assert.NoError(t, err)
}

func TestRenewal_GetAndList(t *testing.T) {
	env := renewalEnv()
	env.addApplication("a2", "s2", "sch1", model.AppStatusApproved)
	ctx := context.Background()

	r1, err := env.svc.Renewal.Submit(ctx, "s1", &dto.SubmitRenewalRequest{ApplicationID: "a1", CGPA: 1.30})
	require.NoError(t, err)
	_, err = env.svc.Renewal.Submit(ctx, "s2", &dto.SubmitRenewalRequest{ApplicationID: "a2", CGPA: 1.20})
	require.NoError(t, err)

	_, err = env.svc.Renewal.Get(ctx, r1.RenewalID, "s2", model.RoleStudent)
	assert.ErrorIs(t, err, ErrNoPermission)
	_, err = env.svc.Renewal.Get(ctx, "missing", "staff", model.RoleOSASStaff)
	assert.ErrorIs(t, err, ErrRenewalNotFound)

	_, total, err := env.svc.Renewal.List(ctx, &dto.RenewalListRequest{}, "s1", model.RoleStudent)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = env.svc.Renewal.List(ctx, &dto.RenewalListRequest{Status: model.RenewalPending}, "staff", model.RoleOSASStaff)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestRenewalStatistics(t *testing.T) {
	schA := &model.Scholarship{ScholarshipID: "A", Name: "Academic"}
	schB := &model.Scholarship{ScholarshipID: "B", Name: "Band"}
	list := []model.RenewalApplication{
		{ScholarshipID: "A", Scholarship: schA, Status: model.RenewalApproved, CGPA: 1.20},
		{ScholarshipID: "A", Scholarship: schA, Status: model.RenewalApproved, CGPA: 1.30},
		{ScholarshipID: "B", Scholarship: schB, Status: model.RenewalApproved, CGPA: 1.35},
		{ScholarshipID: "A", Scholarship: schA, Status: model.RenewalRejected, CGPA: 2.10},
		{ScholarshipID: "B", Scholarship: schB, Status: model.RenewalPending, CGPA: 1.50},
		{ScholarshipID: "A", Scholarship: schA, Status: model.RenewalUnderReview, CGPA: 1.40},
	}

	stats := renewalStatistics("2025-2026 1st Semester", list, int64(len(list)))

	assert.EqualValues(t, 6, stats.Total)
	assert.EqualValues(t, 3, stats.ByStatus[model.RenewalApproved])
	assert.EqualValues(t, 1, stats.ByStatus[model.RenewalRejected])
	assert.EqualValues(t, 1, stats.ByStatus[model.RenewalPending])
	assert.EqualValues(t, 1, stats.ByStatus[model.RenewalUnderReview])
	assert.Equal(t, 0.75, stats.ApprovalRate)
	assert.InDelta(t, 1.283, stats.AverageApprovedCGPA, 1e-9)
	assert.Equal(t, []dto.ScholarshipRenewalCount{
		{ScholarshipID: "A", Name: "Academic", Count: 4},
		{ScholarshipID: "B", Name: "Band", Count: 2},
	}, stats.ByScholarship)
}

func TestRenewalStatistics_Empty(t *testing.T) {
	stats := renewalStatistics("", nil, 0)
	assert.Zero(t, stats.ApprovalRate)
	assert.Zero(t, stats.AverageApprovedCGPA)
	assert.Len(t, stats.ByStatus, 4)
	assert.Empty(t, stats.ByScholarship)
}

func TestRenewal_Submit_ConcurrentDuplicate(t *testing.T) {
	env := renewalEnv()
	env.renewals.createErr = gorm.ErrDuplicatedKey

	_, err := env.svc.Renewal.Submit(context.Background(), "s1", &dto.SubmitRenewalRequest{ApplicationID: "a1", CGPA: 1.30})
	assert.ErrorIs(t, err, ErrRenewalExists)
}
