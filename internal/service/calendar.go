package service

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"osas-connect/internal/mail"
	"osas-connect/internal/model"
)

// buildInterviewICS one VEVENT of interviewDuration, as a REQUEST so mail clients offer to add it
func buildInterviewICS(interview *model.Interview, organizer string, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)
	cal.SetProductId("-//OSAS Connect//Scholarship Interview//EN")

	event := cal.AddEvent(interview.InterviewID + "@osas-connect")
	event.SetDtStampTime(now)
	event.SetStartAt(interview.Schedule)
	event.SetEndAt(interview.Schedule.Add(interviewDuration))
	event.SetLocation(interview.Location)

	summary := "Scholarship interview"
	description := fmt.Sprintf("Interview type: %s", interview.Type)
	if app := interview.Application; app != nil {
		summary = "Scholarship interview: " + scholarshipName(app.Scholarship)
		if app.User != nil {
			description = fmt.Sprintf("Applicant: %s\n%s", app.User.FullName(), description)
			event.AddAttendee("mailto:"+app.User.Email,
				ics.CalendarUserTypeIndividual,
				ics.ParticipationStatusNeedsAction,
				ics.ParticipationRoleReqParticipant,
				ics.WithRSVP(true),
			)
		}
	}
	event.SetSummary(summary)
	event.SetDescription(description)

	if organizer != "" {
		event.SetOrganizer("mailto:"+organizer, ics.WithCN("OSAS"))
	}
	if interview.Status == model.InterviewCancelled {
		event.SetStatus(ics.ObjectStatusCancelled)
	} else {
		event.SetStatus(ics.ObjectStatusConfirmed)
	}

	return cal.Serialize()
}

func icsAttachment(interview *model.Interview, organizer string, now time.Time) mail.Attachment {
	return mail.Attachment{
		Name:        "interview.ics",
		ContentType: "text/calendar; method=REQUEST",
		Data:        []byte(buildInterviewICS(interview, organizer, now)),
	}
}
