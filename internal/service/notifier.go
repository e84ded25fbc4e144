package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"osas-connect/config"
	"osas-connect/internal/job"
	"osas-connect/internal/mail"
	"osas-connect/internal/model"
	"osas-connect/internal/repository"
)

// notifier writes in-app notifications and queues the matching email
type notifier struct {
	baseURL    string
	renderer   *mail.Renderer
	dispatcher job.Dispatcher
	logger     *zap.Logger
}

func newNotifier(cfg *config.Config, renderer *mail.Renderer, dispatcher job.Dispatcher, logger *zap.Logger) *notifier {
	return &notifier{
		baseURL:    strings.TrimRight(cfg.Server.BaseURL, "/"),
		renderer:   renderer,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

type notice struct {
	UserID      string
	Type        string
	Title       string
	Content     string
	RelatedType string
	RelatedID   string
}

// notify stores the notification through repo so it joins the caller's transaction
func (n *notifier) notify(ctx context.Context, repo *repository.Repository, nt notice) error {
	record := &model.Notification{
		UserID:  nt.UserID,
		Type:    nt.Type,
		Title:   nt.Title,
		Content: nt.Content,
	}
	if nt.RelatedType != "" {
		record.RelatedType = &nt.RelatedType
	}
	if nt.RelatedID != "" {
		record.RelatedID = &nt.RelatedID
	}
	return repo.Notification.Create(ctx, record)
}

// send renders a template and queues it for delivery. Disabled mail is not an error.
func (n *notifier) send(ctx context.Context, to *model.User, template string, data interface{}, attachments ...mail.Attachment) error {
	if n == nil || n.renderer == nil || n.dispatcher == nil || to == nil || to.Email == "" {
		return nil
	}

	subject, body, err := n.renderer.Render(template, data)
	if err != nil {
		return err
	}

	msg := &mail.Message{
		To:          to.Email,
		ToName:      to.FullName(),
		Subject:     subject,
		HTML:        body,
		Attachments: attachments,
	}
	if err := n.dispatcher.Dispatch(ctx, mail.JobType, msg); err != nil {
		return fmt.Errorf("queue %s mail: %w", template, err)
	}
	return nil
}

// sendLogged is send for callers that must not fail on mail problems
func (n *notifier) sendLogged(ctx context.Context, to *model.User, template string, data interface{}, attachments ...mail.Attachment) {
	if err := n.send(ctx, to, template, data, attachments...); err != nil {
		n.logger.Warn("queue mail failed", zap.String("template", template), zap.Error(err))
	}
}

func (n *notifier) link(format string, args ...interface{}) string {
	return n.baseURL + fmt.Sprintf(format, args...)
}

var statusLabels = map[string]string{
	model.AppStatusDraft:             "Draft",
	model.AppStatusSubmitted:         "Submitted",
	model.AppStatusUnderVerification: "Under Verification",
	model.AppStatusVerified:          "Verified",
	model.AppStatusIncomplete:        "Incomplete",
	model.AppStatusUnderEvaluation:   "Under Evaluation",
	model.AppStatusApproved:          "Approved",
	model.AppStatusRejected:          "Rejected",
	model.RenewalUnderReview:         "Under Review",
	model.RenewalPending:             "Pending",
}

func statusLabel(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}

func scholarshipName(s *model.Scholarship) string {
	if s == nil {
		return "your scholarship"
	}
	return s.Name
}
