// Package submission drives one lead form from validation to notification.
//
// The Controller runs the steps strictly in sequence: validate, rate limit,
// upload, persist, notify. Upload and persistence failures degrade the
// submission instead of stopping it; only validation, rate limiting and a
// notify failure end it early. Every step reports an Outcome and the state
// transitions are kept in the Result.
package submission

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"mecahub-backend/internal/domain"
	"mecahub-backend/pkg/logger"
	"mecahub-backend/pkg/ratelimit"
	"mecahub-backend/pkg/validation"
)

// ErrSubmissionInProgress is returned when Submit is called while another
// submission of the same controller is running.
var ErrSubmissionInProgress = errors.New("submission already in progress")

type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StateValidationFailed State = "validation_failed"
	StateRateLimited      State = "rate_limited"
	StateUploading        State = "uploading"
	StateUploadFailed     State = "upload_failed"
	StateUploaded         State = "uploaded"
	StatePersisting       State = "persisting"
	StateNotifying        State = "notifying"
	StateSucceeded        State = "succeeded"
	StateHardFailed       State = "hard_failed"
)

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateValidationFailed, StateRateLimited, StateHardFailed:
		return true
	}
	return false
}

type OutcomeKind int

const (
	Ok OutcomeKind = iota
	SoftFail
	HardFail
)

func (k OutcomeKind) String() string {
	switch k {
	case Ok:
		return "ok"
	case SoftFail:
		return "soft_fail"
	default:
		return "hard_fail"
	}
}

// Outcome is what one step reports back to the controller.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}

// Result is the record of one Submit call.
type Result struct {
	State       State
	FieldErrors map[string]string
	Notices     []Notice
	Transitions []State
	Steps       map[string]Outcome
	RetryAfter  time.Duration
	File        *domain.StoredFile
	EmailID     string
}

func (r *Result) to(s State) {
	r.State = s
	r.Transitions = append(r.Transitions, s)
}

func (r *Result) notice(n Notice) {
	r.Notices = append(r.Notices, n)
}

// Uploader sends an attachment to the upload endpoint.
type Uploader interface {
	Upload(ctx context.Context, formType domain.FormType, file *domain.Attachment) (*domain.StoredFile, error)
}

// Notifier sends the form to the notify endpoint and returns the email id.
type Notifier interface {
	Notify(ctx context.Context, formType domain.FormType, formData map[string]any) (string, error)
}

// RecordStore persists a validated submission.
type RecordStore interface {
	Save(ctx context.Context, form *domain.FormSubmission, fileURL string) error
}

// Controller runs submissions for one form instance.
type Controller struct {
	limiter    *ratelimit.Limiter
	uploader   Uploader
	notifier   Notifier
	records    RecordStore
	submitting atomic.Bool
}

// NewController wires a controller. limiter is the client side form limiter
// and records may be nil when nothing is persisted.
func NewController(limiter *ratelimit.Limiter, uploader Uploader, notifier Notifier, records RecordStore) *Controller {
	if records == nil {
		records = NopStore{}
	}
	return &Controller{
		limiter:  limiter,
		uploader: uploader,
		notifier: notifier,
		records:  records,
	}
}

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool {
	return c.submitting.Load()
}

// Submit runs the whole sequence for form. The returned error is only set
// when the submission could not start; every other failure is described by
// the Result.
//
// The form is cleared whenever the submission ends in StateSucceeded,
// including when the email provider is not configured: the lead was recorded
// and will be handled manually, so keeping it would only invite a duplicate.
// A hard notify failure leaves the form intact for a retry.
func (c *Controller) Submit(ctx context.Context, form *domain.FormSubmission) (*Result, error) {
	if form == nil {
		return nil, errors.New("nil form")
	}
	if !c.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInProgress
	}
	defer c.submitting.Store(false)

	res := &Result{State: StateIdle, Transitions: []State{StateIdle}, Steps: make(map[string]Outcome)}

	res.to(StateValidating)
	if out := c.validate(form, res); out.Kind != Ok {
		res.Steps["validate"] = out
		res.to(StateValidationFailed)
		res.notice(noticeValidation)
		return res, nil
	}
	res.Steps["validate"] = Outcome{Kind: Ok}

	if out := c.rateLimit(ctx, form, res); out.Kind != Ok {
		res.Steps["rate_limit"] = out
		res.to(StateRateLimited)
		res.notice(rateLimitedNotice(res.RetryAfter))
		return res, nil
	}
	res.Steps["rate_limit"] = Outcome{Kind: Ok}

	fileURL := ""
	if form.Attachment != nil {
		res.to(StateUploading)
		out := c.upload(ctx, form, res)
		res.Steps["upload"] = out
		if out.Kind == Ok {
			res.to(StateUploaded)
			fileURL = res.File.FileURL
		} else {
			res.to(StateUploadFailed)
			res.notice(uploadFailedNotice(form.Type))
		}
	}

	res.to(StatePersisting)
	res.Steps["persist"] = c.persist(ctx, form, fileURL)

	res.to(StateNotifying)
	out := c.notify(ctx, form, res)
	res.Steps["notify"] = out
	switch {
	case out.Kind == HardFail:
		res.to(StateHardFailed)
		res.notice(noticeHardFailure)
		return res, nil
	case out.Kind == SoftFail:
		// provider not configured: the lead is recorded and handled by hand
		res.to(StateSucceeded)
		res.notice(noticeHandledManually)
	default:
		res.to(StateSucceeded)
		res.notice(successNotice(form.Type))
	}

	form.Clear()
	return res, nil
}

func (c *Controller) validate(form *domain.FormSubmission, res *Result) Outcome {
	for name, value := range form.Fields {
		form.Fields[name] = validation.SanitizeInput(value)
	}
	for name, values := range form.Lists {
		for i, v := range values {
			values[i] = validation.SanitizeInput(v)
		}
		form.Lists[name] = values
	}
	res.FieldErrors = ValidateForm(form)
	if len(res.FieldErrors) > 0 {
		return Outcome{Kind: HardFail, Reason: fmt.Sprintf("%d invalid fields", len(res.FieldErrors))}
	}
	return Outcome{Kind: Ok}
}

func (c *Controller) rateLimit(ctx context.Context, form *domain.FormSubmission, res *Result) Outcome {
	if c.limiter == nil {
		return Outcome{Kind: Ok}
	}
	id := ratelimit.Identifier("", form.Fields["email"])
	allowed, err := c.limiter.Allow(ctx, id)
	if err != nil {
		logger.Log.Warn("Form rate limiter unavailable", "error", err)
		return Outcome{Kind: Ok}
	}
	if allowed {
		return Outcome{Kind: Ok}
	}
	wait, err := c.limiter.RemainingTime(ctx, id)
	if err != nil {
		logger.Log.Warn("Form rate limiter reset time unavailable", "error", err)
		wait = c.limiter.Policy().Window
	}
	res.RetryAfter = wait
	return Outcome{Kind: HardFail, Reason: "rate limited"}
}

func (c *Controller) upload(ctx context.Context, form *domain.FormSubmission, res *Result) Outcome {
	stored, err := c.uploader.Upload(ctx, form.Type, form.Attachment)
	if err != nil {
		logger.Log.Warn("Attachment upload failed, continuing without it", "formType", form.Type, "error", err)
		return Outcome{Kind: SoftFail, Reason: err.Error()}
	}
	res.File = stored
	return Outcome{Kind: Ok}
}

func (c *Controller) persist(ctx context.Context, form *domain.FormSubmission, fileURL string) Outcome {
	if err := c.records.Save(ctx, form, fileURL); err != nil {
		logger.Log.Error("Submission not persisted", "formType", form.Type, "error", err)
		return Outcome{Kind: SoftFail, Reason: err.Error()}
	}
	return Outcome{Kind: Ok}
}

func (c *Controller) notify(ctx context.Context, form *domain.FormSubmission, res *Result) Outcome {
	id, err := c.notifier.Notify(ctx, form.Type, FormData(form, res.File))
	if err != nil {
		if IsConfigMissing(err) {
			logger.Log.Warn("Email provider not configured, submission recorded only", "formType", form.Type)
			return Outcome{Kind: SoftFail, Reason: domain.ConfigMissingMarker}
		}
		logger.Log.Error("Notification failed", "formType", form.Type, "error", err)
		return Outcome{Kind: HardFail, Reason: err.Error()}
	}
	res.EmailID = id
	return Outcome{Kind: Ok}
}

// FormData builds the notify payload: text fields, list fields and the
// uploaded file link under the form's file key.
func FormData(form *domain.FormSubmission, file *domain.StoredFile) map[string]any {
	data := make(map[string]any, len(form.Fields)+len(form.Lists)+1)
	for name, value := range form.Fields {
		data[name] = value
	}
	for name, values := range form.Lists {
		data[name] = values
	}
	if file != nil {
		data[form.Type.FileDataKey()] = map[string]any{
			"fileName": file.FileName,
			"fileUrl":  file.FileURL,
		}
	}
	return data
}
