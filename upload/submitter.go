package upload

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ChaosForCurio/Xieriee-Store/constants"
	"github.com/ChaosForCurio/Xieriee-Store/events"
	"github.com/ChaosForCurio/Xieriee-Store/logger"
	"github.com/ChaosForCurio/Xieriee-Store/storeapi"
	"github.com/ChaosForCurio/Xieriee-Store/utils"
)

var (
	ErrUnsupportedPlatform = errors.New("no upload path exists for this platform")
	ErrNoFile              = errors.New("no package file selected")
	ErrMissingFields       = errors.New("title, developer and description are required")
)

// Submitter drives one publish workflow:
// Idle -> Editing -> Submitting -> Success | Failure. A failed submission
// returns to Editing with the draft retained so the user can retry without
// re-entering data. Not safe for concurrent use; each publish surface owns
// its own Submitter.
type Submitter struct {
	client         storeapi.Client
	eventPublisher events.EventPublisher
	platform       string

	state  State
	draft  Draft
	status Status
}

// NewSubmitter creates the submitter backing one publish surface. The surface
// is suppressed entirely on unsupported platforms, so construction fails for
// them instead of producing a dead form.
func NewSubmitter(client storeapi.Client, eventPublisher events.EventPublisher, platform string) (*Submitter, error) {
	if platform != constants.PLATFORM_WINDOWS && platform != constants.PLATFORM_ANDROID {
		return nil, ErrUnsupportedPlatform
	}
	return &Submitter{
		client:         client,
		eventPublisher: eventPublisher,
		platform:       platform,
		state:          StateIdle,
		draft:          Draft{CategoryId: "1"},
	}, nil
}

func (s *Submitter) State() State {
	return s.state
}

func (s *Submitter) Status() Status {
	return s.status
}

func (s *Submitter) Draft() Draft {
	return s.draft
}

func (s *Submitter) Platform() string {
	return s.platform
}

// SelectFile attaches a package chosen through the file picker. The allowed
// extension is enforced here too, not just on the drop path, so both
// selection paths follow one policy.
func (s *Submitter) SelectFile(filename string, data []byte) {
	s.attachFile(filename, data)
}

// DropFile attaches a package delivered via drag and drop.
func (s *Submitter) DropFile(filename string, data []byte) {
	s.attachFile(filename, data)
}

func (s *Submitter) attachFile(filename string, data []byte) {
	allowed := AllowedExtension(s.platform)
	if !hasExtension(filename, allowed) {
		s.status = Status{
			Type:    StatusError,
			Message: fmt.Sprintf("Invalid file type. Please upload a %s file.", allowed),
		}
		return
	}

	s.draft.Filename = filename
	s.draft.File = data
	s.status = Status{}
	s.state = StateEditing
}

// SetFields updates the metadata fields. A retained failure message is
// cleared on the next edit.
func (s *Submitter) SetFields(title, developer, description, categoryId string) {
	s.draft.Title = title
	s.draft.Developer = developer
	s.draft.Description = description
	if categoryId != "" {
		s.draft.CategoryId = categoryId
	}
	if s.state == StateFailure {
		s.status = Status{}
	}
	if s.state != StateSubmitting {
		s.state = StateEditing
	}
}

// CanSubmit gates the publish button. It is a pure function of
// (file present, uploading).
func (s *Submitter) CanSubmit() bool {
	return s.draft.HasFile() && s.state != StateSubmitting
}

// Submit sends the draft to the upstream publish endpoint. On success the
// file and text fields are cleared (the category selection persists) and the
// surface reports it should close after constants.UPLOAD_SUCCESS_CLOSE_DELAY.
// On failure the draft is retained for a retry.
func (s *Submitter) Submit(ctx context.Context) error {
	if !s.draft.HasFile() {
		return ErrNoFile
	}
	if s.draft.Title == "" || s.draft.Developer == "" || s.draft.Description == "" {
		return ErrMissingFields
	}

	submissionId := uuid.NewString()
	s.state = StateSubmitting
	s.status = Status{}

	logger.Logger.Info().
		Str("submission_id", submissionId).
		Str("title", s.draft.Title).
		Str("platform", s.platform).
		Msg("Publishing app to store")

	err := s.client.Upload(ctx, &storeapi.UploadRequest{
		Filename:    s.draft.Filename,
		File:        s.draft.File,
		Title:       s.draft.Title,
		Developer:   s.draft.Developer,
		Description: s.draft.Description,
		CategoryId:  s.draft.CategoryId,
		Platform:    s.platform,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Str("submission_id", submissionId).Msg("Upload failed")
		s.state = StateFailure
		s.status = Status{Type: StatusError, Message: failureMessage(err)}
		return err
	}

	title := s.draft.Title
	s.draft.Filename = ""
	s.draft.File = nil
	s.draft.Title = ""
	s.draft.Developer = ""
	s.draft.Description = ""
	s.state = StateSuccess
	s.status = Status{Type: StatusSuccess, Message: SuccessMessage}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(&events.Event{
			Event: "app_published",
			Properties: map[string]interface{}{
				"submission_id": submissionId,
				"title":         title,
				"platform":      s.platform,
			},
		})
	}
	return nil
}

func failureMessage(err error) string {
	var apiError *storeapi.APIError
	if errors.As(err, &apiError) && apiError.Message != "" {
		return apiError.Message
	}
	return GenericFailureMessage
}

func hasExtension(filename, allowed string) bool {
	return utils.FileExtension(filename) == allowed
}
