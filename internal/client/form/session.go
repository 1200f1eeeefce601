// Package form holds the transient state of one in-flight create-or-edit
// form. Two independent sessions can exist at the same time (create and
// edit); neither ever writes into the mirror directly. Submission goes
// through the gateway and comes back via the next snapshot push.
package form

import (
	"errors"
	"time"

	"github.com/ramen-kiroku/ramenlog/internal/models"
)

// ErrSubmitInProgress rejects a second concurrent submission of the same
// session while one is pending.
var ErrSubmitInProgress = errors.New("submission already in progress")

// Session is an ephemeral editable draft of one record. TargetID is empty
// for the create flow and names the edited record otherwise.
type Session struct {
	TargetID string

	Date          string
	Time          string
	Prefecture    string
	City          string
	ShopName      string
	RamenType     string
	Menus         []models.MenuItem
	BusinessHours string
	Holidays      string
	Links         string
	Notes         string
	Rating        int
	WantToReturn  bool

	photo      *string
	submitting bool
}

// NewCreate starts a fresh create session: today's date, default rating, no
// photo.
func NewCreate() *Session {
	return &Session{
		Date:   time.Now().Format("2006-01-02"),
		Rating: 3,
	}
}

// NewEdit seeds a session from the mirrored record. The seed happens exactly
// once: if the record changes or vanishes remotely while the session is open,
// the session is stale by design and submission is last-writer-wins.
func NewEdit(r models.Record) *Session {
	menus := make([]models.MenuItem, len(r.Menus))
	copy(menus, r.Menus)

	s := &Session{
		TargetID:      r.ID,
		Date:          r.Date,
		Time:          r.Time,
		Prefecture:    r.Prefecture,
		City:          r.City,
		ShopName:      r.ShopName,
		RamenType:     r.RamenType,
		Menus:         menus,
		BusinessHours: r.BusinessHours,
		Holidays:      r.Holidays,
		Links:         r.Links,
		Notes:         r.Notes,
		Rating:        r.Rating,
		WantToReturn:  r.WantToReturn,
	}
	if s.Rating < 1 || s.Rating > 5 {
		s.Rating = 3
	}
	if r.PhotoDataURL != nil {
		photo := *r.PhotoDataURL
		s.photo = &photo
	}
	return s
}

// SetMenuEntry sets the menu row at index i, growing the list as needed.
// Rows keep their display order; empty-named rows are dropped later by
// Payload, not here, so the user can still fill them in.
func (s *Session) SetMenuEntry(i int, name string, price *int) {
	if i < 0 {
		return
	}
	for len(s.Menus) <= i {
		s.Menus = append(s.Menus, models.MenuItem{})
	}
	s.Menus[i] = models.MenuItem{Name: name, Price: price}
}

// SetPhoto stores the freshly compressed data URI, replacing any pending or
// seeded photo.
func (s *Session) SetPhoto(dataURI string) {
	s.photo = &dataURI
}

// ClearPhoto unsets the photo (both a pending upload and a seeded one).
func (s *Session) ClearPhoto() {
	s.photo = nil
}

// Photo returns the pending photo data URI, or nil.
func (s *Session) Photo() *string {
	return s.photo
}

// Validate checks the required fields in fixed order and returns the first
// violation as a *models.ValidationError; the caller presents exactly one
// message at a time.
func (s *Session) Validate() error {
	return s.Payload().Validate()
}

// Payload builds the persistable shape: trimmed text fields, empty-named
// menu entries dropped, out-of-range rating defaulted.
func (s *Session) Payload() models.RecordPayload {
	p := models.RecordPayload{
		Date:          s.Date,
		Time:          s.Time,
		Prefecture:    s.Prefecture,
		City:          s.City,
		ShopName:      s.ShopName,
		RamenType:     s.RamenType,
		Menus:         s.Menus,
		BusinessHours: s.BusinessHours,
		Holidays:      s.Holidays,
		Links:         s.Links,
		Notes:         s.Notes,
		Rating:        s.Rating,
		WantToReturn:  s.WantToReturn,
		PhotoDataURL:  s.photo,
	}
	return p.Normalize()
}

// BeginSubmit moves the session into the Submitting state. It fails while a
// submission is already pending; the UI additionally disables its trigger.
func (s *Session) BeginSubmit() error {
	if s.submitting {
		return ErrSubmitInProgress
	}
	s.submitting = true
	return nil
}

// EndSubmit returns the session to the Editing state, whatever the outcome.
func (s *Session) EndSubmit() {
	s.submitting = false
}

// Submitting reports whether a submission is pending.
func (s *Session) Submitting() bool {
	return s.submitting
}
