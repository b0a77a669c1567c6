package web

import (
	"context"
	"encoding/json"
	"net/http"

	"portfolio/internal/contact"

	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"
)

const maxContactBody = 64 << 10

// newForm gives each request its own controller; nothing is shared between
// visitors.
func (s *Server) newForm(onChange func(contact.Snapshot)) *contact.Form {
	opts := s.cfg.Contact
	opts.OnChange = onChange
	return contact.NewForm(s.sender, opts)
}

func fillForm(f *contact.Form, v contact.Values) {
	for _, field := range contact.AllFields {
		_ = f.SetField(field, v.Get(field))
	}
}

func (s *Server) renderForm(snap contact.Snapshot) (string, error) {
	return s.renderTemplate("contact_form", formVMFrom(snap))
}

func (s *Server) patchForm(sse *datastar.ServerSentEventGenerator, snap contact.Snapshot) error {
	html, err := s.renderForm(snap)
	if err != nil {
		s.log.Error("render contact form", zap.Error(err))
		return err
	}
	return sse.PatchElements(html,
		datastar.WithSelector("#contact-form"),
		datastar.WithMode(datastar.ElementPatchModeOuter),
	)
}

// handleContactStream runs one submission for the Datastar page and patches
// the form fragment for every state it passes through: Submitting, then
// Success or Failed, then Idle again once the success notice expires.
func (s *Server) handleContactStream(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)
	var sig contact.Values
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, "invalid signals", http.StatusBadRequest)
		return
	}

	changes := make(chan contact.Snapshot, 8)
	form := s.newForm(func(snap contact.Snapshot) {
		select {
		case changes <- snap:
		default:
		}
	})
	defer form.Close()

	fillForm(form, sig)
	for len(changes) > 0 {
		<-changes
	}

	sse := datastar.NewSSE(w, r)
	if a, _ := form.Start(); a != nil {
		// The send outlives a visitor who navigates away; the form's timeout
		// bounds it instead.
		go func() { _, _ = a.Wait(context.WithoutCancel(r.Context())) }()
	}

	for {
		select {
		case <-sse.Context().Done():
			return
		case snap := <-changes:
			if err := s.patchForm(sse, snap); err != nil {
				return
			}
			switch snap.Status {
			case contact.StatusSubmitting:
			case contact.StatusSuccess:
				_ = sse.MarshalAndPatchSignals(contact.Values{})
			default:
				return
			}
		}
	}
}

type contactResponse struct {
	Status string              `json:"status"`
	Errors contact.FieldErrors `json:"errors,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func (s *Server) handleContactJSON(w http.ResponseWriter, r *http.Request) {
	var v contact.Values
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContactBody)).Decode(&v); err != nil {
		writeJSON(w, http.StatusBadRequest, contactResponse{Status: "invalid", Error: "invalid json"})
		return
	}

	form := s.newForm(nil)
	defer form.Close()
	fillForm(form, v)

	res, err := form.Submit(context.WithoutCancel(r.Context()))
	switch {
	case err != nil:
		writeJSON(w, http.StatusBadGateway, contactResponse{Status: contact.StatusFailed.String(), Error: contact.NoticeFailure})
	case res.Outcome == contact.OutcomeInvalid:
		writeJSON(w, http.StatusUnprocessableEntity, contactResponse{Status: "invalid", Errors: res.Errors})
	default:
		writeJSON(w, http.StatusOK, contactResponse{Status: contact.StatusSuccess.String()})
	}
}
