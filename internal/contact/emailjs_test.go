package contact

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmailJS_PostsTemplateParams(t *testing.T) {
	var method, contentType string
	var raw []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		raw, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, "OK")
	}))
	defer srv.Close()

	s := &EmailJS{URL: srv.URL, AccessToken: "tok", Client: srv.Client()}
	err := s.Send(context.Background(),
		Endpoint{ServiceID: "svc", TemplateID: "tpl", UserID: "usr"},
		Payload{FromName: "Ada", FromEmail: "ada@example.com", Message: "hi"},
	)
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, method)
	require.Equal(t, "application/json", contentType)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, "svc", got["service_id"])
	require.Equal(t, "tpl", got["template_id"])
	require.Equal(t, "usr", got["user_id"])
	require.Equal(t, "tok", got["accessToken"])
	require.Equal(t, map[string]any{
		"from_name":  "Ada",
		"from_email": "ada@example.com",
		"message":    "hi",
	}, got["template_params"])
}

func TestEmailJS_NonOKIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "The user ID is invalid", http.StatusBadRequest)
	}))
	defer srv.Close()

	s := &EmailJS{URL: srv.URL, Client: srv.Client()}
	err := s.Send(context.Background(), Endpoint{ServiceID: "a", TemplateID: "b", UserID: "c"}, Payload{})
	var he *HTTPError
	require.True(t, errors.As(err, &he))
	require.Equal(t, http.StatusBadRequest, he.StatusCode)
	require.Equal(t, "The user ID is invalid", he.Body)
}

func TestEmailJS_RequiresEndpointIDs(t *testing.T) {
	s := &EmailJS{URL: "http://127.0.0.1:1"}
	err := s.Send(context.Background(), Endpoint{ServiceID: "svc"}, Payload{})
	require.ErrorContains(t, err, "required")
}

func TestEmailJS_FailureDrivesFormToFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewForm(&EmailJS{URL: srv.URL, Client: srv.Client()}, Options{
		Endpoint: Endpoint{ServiceID: "a", TemplateID: "b", UserID: "c"},
		Clock:    newFakeClock(),
	})
	fill(t, f, validValues)
	_, err := f.Submit(context.Background())

	var se *SubmissionError
	require.ErrorAs(t, err, &se)
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, StatusFailed, f.Status())
	require.Equal(t, validValues, f.Values())
}
