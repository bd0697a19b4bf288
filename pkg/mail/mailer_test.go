package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResendMailerSendsPayload(t *testing.T) {
	var captured resendPayload
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	mailer, err := NewResendMailer(ResendSettings{
		APIKey:   "re_test_key",
		From:     "Zenbild <login@notifications.zenbild.com>",
		Endpoint: srv.URL,
	})
	require.NoError(t, err)

	err = mailer.Send(context.Background(), Message{
		To:      []string{"builder@example.com"},
		Subject: "Your Zenbild sign-in link",
		Body:    "link here",
	})
	require.NoError(t, err)

	require.Equal(t, "Bearer re_test_key", gotAuth)
	require.Equal(t, []string{"builder@example.com"}, captured.To)
	require.Equal(t, "Zenbild <login@notifications.zenbild.com>", captured.From)
}

func TestResendMailerSurfacesAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid to address"}`))
	}))
	defer srv.Close()

	mailer, err := NewResendMailer(ResendSettings{APIKey: "re_test_key", From: "a@b.com", Endpoint: srv.URL})
	require.NoError(t, err)

	err = mailer.Send(context.Background(), Message{To: []string{"broken"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "422")
	require.Contains(t, err.Error(), "invalid to address")
}

func TestResendMailerRequiresAPIKey(t *testing.T) {
	_, err := NewResendMailer(ResendSettings{})
	require.Error(t, err)
}

func TestPostmarkMailerSendsPayload(t *testing.T) {
	var captured postmarkPayload
	var gotToken string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	mailer, err := NewPostmarkMailer(PostmarkSettings{
		ServerToken: "pm-token",
		From:        "login@notifications.zenbild.com",
		Endpoint:    srv.URL,
		Timeout:     time.Second,
	})
	require.NoError(t, err)

	err = mailer.Send(context.Background(), Message{
		To:      []string{"builder@example.com"},
		Subject: "Your Zenbild sign-in link",
		Body:    "link here",
	})
	require.NoError(t, err)

	require.Equal(t, "pm-token", gotToken)
	require.Equal(t, "builder@example.com", captured.To)
	require.Equal(t, "outbound", captured.MessageStream)
}

func TestSMTPMailerDisabled(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: false})
	require.NoError(t, err)

	err = mailer.Send(context.Background(), Message{To: []string{"x@example.com"}})
	require.ErrorIs(t, err, ErrSMTPDisabled)
}

func TestSMTPMailerRequiresHostWhenEnabled(t *testing.T) {
	_, err := NewSMTPMailer(SMTPSettings{Enabled: true, Port: 587})
	require.Error(t, err)
}

func TestUniqueAddresses(t *testing.T) {
	out := uniqueAddresses([]string{" a@x.com ", "a@x.com", "", "b@x.com"})
	require.Equal(t, []string{"a@x.com", "b@x.com"}, out)
}
