package slack

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack/slackevents"
	"github.com/weevil-bot/weevil/pkg/cli/config"
	"github.com/weevil-bot/weevil/pkg/utils/async"
)

// Handler handles the Slack webhook endpoint
type Handler struct {
	slackConfig  *config.Slack
	eventHandler *EventHandler
	deduper      *Deduper
}

// NewHandler creates a new Slack webhook handler
func NewHandler(slackConfig *config.Slack, eventHandler *EventHandler) *Handler {
	return &Handler{
		slackConfig:  slackConfig,
		eventHandler: eventHandler,
		deduper:      NewDeduper(),
	}
}

// HandleEvent handles a single Events API delivery. Malformed payloads are
// rejected before anything reaches the use cases; valid callbacks are
// acknowledged immediately and processed in background.
func (h *Handler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		ctxlog.From(r.Context()).Error("Failed to read request body", "error", err)
		h.writeError(w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	eventsAPIEvent, err := slackevents.ParseEvent(body, slackevents.OptionNoVerifyToken())
	if err != nil {
		ctxlog.From(r.Context()).Error("Failed to parse Slack event", "error", err)
		h.writeError(w, goerr.Wrap(err, "failed to parse event"), http.StatusBadRequest)
		return
	}

	// URL verification challenge needs no signature check
	if eventsAPIEvent.Type == slackevents.URLVerification {
		var response *slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &response); err != nil {
			ctxlog.From(r.Context()).Error("Failed to parse challenge", "error", err)
			h.writeError(w, goerr.Wrap(err, "failed to parse challenge"), http.StatusBadRequest)
			return
		}

		ctxlog.From(r.Context()).Info("Responding to Slack URL verification challenge")
		w.Header().Set("Content-Type", "text")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(response.Challenge)); err != nil {
			ctxlog.From(r.Context()).Error("Failed to write challenge response", "error", err)
		}
		return
	}

	if !h.slackConfig.IsFullyConfigured() {
		h.writeError(w, goerr.New("Slack not configured"), http.StatusServiceUnavailable)
		return
	}

	if err := h.verifySlackSignature(r, body); err != nil {
		ctxlog.From(r.Context()).Warn("Invalid Slack signature", "error", err)
		h.writeError(w, goerr.Wrap(err, "invalid signature"), http.StatusUnauthorized)
		return
	}

	if eventsAPIEvent.Type == slackevents.CallbackEvent {
		// A redelivery of an already-seen delivery ID is acknowledged but
		// not processed again.
		if callback, ok := eventsAPIEvent.Data.(*slackevents.EventsAPICallbackEvent); ok {
			if h.deduper.Check(callback.EventID) {
				ctxlog.From(r.Context()).Info("Dropping duplicate delivery",
					"eventID", callback.EventID,
				)
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		// Acknowledge within Slack's deadline, process in background
		w.WriteHeader(http.StatusOK)

		async.Dispatch(r.Context(), func(ctx context.Context) error {
			return h.eventHandler.HandleEvent(ctx, &eventsAPIEvent)
		})
		return
	}

	ctxlog.From(r.Context()).Warn("Unknown Slack event type", "type", eventsAPIEvent.Type)
	w.WriteHeader(http.StatusOK)
}

// verifySlackSignature verifies the Slack request signature
func (h *Handler) verifySlackSignature(r *http.Request, body []byte) error {
	timestamp := r.Header.Get("X-Slack-Request-Timestamp")
	if timestamp == "" {
		return goerr.New("missing timestamp header")
	}

	// Reject stale timestamps to prevent replay
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp")
	}
	if abs(time.Now().Unix()-ts) > 60*5 {
		return goerr.New("timestamp too old")
	}

	signature := r.Header.Get("X-Slack-Signature")
	if signature == "" {
		return goerr.New("missing signature header")
	}

	baseString := fmt.Sprintf("v0:%s:%s", timestamp, string(body))
	mac := hmac.New(sha256.New, []byte(h.slackConfig.SigningSecret))
	mac.Write([]byte(baseString))
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expectedSignature)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if encErr := json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	}); encErr != nil {
		return
	}
}

// abs returns the absolute value of an int64
func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
