package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/weevil-bot/weevil/pkg/domain/interfaces"
	"github.com/weevil-bot/weevil/pkg/domain/model"
	"github.com/weevil-bot/weevil/pkg/domain/types"
	"github.com/weevil-bot/weevil/pkg/service/classify"
	"github.com/weevil-bot/weevil/pkg/utils/async"
)

const (
	// DefaultLinkWindow is how long the bot waits for a share link reply
	DefaultLinkWindow = 5 * time.Minute

	promptDescriptionPreview  = 200
	detailsDescriptionPreview = 100
)

// checkmarkReactions confirm a detected report
var checkmarkReactions = map[string]bool{
	"white_check_mark":      true,
	"heavy_check_mark":      true,
	"check":                 true,
	"ballot_box_with_check": true,
	"✅":                     true,
}

// Report drives the auto-detection workflow: classify channel messages, ask
// the author to confirm with a checkmark reaction, collect a share link when
// only a chat link was given, and create the tracker ticket.
type Report struct {
	store        interfaces.PendingStore
	slackClient  interfaces.SlackClient
	ticketClient interfaces.TicketClient
	classifier   *classify.Classifier
	workspaceURL string
	linkWindow   time.Duration
}

// ReportOption configures a Report use case
type ReportOption func(*Report)

// WithLinkWindow overrides the share-link reply window
func WithLinkWindow(d time.Duration) ReportOption {
	return func(r *Report) {
		r.linkWindow = d
	}
}

// NewReport creates a new Report use case
func NewReport(
	store interfaces.PendingStore,
	slackClient interfaces.SlackClient,
	ticketClient interfaces.TicketClient,
	classifier *classify.Classifier,
	workspaceURL string,
	opts ...ReportOption,
) *Report {
	r := &Report{
		store:        store,
		slackClient:  slackClient,
		ticketClient: ticketClient,
		classifier:   classifier,
		workspaceURL: workspaceURL,
		linkWindow:   DefaultLinkWindow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HandleChannelMessage runs auto-detection on a top-level channel message.
// Messages that look like chatter are dropped; everything else gets a
// threaded confirmation prompt and a pending entry keyed by the prompt's
// timestamp.
func (r *Report) HandleChannelMessage(ctx context.Context, channelID types.ChannelID, userID types.SlackUserID, messageTS types.MessageTS, text string) error {
	if r.classifier.ShouldSkip(text) {
		ctxlog.From(ctx).Debug("Skipping message, not a report",
			"channelID", channelID,
			"messageTS", messageTS,
		)
		return nil
	}

	report := r.classifier.Classify(text)

	prompt := buildConfirmationPrompt(userID, report)
	_, promptTS, err := r.slackClient.PostMessage(ctx, channelID.String(),
		slack.MsgOptionText(prompt, false),
		slack.MsgOptionTS(messageTS.String()),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post confirmation prompt",
			goerr.V("channelID", channelID),
			goerr.V("messageTS", messageTS))
	}

	pending := model.NewPendingConfirmation(types.MessageTS(promptTS), userID, channelID, messageTS, report)
	if err := r.store.PutConfirmation(ctx, pending); err != nil {
		return goerr.Wrap(err, "failed to register confirmation",
			goerr.V("promptTS", promptTS))
	}

	// Seed the reaction so confirming is a single click
	ref := slack.NewRefToMessage(channelID.String(), promptTS)
	if err := r.slackClient.AddReaction(ctx, "white_check_mark", ref); err != nil {
		ctxlog.From(ctx).Warn("Failed to seed confirmation reaction",
			"error", err,
			"promptTS", promptTS,
		)
	}

	ctxlog.From(ctx).Info("Confirmation prompt posted",
		"channelID", channelID,
		"promptTS", promptTS,
		"reportID", report.ID,
		"title", report.Title,
	)
	return nil
}

// HandleReaction processes a reaction_added event. Only checkmark reactions
// by the original author on a pending prompt have any effect; everything
// else is ignored without touching the store.
func (r *Report) HandleReaction(ctx context.Context, reaction string, channelID types.ChannelID, itemTS types.MessageTS, userID types.SlackUserID) error {
	if !checkmarkReactions[reaction] {
		return nil
	}

	pending, ok := r.store.TakeConfirmation(ctx, itemTS, userID)
	if !ok {
		ctxlog.From(ctx).Debug("No pending confirmation for reaction",
			"itemTS", itemTS,
			"userID", userID,
		)
		return nil
	}

	links := pending.Report.Links
	switch {
	case links.HasDirect():
		return r.createTicket(ctx, pending.ChannelID, pending.MessageTS, pending.UserID, pending.Report, links.FirstDirect())
	case links.HasIndirect():
		return r.requestShareLink(ctx, pending)
	default:
		return r.createTicket(ctx, pending.ChannelID, pending.MessageTS, pending.UserID, pending.Report, "")
	}
}

// requestShareLink asks the author to convert a chat link into a share link
// and starts the reply window
func (r *Report) requestShareLink(ctx context.Context, pending *model.PendingConfirmation) error {
	threadTS := types.ThreadTS(pending.MessageTS)
	request := model.NewPendingLinkRequest(threadTS, pending.UserID, pending.ChannelID, pending.Report, pending.Report.Links.FirstIndirect())

	done, err := r.store.PutLinkRequest(ctx, request)
	if err != nil {
		// Another request already holds the thread; create without a link
		// rather than dropping the confirmed report.
		ctxlog.From(ctx).Warn("Failed to register link request",
			"error", err,
			"threadTS", threadTS,
		)
		return r.createTicket(ctx, pending.ChannelID, pending.MessageTS, pending.UserID, pending.Report, "")
	}

	message := fmt.Sprintf(
		"🔗 Hi <@%s>, I found a chat URL in your message:\n`%s`\n\n"+
			"Please create a **share link** for this chat and paste it here in the thread. "+
			"Share links should look like: `https://app.example.com/share/...`\n\n"+
			"⏰ **I'll wait exactly 5 minutes for your response**, then create the ticket without the share URL.",
		pending.UserID, request.IndirectLink,
	)
	if _, _, err := r.slackClient.PostMessage(ctx, pending.ChannelID.String(),
		slack.MsgOptionText(message, false),
		slack.MsgOptionTS(string(threadTS)),
	); err != nil {
		ctxlog.From(ctx).Warn("Failed to post share link request",
			"error", err,
			"threadTS", threadTS,
		)
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		return r.waitForLink(ctx, threadTS, done)
	})

	return nil
}

// waitForLink is the timeout arm of the link request. The reply path closes
// the done channel after it already resolved the entry, so whoever reaches
// ResolveLinkRequest first is the only one that creates a ticket.
func (r *Report) waitForLink(ctx context.Context, threadTS types.ThreadTS, done <-chan struct{}) error {
	timer := time.NewTimer(r.linkWindow)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	case <-timer.C:
	}

	request, ok := r.store.ResolveLinkRequest(ctx, threadTS)
	if !ok {
		return nil
	}

	ctxlog.From(ctx).Info("Link request timed out",
		"threadTS", threadTS,
		"userID", request.UserID,
	)

	if _, _, err := r.slackClient.PostMessage(ctx, request.ChannelID.String(),
		slack.MsgOptionText("⏰ Timeout reached. Creating ticket without share URL...", false),
		slack.MsgOptionTS(string(threadTS)),
	); err != nil {
		ctxlog.From(ctx).Warn("Failed to post timeout notice",
			"error", err,
			"threadTS", threadTS,
		)
	}

	return r.createTicket(ctx, request.ChannelID, types.MessageTS(threadTS), request.UserID, request.Report, "")
}

// HandleThreadReply checks whether a thread reply answers a pending link
// request. Replies from anyone but the requesting user are ignored.
func (r *Report) HandleThreadReply(ctx context.Context, channelID types.ChannelID, threadTS types.ThreadTS, userID types.SlackUserID, replyTS types.MessageTS, text string) error {
	pending, ok := r.store.GetLinkRequest(ctx, threadTS)
	if !ok || pending.UserID != userID {
		return nil
	}

	links := r.classifier.ExtractLinks(text)

	if links.HasDirect() {
		request, ok := r.store.ResolveLinkRequest(ctx, threadTS)
		if !ok {
			return nil
		}
		if _, _, err := r.slackClient.PostMessage(ctx, channelID.String(),
			slack.MsgOptionText("✅ Share URL received! Creating ticket...", false),
			slack.MsgOptionTS(string(threadTS)),
		); err != nil {
			ctxlog.From(ctx).Warn("Failed to post share link acknowledgement",
				"error", err,
				"threadTS", threadTS,
			)
		}
		return r.createTicket(ctx, request.ChannelID, types.MessageTS(threadTS), request.UserID, request.Report, links.FirstDirect())
	}

	request, ok := r.store.ResolveLinkRequest(ctx, threadTS)
	if !ok {
		return nil
	}

	ref := slack.NewRefToMessage(channelID.String(), replyTS.String())
	if err := r.slackClient.AddReaction(ctx, "x", ref); err != nil {
		ctxlog.From(ctx).Warn("Failed to add rejection reaction",
			"error", err,
			"replyTS", replyTS,
		)
	}
	if _, _, err := r.slackClient.PostMessage(ctx, channelID.String(),
		slack.MsgOptionText("❌ Invalid URL format. Creating ticket without share URL...", false),
		slack.MsgOptionTS(string(threadTS)),
	); err != nil {
		ctxlog.From(ctx).Warn("Failed to post invalid link notice",
			"error", err,
			"threadTS", threadTS,
		)
	}
	return r.createTicket(ctx, request.ChannelID, types.MessageTS(threadTS), request.UserID, request.Report, "")
}

// createTicket creates the tracker ticket for a confirmed report and posts
// the outcome into the originating thread. A tracker failure is reported to
// the thread; the pending entry is already gone either way.
func (r *Report) createTicket(ctx context.Context, channelID types.ChannelID, messageTS types.MessageTS, userID types.SlackUserID, report *model.ParsedReport, shareURL string) error {
	request := &model.TicketRequest{
		Kind:          types.TicketKindBug,
		Title:         report.Title,
		Description:   r.buildAutoDescription(report, userID, channelID, messageTS, shareURL),
		Environment:   report.Environment,
		Product:       report.Product,
		ReferenceLink: shareURL,
	}

	created, err := r.ticketClient.CreateTicket(ctx, request)
	if err != nil {
		failure := fmt.Sprintf("❌ Failed to create bug ticket: %s", err)
		if _, _, postErr := r.slackClient.PostMessage(ctx, channelID.String(),
			slack.MsgOptionText(failure, false),
			slack.MsgOptionTS(messageTS.String()),
		); postErr != nil {
			ctxlog.From(ctx).Warn("Failed to post ticket failure notice",
				"error", postErr,
				"messageTS", messageTS,
			)
		}
		return goerr.Wrap(err, "failed to create ticket",
			goerr.V("channelID", channelID),
			goerr.V("title", report.Title))
	}

	success := fmt.Sprintf("✅ Your new bug ticket has been created here: %s", created.URL)
	if _, _, err := r.slackClient.PostMessage(ctx, channelID.String(),
		slack.MsgOptionText(success, false),
		slack.MsgOptionTS(messageTS.String()),
	); err != nil {
		ctxlog.From(ctx).Warn("Failed to post ticket success message",
			"error", err,
			"messageTS", messageTS,
		)
	}

	details := buildTicketDetails(report, shareURL)
	if _, _, err := r.slackClient.PostMessage(ctx, channelID.String(),
		slack.MsgOptionText(details, false),
		slack.MsgOptionTS(messageTS.String()),
	); err != nil {
		ctxlog.From(ctx).Warn("Failed to post ticket details message",
			"error", err,
			"messageTS", messageTS,
		)
	}

	ctxlog.From(ctx).Info("Ticket created",
		"key", created.Key,
		"url", created.URL,
		"channelID", channelID,
	)
	return nil
}

// buildAutoDescription renders the tracker description for an auto-detected
// report, with the originating thread permalink and the classified fields
func (r *Report) buildAutoDescription(report *model.ParsedReport, userID types.SlackUserID, channelID types.ChannelID, messageTS types.MessageTS, shareURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b,
		"{panel:borderStyle=dashed|borderColor=#00b|titleBGColor=#d2e0fc|bgColor=#f0f4ff}"+
			"This ticket is created as a result of the following Slack thread: %s"+
			"{panel}\n\n",
		threadPermalink(r.workspaceURL, channelID, messageTS))
	fmt.Fprintf(&b,
		"{panel:title=Bug Report|borderStyle=dashed|borderColor=#ccc|titleBGColor=#F7D6C1|bgColor=#FFFFCE}"+
			"Bug reported by <@%s> via Slack. Please ensure the description follows bug reporting guidelines."+
			"{panel}\n\n",
		userID)
	fmt.Fprintf(&b, "*Environment:* %s\n*Product:* %s\n\n", report.Environment, report.Product)
	fmt.Fprintf(&b, "*Original Slack message:*\n%s", report.SourceText)
	if shareURL != "" {
		fmt.Fprintf(&b, "\n\n*Share link:* %s", shareURL)
	}

	return b.String()
}

func buildConfirmationPrompt(userID types.SlackUserID, report *model.ParsedReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🐛 Hi <@%s>, I detected this might be a bug report:\n\n", userID)
	fmt.Fprintf(&b, "**Title:** %s\n", report.Title)
	fmt.Fprintf(&b, "**Environment:** %s\n", report.Environment)
	fmt.Fprintf(&b, "**Product:** %s\n", report.Product)

	if description := strings.TrimSpace(report.Description); description != "" {
		fmt.Fprintf(&b, "**Description:** %s\n", truncate(description, promptDescriptionPreview))
	} else {
		b.WriteString("**Description:** _(No additional description)_\n")
	}

	links := report.Links
	switch {
	case links.HasDirect():
		fmt.Fprintf(&b, "**Share URL:** %s ✅\n", links.FirstDirect())
	case links.HasIndirect():
		fmt.Fprintf(&b, "**Chat URL:** %s (will ask for share URL) 🔗\n", links.FirstIndirect())
	default:
		b.WriteString("**URL:** _(No URL provided)_\n")
	}

	b.WriteString("\nReact with ✅ to create a Jira ticket, or ignore this message to skip.")
	return b.String()
}

func buildTicketDetails(report *model.ParsedReport, shareURL string) string {
	parts := []string{
		"**Ticket Details:**",
		fmt.Sprintf("• **Title:** %s", report.Title),
		fmt.Sprintf("• **Environment:** %s", report.Environment),
		fmt.Sprintf("• **Product:** %s", report.Product),
	}

	if description := strings.TrimSpace(report.Description); description != "" {
		parts = append(parts, fmt.Sprintf("• **Description:** %s", truncate(description, detailsDescriptionPreview)))
	} else {
		parts = append(parts, "• **Description:** _(No additional description)_")
	}

	switch {
	case shareURL != "":
		parts = append(parts, "• **Share URL:** Included ✅")
	case report.Links.HasIndirect():
		parts = append(parts, "• **URL:** Chat URL was provided (no share URL)")
	default:
		parts = append(parts, "• **URL:** No URL provided")
	}

	return strings.Join(parts, "\n")
}

// threadPermalink builds the archives permalink of a message
func threadPermalink(workspaceURL string, channelID types.ChannelID, messageTS types.MessageTS) string {
	return fmt.Sprintf("%s/archives/%s/p%s",
		strings.TrimRight(workspaceURL, "/"),
		channelID,
		strings.ReplaceAll(messageTS.String(), ".", ""))
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
