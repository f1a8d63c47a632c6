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
)

const helpText = "Here are the commands you can use with me:\n\n" +
	"**Auto Bug Detection:**\n" +
	"• Just write a message in the channel - I'll detect potential bugs automatically!\n" +
	"• React with ✅ to confirm and create a Jira ticket\n\n" +
	"**Manual Commands:**\n" +
	"• `!bug <title>` - Create a new bug ticket with the provided title\n" +
	"• `!story <title>` - Create a new story ticket with the provided title\n" +
	"• `!task <title>` - Create a new task ticket with the provided title\n" +
	"• `!epic <title>` - Create a new epic ticket with the provided title\n" +
	"• `!priority` - Get the list of questions to prioritize an issue\n" +
	"• `!inprogress <@USERID>` - Get the list of tasks that a user is currently working on\n" +
	"• `!time <ticket_id>` - Get the elapsed time for each state transition for a ticket\n" +
	"• `!help` - Get this help message\n"

const priorityText = "Thanks for reporting your issue. For us to prioritize the issue appropriately, " +
	"could you please provide the following information:\n\n" +
	"1. Is this problem blocking any critical release? _[Yes | No]_\n" +
	"2. In which environments have you observed the issue? _[Production | Staging | Development]_\n" +
	"3. What is the estimated extent of production user impact? _[Affects large | medium | small number of users]_\n" +
	"4. Have you identified any workaround? _[Yes | No]_\n" +
	"5. How often are you able to reproduce this issue? _[Always | Sometimes | Rarely]_\n" +
	"6. What is your expected timeline for resolving this issue? _[Immediate | Within 24 hours | This week | Longer]_\n" +
	"7. How severe is the impact of this issue on user experience? _[Critical | High | Medium | Low]_"

// Command handles the bang-prefixed chat commands
type Command struct {
	slackClient    interfaces.SlackClient
	ticketClient   interfaces.TicketClient
	workspaceURL   string
	defaultProduct types.Product
}

// NewCommand creates a new Command use case
func NewCommand(slackClient interfaces.SlackClient, ticketClient interfaces.TicketClient, workspaceURL string, defaultProduct types.Product) *Command {
	return &Command{
		slackClient:    slackClient,
		ticketClient:   ticketClient,
		workspaceURL:   workspaceURL,
		defaultProduct: defaultProduct,
	}
}

// IsCommand reports whether the message text is a bang command
func IsCommand(text string) bool {
	return strings.HasPrefix(text, "!")
}

// Execute routes a command message to its handler. Unknown commands are
// silently ignored, matching the channel-chatter tolerance of the rest of
// the bot.
func (c *Command) Execute(ctx context.Context, channelID types.ChannelID, userID types.SlackUserID, threadTS types.ThreadTS, text string) error {
	switch {
	case strings.HasPrefix(text, "!bug"):
		return c.respondCreate(ctx, types.TicketKindBug, channelID, userID, threadTS, text)
	case strings.HasPrefix(text, "!story"):
		return c.respondCreate(ctx, types.TicketKindStory, channelID, userID, threadTS, text)
	case strings.HasPrefix(text, "!task"):
		return c.respondCreate(ctx, types.TicketKindTask, channelID, userID, threadTS, text)
	case strings.HasPrefix(text, "!epic"):
		return c.respondCreate(ctx, types.TicketKindEpic, channelID, userID, threadTS, text)
	case strings.HasPrefix(text, "!priority"):
		return c.postReply(ctx, channelID, threadTS, priorityText)
	case strings.HasPrefix(text, "!inprogress"):
		return c.respondInProgress(ctx, channelID, threadTS, text)
	case strings.HasPrefix(text, "!time"):
		return c.respondTime(ctx, channelID, threadTS, text)
	case strings.HasPrefix(text, "!help"):
		return c.postReply(ctx, channelID, threadTS, helpText)
	default:
		ctxlog.From(ctx).Debug("Unknown command ignored",
			"channelID", channelID,
			"text", text,
		)
		return nil
	}
}

// respondCreate creates a ticket of the given kind from the command argument
func (c *Command) respondCreate(ctx context.Context, kind types.TicketKind, channelID types.ChannelID, userID types.SlackUserID, threadTS types.ThreadTS, text string) error {
	word := strings.ToLower(kind.String())
	title := stripCommand(text, "!"+word)
	if title == "" {
		usage := fmt.Sprintf(
			"Please provide a title for your %s ticket! A sample command looks like this: `!%s This is a ticket title`",
			word, word)
		return c.postReply(ctx, channelID, threadTS, usage)
	}

	request := &model.TicketRequest{
		Kind:        kind,
		Title:       title,
		Description: c.buildLegacyDescription(ctx, kind, channelID, userID, threadTS),
		Environment: types.EnvironmentProd,
		Product:     c.defaultProduct,
	}

	created, err := c.ticketClient.CreateTicket(ctx, request)
	if err != nil {
		failure := fmt.Sprintf("❌ Failed to create %s ticket: %s", word, err)
		if postErr := c.postReply(ctx, channelID, threadTS, failure); postErr != nil {
			ctxlog.From(ctx).Warn("Failed to post ticket failure notice", "error", postErr)
		}
		return goerr.Wrap(err, "failed to create ticket from command",
			goerr.V("kind", kind),
			goerr.V("title", title))
	}

	response := fmt.Sprintf("✅ Your new %s ticket has been created here: %s", word, created.URL)
	return c.postReply(ctx, channelID, threadTS, response)
}

// buildLegacyDescription renders the description used by the bang commands.
// Bug tickets carry the reporting-guidelines panel, the other kinds only the
// thread reference.
func (c *Command) buildLegacyDescription(ctx context.Context, kind types.TicketKind, channelID types.ChannelID, userID types.SlackUserID, threadTS types.ThreadTS) string {
	permalink := threadPermalink(c.workspaceURL, channelID, types.MessageTS(threadTS))

	parent := c.parentMessage(ctx, channelID, threadTS)
	parent = stripCommand(parent, "!"+strings.ToLower(kind.String()))
	if parent == "" {
		parent = "No additional context available"
	}

	head := fmt.Sprintf(
		"{panel:borderStyle=dashed|borderColor=#00b|titleBGColor=#d2e0fc|bgColor=#f0f4ff}"+
			"This ticket is created as a result of the following Slack thread: %s"+
			"{panel}\n\n",
		permalink)

	if kind == types.TicketKindBug {
		return head + fmt.Sprintf(
			"{panel:title=Bug Report|borderStyle=dashed|borderColor=#ccc|titleBGColor=#F7D6C1|bgColor=#FFFFCE}"+
				"Bug reported by <@%s> via Slack. Please ensure the description follows bug reporting guidelines."+
				"{panel}\n\n"+
				"*Original Slack message:*\n%s",
			userID, parent)
	}

	return head + fmt.Sprintf(
		"*Requested by:* <@%s>\n\n*Original Slack message:*\n%s",
		userID, parent)
}

// parentMessage fetches the text of the thread's parent message
func (c *Command) parentMessage(ctx context.Context, channelID types.ChannelID, threadTS types.ThreadTS) string {
	messages, err := c.slackClient.GetThreadReplies(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: channelID.String(),
		Timestamp: string(threadTS),
		Limit:     1,
	})
	if err != nil {
		ctxlog.From(ctx).Warn("Failed to fetch thread parent message",
			"error", err,
			"threadTS", threadTS,
		)
		return ""
	}
	if len(messages) == 0 {
		return ""
	}
	return messages[0].Text
}

// respondInProgress lists what a mentioned user is currently working on
func (c *Command) respondInProgress(ctx context.Context, channelID types.ChannelID, threadTS types.ThreadTS, text string) error {
	mention := stripCommand(text, "!inprogress")
	if !strings.HasPrefix(mention, "<@") || !strings.HasSuffix(mention, ">") {
		return c.postReply(ctx, channelID, threadTS, "Invalid user ID format. Please use the format <@USERID>.")
	}
	userID := strings.TrimSuffix(strings.TrimPrefix(mention, "<@"), ">")

	email, err := c.slackClient.GetUserEmail(ctx, userID)
	if err != nil {
		if postErr := c.postReply(ctx, channelID, threadTS,
			fmt.Sprintf("❌ Could not resolve the email address of %s.", mention)); postErr != nil {
			ctxlog.From(ctx).Warn("Failed to post email lookup failure", "error", postErr)
		}
		return goerr.Wrap(err, "failed to resolve user email",
			goerr.V("userID", userID))
	}

	tickets, err := c.ticketClient.AssignedTickets(ctx, email)
	if err != nil {
		if postErr := c.postReply(ctx, channelID, threadTS,
			fmt.Sprintf("❌ Could not look up the assigned tickets of %s.", mention)); postErr != nil {
			ctxlog.From(ctx).Warn("Failed to post assigned ticket failure", "error", postErr)
		}
		return goerr.Wrap(err, "failed to query assigned tickets",
			goerr.V("email", email))
	}

	if len(tickets) == 0 {
		return c.postReply(ctx, channelID, threadTS,
			fmt.Sprintf(":construction: %s has *no tasks* assigned that is in progress.", mention))
	}

	lines := make([]string, 0, len(tickets))
	for i, ticket := range tickets {
		lines = append(lines, fmt.Sprintf("%d. _*%s*_ - <%s|%s - %s> in *%s*.",
			i+1, ticket.Priority, ticket.URL, ticket.Key, ticket.Title, ticket.State))
	}
	response := fmt.Sprintf(":construction: %s is *currently working* on the following ticket(s):\n\n%s",
		mention, strings.Join(lines, "\n"))
	return c.postReply(ctx, channelID, threadTS, response)
}

// respondTime reports how long a ticket spent in each workflow state
func (c *Command) respondTime(ctx context.Context, channelID types.ChannelID, threadTS types.ThreadTS, text string) error {
	ticketID := stripCommand(text, "!time")
	if ticketID == "" {
		return c.postReply(ctx, channelID, threadTS,
			"Please provide a ticket ID to get the elapsed time for each state transition.")
	}
	key := types.TicketKey(strings.ToUpper(ticketID))

	history, err := c.ticketClient.TicketHistory(ctx, key)
	if err != nil {
		if postErr := c.postReply(ctx, channelID, threadTS,
			fmt.Sprintf("Error getting elapsed time for ticket *%s*: %s", key, err)); postErr != nil {
			ctxlog.From(ctx).Warn("Failed to post history failure", "error", postErr)
		}
		return goerr.Wrap(err, "failed to get ticket history",
			goerr.V("key", key))
	}

	sizePriority, err := c.ticketClient.StorySizePriority(ctx, key)
	if err != nil {
		sizePriority = &model.StorySizePriority{Size: "None", Priority: "None"}
	}

	lines := make([]string, 0, len(history))
	for i, duration := range history {
		formatted := formatDuration(duration.Elapsed)
		if duration.Current {
			lines = append(lines, fmt.Sprintf("%d. :here: Currently in *%s* state for *%s*.",
				i+1, duration.State, formatted))
		} else {
			lines = append(lines, fmt.Sprintf("%d. Stayed in *%s* state for *%s*.",
				i+1, duration.State, formatted))
		}
	}

	response := fmt.Sprintf(
		"The elapsed time for each state of ticket *%s* with *%s points* and *%s priority* as follows:\n\n%s",
		key, sizePriority.Size, sizePriority.Priority, strings.Join(lines, "\n"))
	return c.postReply(ctx, channelID, threadTS, response)
}

func (c *Command) postReply(ctx context.Context, channelID types.ChannelID, threadTS types.ThreadTS, text string) error {
	_, _, err := c.slackClient.PostMessage(ctx, channelID.String(),
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(string(threadTS)),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post command reply",
			goerr.V("channelID", channelID),
			goerr.V("threadTS", threadTS))
	}
	return nil
}

// stripCommand removes the command token from the message text
func stripCommand(text, command string) string {
	text = strings.Replace(text, command+" ", "", 1)
	text = strings.Replace(text, command, "", 1)
	return strings.TrimSpace(text)
}

// formatDuration renders a duration the way people read ticket timelines
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d day(s)", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hour(s)", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minute(s)", minutes))
	}
	if seconds > 0 {
		parts = append(parts, fmt.Sprintf("%d second(s)", seconds))
	}
	if len(parts) == 0 {
		return "0 second(s)"
	}
	return strings.Join(parts, " ")
}
