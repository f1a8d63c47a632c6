package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	jira "github.com/ctreminiom/go-atlassian/v2/jira/v2"
	"github.com/ctreminiom/go-atlassian/v2/pkg/infra/models"
	"github.com/m-mizutani/goerr/v2"
	"github.com/weevil-bot/weevil/pkg/domain/interfaces"
	"github.com/weevil-bot/weevil/pkg/domain/model"
	"github.com/weevil-bot/weevil/pkg/domain/types"
)

// Jira timestamps look like 2024-05-01T12:34:56.000+0900
const jiraTimeLayout = "2006-01-02T15:04:05.000-0700"

// progress states queried by the assigned-ticket lookup
var inProgressStates = []string{"Development", "Code Complete", "Blocked"}

// Config holds the connection and schema settings of the Jira project
type Config struct {
	BaseURL    string
	Email      string
	APIToken   string
	ProjectKey string

	// Custom field IDs of the target project schema
	EnvironmentField string
	ProductField     string
	StoryPointsField string
}

// Service talks to the Jira REST API v2
type Service struct {
	client *jira.Client
	cfg    Config
	now    func() time.Time
}

var _ interfaces.TicketClient = (*Service)(nil)

// New creates a Jira service with basic auth credentials
func New(cfg Config) (*Service, error) {
	client, err := jira.New(nil, cfg.BaseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Jira client",
			goerr.V("baseURL", cfg.BaseURL))
	}
	client.Auth.SetBasicAuth(cfg.Email, cfg.APIToken)

	return &Service{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}, nil
}

// CreateTicket creates an issue of the requested kind with the classified metadata
func (s *Service) CreateTicket(ctx context.Context, req *model.TicketRequest) (*model.CreatedTicket, error) {
	payload := &models.IssueSchemeV2{
		Fields: &models.IssueFieldsSchemeV2{
			Summary:     req.Title,
			Description: req.Description,
			Project:     &models.ProjectScheme{Key: s.cfg.ProjectKey},
			IssueType:   &models.IssueTypeScheme{Name: req.Kind.String()},
		},
	}

	customFields := &models.CustomFields{}
	if s.cfg.EnvironmentField != "" && req.Environment.IsValid() {
		if err := customFields.Select(s.cfg.EnvironmentField, req.Environment.String()); err != nil {
			return nil, goerr.Wrap(err, "failed to set environment field",
				goerr.V("field", s.cfg.EnvironmentField))
		}
	}
	if s.cfg.ProductField != "" && req.Product.IsValid() {
		if err := customFields.MultiSelect(s.cfg.ProductField, []string{req.Product.String()}); err != nil {
			return nil, goerr.Wrap(err, "failed to set product field",
				goerr.V("field", s.cfg.ProductField))
		}
	}

	created, _, err := s.client.Issue.Create(ctx, payload, customFields)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Jira issue",
			goerr.V("project", s.cfg.ProjectKey),
			goerr.V("kind", req.Kind),
			goerr.V("title", req.Title))
	}

	key := types.TicketKey(created.Key)
	return &model.CreatedTicket{
		Key: key,
		URL: s.browseURL(key),
	}, nil
}

// AssignedTickets lists the tickets a user is actively working on
func (s *Service) AssignedTickets(ctx context.Context, email string) ([]*model.AssignedTicket, error) {
	accountID, err := s.lookupAccountID(ctx, email)
	if err != nil {
		return nil, err
	}

	jql := fmt.Sprintf("assignee = %s AND status IN (%s)", accountID, quoteList(inProgressStates))
	result, _, err := s.client.Issue.Search.Get(ctx, jql, []string{"summary", "status", "priority"}, nil, 0, 50, "")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search assigned issues",
			goerr.V("jql", jql))
	}

	tickets := make([]*model.AssignedTicket, 0, len(result.Issues))
	for _, issue := range result.Issues {
		ticket := &model.AssignedTicket{
			Key:   types.TicketKey(issue.Key),
			Title: issue.Fields.Summary,
			URL:   s.browseURL(types.TicketKey(issue.Key)),
		}
		if issue.Fields.Status != nil {
			ticket.State = issue.Fields.Status.Name
		}
		if issue.Fields.Priority != nil {
			ticket.Priority = issue.Fields.Priority.Name
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

// TicketHistory reconstructs how long the ticket spent in each workflow state
// from its changelog. The first state is assumed to be "To Do" and the last
// entry is marked as the current state.
func (s *Service) TicketHistory(ctx context.Context, key types.TicketKey) ([]*model.StateDuration, error) {
	issue, _, err := s.client.Issue.Get(ctx, key.String(), nil, []string{"changelog"})
	if err != nil {
		return nil, goerr.Wrap(model.ErrTicketNotFound, "failed to get issue",
			goerr.V("key", key))
	}

	if issue.Fields.IssueType != nil && issue.Fields.IssueType.Name == types.TicketKindEpic.String() {
		return nil, goerr.Wrap(model.ErrEpicHasNoTimeline, "epic has no state timeline",
			goerr.V("key", key))
	}

	if issue.Fields.Created == nil {
		return nil, goerr.New("failed to parse issue creation time",
			goerr.V("key", key))
	}
	lastTime := time.Time(*issue.Fields.Created)

	type transition struct {
		at    time.Time
		state string
	}
	var transitions []transition
	if issue.Changelog != nil {
		for _, history := range issue.Changelog.Histories {
			for _, item := range history.Items {
				if item.Field != "status" {
					continue
				}
				at, err := parseJiraTime(history.Created)
				if err != nil {
					continue
				}
				transitions = append(transitions, transition{at: at, state: item.ToString})
			}
		}
	}
	sort.Slice(transitions, func(i, j int) bool {
		return transitions[i].at.Before(transitions[j].at)
	})

	lastState := "To Do"
	var durations []*model.StateDuration
	for _, tr := range transitions {
		durations = append(durations, &model.StateDuration{
			State:   lastState,
			Elapsed: tr.at.Sub(lastTime),
		})
		lastTime = tr.at
		lastState = tr.state
	}
	durations = append(durations, &model.StateDuration{
		State:   lastState,
		Elapsed: s.now().Sub(lastTime),
		Current: true,
	})

	return durations, nil
}

// StorySizePriority reads the story points and priority of a ticket
func (s *Service) StorySizePriority(ctx context.Context, key types.TicketKey) (*model.StorySizePriority, error) {
	fields := []string{"priority"}
	if s.cfg.StoryPointsField != "" {
		fields = append(fields, s.cfg.StoryPointsField)
	}

	issue, response, err := s.client.Issue.Get(ctx, key.String(), fields, nil)
	if err != nil {
		return nil, goerr.Wrap(model.ErrTicketNotFound, "failed to get issue",
			goerr.V("key", key))
	}

	result := &model.StorySizePriority{
		Size:     "None",
		Priority: "None",
	}
	if issue.Fields.Priority != nil && issue.Fields.Priority.Name != "" {
		result.Priority = issue.Fields.Priority.Name
	}

	// Story points live in a schema-specific custom field, which the typed
	// issue scheme does not expose. Read it from the raw response body.
	if s.cfg.StoryPointsField != "" && response != nil {
		if size, ok := extractNumberField(response.Bytes.Bytes(), s.cfg.StoryPointsField); ok {
			result.Size = size
		}
	}

	return result, nil
}

// lookupAccountID resolves an email address to the Jira account ID
func (s *Service) lookupAccountID(ctx context.Context, email string) (string, error) {
	users, _, err := s.client.User.Search.Do(ctx, "", email, 0, 2)
	if err != nil {
		return "", goerr.Wrap(err, "failed to search Jira user",
			goerr.V("email", email))
	}
	if len(users) == 0 {
		return "", goerr.Wrap(model.ErrUserEmailNotFound, "no Jira user for email",
			goerr.V("email", email))
	}
	return users[0].AccountID, nil
}

func (s *Service) browseURL(key types.TicketKey) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/browse/" + key.String()
}

func parseJiraTime(value string) (time.Time, error) {
	return time.Parse(jiraTimeLayout, value)
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + item + "'"
	}
	return strings.Join(quoted, ", ")
}

// extractNumberField pulls a numeric custom field out of a raw issue payload
func extractNumberField(body []byte, fieldID string) (string, bool) {
	var payload struct {
		Fields map[string]json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	raw, ok := payload.Fields[fieldID]
	if !ok {
		return "", false
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	if value == float64(int64(value)) {
		return fmt.Sprintf("%d", int64(value)), true
	}
	return fmt.Sprintf("%g", value), true
}
