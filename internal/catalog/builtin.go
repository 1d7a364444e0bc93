package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/fieldlens/fieldlens/internal/schema"
)

// Builtin serves the toolkit definitions compiled into the binary. It backs
// the default install where no toolkit files or remote catalog are configured.
type Builtin struct{}

// GetToolSchema implements Provider.
func (Builtin) GetToolSchema(_ context.Context, slug string) (*schema.ToolSchema, error) {
	if ts, ok := builtinTools[strings.ToUpper(slug)]; ok {
		return ts, nil
	}
	return nil, ErrNotFound
}

// Slugs returns all builtin tool slugs, sorted.
func (Builtin) Slugs() []string {
	slugs := make([]string, 0, len(builtinTools))
	for s := range builtinTools {
		slugs = append(slugs, s)
	}
	sort.Strings(slugs)
	return slugs
}

var builtinTools = map[string]*schema.ToolSchema{
	"GOOGLECALENDAR_CREATE_EVENT": {
		Slug:        "GOOGLECALENDAR_CREATE_EVENT",
		Name:        "Create Calendar Event",
		Description: "Creates an event on a Google Calendar.",
		Parameters: []schema.ParameterSpec{
			{Key: "calendar_id", Title: "Calendar ID", Description: "Target calendar identifier", Default: "primary"},
			{Key: "summary", Title: "Title", Description: "Event title", Required: true},
			{Key: "start_datetime", Title: "Start Datetime", Description: "Event start in YYYY-MM-DDTHH:MM", Required: true},
			{Key: "event_duration", Title: "Duration", Description: "Duration in minutes", Default: "30"},
			{Key: "attendees", Title: "Attendee Emails", Description: "Email addresses of attendees"},
			{Key: "timezone", Title: "Timezone", Description: "IANA timezone for the event"},
			{Key: "location", Title: "Location", Description: "Where the event takes place"},
			{Key: "description", Title: "Description", Description: "Longer event description"},
			{Key: "send_updates", Title: "Send Updates", Description: "Whether to notify attendees", Default: "true"},
			{Key: "visibility", Title: "Visibility", Description: "Event visibility", Default: "default"},
		},
	},
	"GMAIL_SEND_EMAIL": {
		Slug:        "GMAIL_SEND_EMAIL",
		Name:        "Send Email",
		Description: "Sends an email from the connected Gmail account.",
		Parameters: []schema.ParameterSpec{
			{Key: "recipient_email", Title: "Recipient Email", Description: "Address to send to", Required: true},
			{Key: "subject", Title: "Subject", Description: "Email subject line", Required: true},
			{Key: "body", Title: "Body", Description: "Email body text", Required: true},
			{Key: "cc", Title: "CC", Description: "Carbon-copy addresses"},
			{Key: "bcc", Title: "BCC", Description: "Blind carbon-copy addresses"},
			{Key: "is_html", Title: "HTML Body", Description: "Treat body as HTML", Default: "false"},
		},
	},
	"GMAIL_FETCH_EMAILS": {
		Slug:        "GMAIL_FETCH_EMAILS",
		Name:        "Fetch Emails",
		Description: "Fetches recent emails from the connected Gmail account.",
		Parameters: []schema.ParameterSpec{
			{Key: "query", Title: "Query", Description: "Gmail search query"},
			{Key: "max_results", Title: "Max Results", Description: "Maximum messages to return", Default: "10"},
			{Key: "label_ids", Title: "Labels", Description: "Label IDs to filter by"},
		},
	},
	"GITHUB_CREATE_AN_ISSUE": {
		Slug:        "GITHUB_CREATE_AN_ISSUE",
		Name:        "Create Issue",
		Description: "Creates an issue in a GitHub repository.",
		Parameters: []schema.ParameterSpec{
			{Key: "repo", Title: "Repository", Description: "Repository in owner/repo form", Required: true},
			{Key: "title", Title: "Title", Description: "Issue title", Required: true},
			{Key: "body", Title: "Body", Description: "Issue body markdown"},
			{Key: "labels", Title: "Labels", Description: "Labels to apply"},
			{Key: "assignees", Title: "Assignees", Description: "Usernames to assign"},
			{Key: "milestone", Title: "Milestone", Description: "Milestone number"},
		},
	},
	"GITHUB_ACTIVITY_STAR_REPO_FOR_AUTHENTICATED_USER": {
		Slug:        "GITHUB_ACTIVITY_STAR_REPO_FOR_AUTHENTICATED_USER",
		Name:        "Star Repository",
		Description: "Stars a repository for the authenticated user.",
		Parameters: []schema.ParameterSpec{
			{Key: "repo", Title: "Repository", Description: "Repository in owner/repo form", Required: true},
		},
	},
	"GITHUB_LIST_REPOSITORIES_FOR_AUTHENTICATED_USER": {
		Slug:        "GITHUB_LIST_REPOSITORIES_FOR_AUTHENTICATED_USER",
		Name:        "List Repositories",
		Description: "Lists repositories for the authenticated user.",
		Parameters: []schema.ParameterSpec{
			{Key: "visibility", Title: "Visibility", Description: "all, public, or private", Default: "all"},
			{Key: "sort", Title: "Sort", Description: "Sort order", Default: "pushed"},
			{Key: "per_page", Title: "Per Page", Description: "Results per page", Default: "30"},
		},
	},
	"SLACK_SENDS_A_MESSAGE_TO_A_SLACK_CHANNEL": {
		Slug:        "SLACK_SENDS_A_MESSAGE_TO_A_SLACK_CHANNEL",
		Name:        "Send Slack Message",
		Description: "Posts a message to a Slack channel.",
		Parameters: []schema.ParameterSpec{
			{Key: "channel", Title: "Channel", Description: "Channel name or ID", Required: true},
			{Key: "text", Title: "Message", Description: "Message text", Required: true},
			{Key: "thread_ts", Title: "Thread", Description: "Thread timestamp to reply in"},
		},
	},
}
