package commandService

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"EchoOS/internal/api/command"
	"EchoOS/internal/entity"
)

func (e *executorDomainImpl) executeWeb(c context.Context, cmd entity.Command) (string, error) {
	switch cmd.Intent {
	case "open_website":
		site, ok := cmd.Parameters["url"]
		if !ok || site == "" {
			return "", command.ErrMissingParameter
		}
		return e.openPath(c, websiteURL(site), fmt.Sprintf("Opening %s", site))
	case "search_google":
		query, ok := cmd.Parameters["query"]
		if !ok || query == "" {
			return "", command.ErrMissingParameter
		}
		target := "https://www.google.com/search?q=" + url.QueryEscape(query)
		return e.openPath(c, target, fmt.Sprintf("Searching Google for %s", query))
	case "search_youtube":
		query, ok := cmd.Parameters["query"]
		if !ok || query == "" {
			return "", command.ErrMissingParameter
		}
		target := "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
		return e.openPath(c, target, fmt.Sprintf("Searching YouTube for %s", query))
	default:
		return "", fmt.Errorf("unhandled web intent %q", cmd.Intent)
	}
}

// websiteURL normalizes a spoken site name into an https URL. Spoken
// domains rarely carry a scheme and often drop the TLD ("open website
// google"), so a bare label gets ".com" appended.
func websiteURL(site string) string {
	site = strings.TrimSpace(strings.ReplaceAll(site, " ", ""))
	site = strings.TrimPrefix(site, "http://")
	site = strings.TrimPrefix(site, "https://")

	if !strings.Contains(site, ".") {
		site += ".com"
	}
	return "https://" + site
}
