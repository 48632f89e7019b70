package tools

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/function"
)

// siteTargets maps known platforms to their base and search URLs.
var siteTargets = map[string]struct {
	base   string
	search string
}{
	"redbus":    {base: "https://www.redbus.in", search: "https://www.google.com/search?q=redbus+"},
	"chatgpt":   {base: "https://chat.openai.com", search: "https://chat.openai.com"},
	"whatsapp":  {base: "https://web.whatsapp.com", search: "https://web.whatsapp.com"},
	"instagram": {base: "https://www.instagram.com", search: "https://www.instagram.com/explore/tags/"},
	"irctc":     {base: "https://www.irctc.co.in", search: "https://www.google.com/search?q=irctc+"},
	"gemini":    {base: "https://gemini.google.com", search: "https://gemini.google.com"},
	"maps":      {base: "https://www.google.com/maps", search: "https://www.google.com/maps/search/"},
	"linkedin":  {base: "https://www.linkedin.com", search: "https://www.linkedin.com/search/results/all/?keywords="},
	"amazon":    {base: "https://www.amazon.in", search: "https://www.amazon.in/s?k="},
	"flipkart":  {base: "https://www.flipkart.com", search: "https://www.flipkart.com/search?q="},
}

// BrowserOpener launches a URL in the user's browser. Swapped for a stub
// in tests.
type BrowserOpener func(url string) error

// OpenBrowser launches the platform default browser.
func OpenBrowser(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	case "darwin":
		cmd = exec.Command("open", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	return cmd.Start()
}

// NavigationTarget resolves a site name plus optional search query into the
// URL to open and the message to speak.
func NavigationTarget(siteName, searchQuery string) (string, string) {
	clean := strings.ToLower(strings.TrimSpace(siteName))
	encoded := url.QueryEscape(searchQuery)

	if target, ok := siteTargets[clean]; ok {
		if searchQuery != "" {
			return target.search + encoded, fmt.Sprintf("Searching for '%s' on %s.", searchQuery, siteName)
		}
		return target.base, fmt.Sprintf("Opening %s.", siteName)
	}

	term := siteName
	if searchQuery != "" {
		term = searchQuery + " on " + siteName
	}
	return "https://www.google.com/search?q=" + url.QueryEscape(term),
		fmt.Sprintf("Searching for '%s' on Google.", term)
}

// RegisterWebNavigation adds the site navigation tool.
func RegisterWebNavigation(reg *function.Registry, open BrowserOpener) error {
	if open == nil {
		open = OpenBrowser
	}

	def := function.NewDefinition(
		"web_navigation",
		"Navigates to popular websites or searches for specific products on them. Example: site_name='amazon', search_query='laptop' searches Amazon for laptops.",
		function.Param{Name: "site_name", Description: "Platform name, e.g. amazon, maps, linkedin.", Required: true},
		function.Param{Name: "search_query", Description: "Optional search term for the platform."},
	)

	return reg.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
		siteName, _ := args["site_name"].(string)
		searchQuery, _ := args["search_query"].(string)
		if strings.TrimSpace(siteName) == "" {
			return "", fmt.Errorf("no site name given")
		}

		target, msg := NavigationTarget(siteName, searchQuery)
		if err := open(target); err != nil {
			return "", fmt.Errorf("could not open browser: %v", err)
		}
		return msg, nil
	})
}

// RegisterYouTubePlayer adds the video playback tool. The top search result
// page opens in the browser; playback itself stays in the user's hands.
func RegisterYouTubePlayer(reg *function.Registry, open BrowserOpener) error {
	if open == nil {
		open = OpenBrowser
	}

	def := function.NewDefinition(
		"youtube_video_player",
		"Searches YouTube for the given query and plays the top result in the browser. Use this when the user asks to play a song, music, or a video.",
		function.Param{Name: "query", Description: "The search query for the video.", Required: true},
	)

	return reg.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
		query, _ := args["query"].(string)
		if strings.TrimSpace(query) == "" {
			return "", fmt.Errorf("no video query given")
		}

		target := "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
		if err := open(target); err != nil {
			return "", fmt.Errorf("could not open browser: %v", err)
		}
		return fmt.Sprintf("Now playing: %s in your browser.", query), nil
	})
}
