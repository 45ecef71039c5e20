package fetch

import (
	"net/url"
	"strings"
)

// GenericBoardName names the fallback layout used for unrecognized sites.
const GenericBoardName = "generic"

// Board describes how one job board lays out a posting page. Selector lists
// are tried in order; the first non-empty match wins.
type Board struct {
	Name string
	// Domains match the page host and any of its subdomains.
	Domains     []string
	Description []string
	Title       []string
	Company     []string
	// Noise is removed from the page before the description is read.
	Noise []string
	// ClientRendered boards build the description with JavaScript, so the
	// HTTP response alone never carries it.
	ClientRendered bool
}

// genericDescription is tried after a board's own selectors.
var genericDescription = []string{
	"[itemprop='description']",
	".job-description",
	"#job-description",
	".job-details",
	".posting-content",
	"main",
	"article",
	"[role='main']",
}

// pageNoise is stripped from every page: chrome, apply forms, consent
// banners and equal-opportunity boilerplate.
var pageNoise = []string{
	"nav", "header", "footer", "aside", "script", "style", "noscript", "iframe", "svg",
	"form", "button", "[role='dialog']",
	".sidebar", ".cookie-banner", "#onetrust-consent-sdk",
	".share-buttons", ".social-share",
	".eeo-statement", ".eeoc", ".voluntary-self-id",
}

var boards = []Board{
	{
		Name:        "greenhouse",
		Domains:     []string{"greenhouse.io"},
		Description: []string{".job__description", "#content"},
		Title:       []string{".job__title h1", "h1.app-title"},
		Company:     []string{".company-name"},
		Noise:       []string{"#application", "#eeoc_fields", ".application--container"},
	},
	{
		Name:        "lever",
		Domains:     []string{"lever.co"},
		Description: []string{"[data-qa='job-description']", ".posting-page .section-wrapper"},
		Title:       []string{".posting-headline h2"},
		Noise:       []string{".postings-btn-wrapper", ".posting-apply"},
	},
	{
		Name:           "workday",
		Domains:        []string{"myworkdayjobs.com", "myworkdaysite.com"},
		Description:    []string{"[data-automation-id='jobPostingDescription']"},
		Title:          []string{"[data-automation-id='jobPostingHeader']"},
		ClientRendered: true,
	},
	{
		Name:        "linkedin",
		Domains:     []string{"linkedin.com"},
		Description: []string{".show-more-less-html__markup", ".description__text"},
		Title:       []string{".top-card-layout__title", ".topcard__title"},
		Company:     []string{".topcard__org-name-link"},
		Noise:       []string{".show-more-less-html__button", ".sign-up-modal"},
	},
	{
		Name:        "indeed",
		Domains:     []string{"indeed.com", "indeed.co.in", "indeed.co.uk", "indeed.ca"},
		Description: []string{"#jobDescriptionText"},
		Title:       []string{".jobsearch-JobInfoHeader-title"},
		Company:     []string{"[data-company-name='true']"},
	},
	{
		Name:           "naukri",
		Domains:        []string{"naukri.com"},
		Description:    []string{"section[class*='job-desc']", "div[class*='dang-inner-html']"},
		Title:          []string{"h1[class*='jd-header-title']"},
		Company:        []string{"div[class*='jd-header-comp-name'] a"},
		ClientRendered: true,
	},
}

var genericBoard = Board{Name: GenericBoardName, Description: genericDescription, Title: []string{"h1"}}

// GenericBoard returns the layout used for sites that are not a known job board.
func GenericBoard() Board {
	return genericBoard
}

// BoardFor picks the board whose domain hosts rawURL. Hosts are matched on
// whole labels, so "notlinkedin.com" is not LinkedIn.
func BoardFor(rawURL string) Board {
	u, err := url.Parse(rawURL)
	if err != nil {
		return genericBoard
	}
	host := strings.ToLower(u.Hostname())
	for _, b := range boards {
		for _, d := range b.Domains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return b
			}
		}
	}
	return genericBoard
}

// BoardNames lists the recognized job boards.
func BoardNames() []string {
	names := make([]string, len(boards))
	for i, b := range boards {
		names[i] = b.Name
	}
	return names
}
