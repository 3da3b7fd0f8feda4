package fetch

import (
	"net/url"
	"slices"
	"strings"
)

// Platform names a job board whose pages get dedicated extraction rules.
type Platform string

// Known job boards
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformGoogle     Platform = "google"
	PlatformUnknown    Platform = "unknown"
)

// board describes how to recognize a job board and where its posting text lives.
type board struct {
	hosts []string
	// content selectors are tried in order; the first match with enough text wins.
	content []string
	// noise is stripped on top of the selectors shared by every board.
	noise []string
	// clientRendered boards ship an empty shell and need a browser.
	clientRendered bool
}

var boards = map[Platform]board{
	PlatformGreenhouse: {
		hosts:   []string{"greenhouse.io"},
		content: []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:   []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	},
	PlatformLever: {
		hosts:   []string{"lever.co"},
		content: []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:   []string{".apply-section", ".posting-apply"},
	},
	PlatformWorkday: {
		hosts:          []string{"workday.com", "myworkdayjobs.com"},
		content:        []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:          []string{"[data-automation-id='applyButton']", "[data-automation-id='similarJobs']"},
		clientRendered: true,
	},
	PlatformAshby: {
		hosts:          []string{"ashbyhq.com"},
		content:        []string{"[class*='descriptionText']", "#overview", "main"},
		noise:          []string{"[class*='applicationForm']"},
		clientRendered: true,
	},
	PlatformGoogle: {
		hosts:   []string{"careers.google.com"},
		content: []string{".DkhPwc", "[jsname='tIk9qd']", "main"},
		noise:   []string{"[aria-label='Share']"},
	},
}

// sharedNoise covers apply forms, EEO boilerplate and share widgets found on most boards.
var sharedNoise = []string{
	"form", "#application-form", ".application-form", ".apply-button-container", "[data-testid='application-form']",
	".voluntary-disclosure", ".eeo-statement", ".eeo-section", ".legal-disclosure", ".self-identification",
	".social-share", ".share-buttons", ".cookie-consent", ".gdpr-notice",
}

// DetectPlatform identifies the job board hosting urlStr.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())

	// Google also serves postings from its main domain.
	if host == "www.google.com" && strings.HasPrefix(parsed.Path, "/about/careers") {
		return PlatformGoogle
	}

	for platform, b := range boards {
		if slices.ContainsFunc(b.hosts, func(h string) bool {
			return host == h || strings.HasSuffix(host, "."+h)
		}) {
			return platform
		}
	}
	return PlatformUnknown
}

// RequiresBrowser reports whether a platform renders its postings client-side.
func RequiresBrowser(platform Platform) bool {
	return boards[platform].clientRendered
}

// PlatformContentSelectors returns the selectors holding the posting body on platform,
// falling back to generic job page selectors.
func PlatformContentSelectors(platform Platform) []string {
	if b, ok := boards[platform]; ok {
		return slices.Clone(b.content)
	}
	return JobPostingSelectors()
}

// PlatformNoiseSelectors returns the selectors to strip before extracting text on platform.
func PlatformNoiseSelectors(platform Platform) []string {
	return append(slices.Clone(sharedNoise), boards[platform].noise...)
}
