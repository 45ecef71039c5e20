package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPosting_Selectors(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		board       Board
		title       string
		description string
		notContains []string
	}{
		{
			name: "generic description container wins over page chrome",
			html: `<html><head><title>Careers | Acme</title></head><body>
				<nav>Navigation</nav>
				<div class="sidebar">Sidebar junk</div>
				<h1>Backend Engineer</h1>
				<div class="job-description">
					<h2>Requirements</h2>
					<ul><li>5 years experience in Go</li><li>PostgreSQL</li></ul>
				</div>
				<footer>Footer</footer>
			</body></html>`,
			board:       GenericBoard(),
			title:       "Backend Engineer",
			description: "Requirements\n5 years experience in Go\nPostgreSQL",
		},
		{
			name: "board selector beats generic main",
			html: `<html><body><main><div class="show-more-less-html__markup"><p>Own the payments API.</p><p>Go and Kafka.</p></div>
				<button class="show-more-less-html__button">Show more</button><p>Similar jobs</p></main></body></html>`,
			board:       BoardFor("https://www.linkedin.com/jobs/view/1"),
			description: "Own the payments API.\nGo and Kafka.",
		},
		{
			name:        "empty board container falls through",
			html:        `<html><body><div data-automation-id="jobPostingDescription"> </div><article>Build data pipelines.</article></body></html>`,
			board:       BoardFor("https://acme.wd5.myworkdayjobs.com/job/1"),
			description: "Build data pipelines.",
		},
		{
			name:        "apply forms and consent banners are dropped",
			html:        `<html><body><main><p>We need a Go engineer.</p><form id="application-form">Apply now</form><div class="cookie-banner">Accept cookies</div></main></body></html>`,
			board:       GenericBoard(),
			description: "We need a Go engineer.",
		},
		{
			name:        "falls back to body",
			html:        `<html><head><meta property="og:title" content="Data Engineer"></head><body><div>Some content here.</div></body></html>`,
			board:       GenericBoard(),
			title:       "Data Engineer",
			description: "Some content here.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ExtractPosting(tt.html, tt.board)
			require.NoError(t, err)
			assert.Equal(t, tt.description, p.Description)
			if tt.title != "" {
				assert.Equal(t, tt.title, p.Title)
			}
		})
	}
}

func TestExtractPosting_StructuredData(t *testing.T) {
	tests := []struct {
		name    string
		ld      string
		title   string
		company string
	}{
		{
			name:    "single node",
			ld:      `{"@context":"https://schema.org","@type":"JobPosting","title":"Platform Engineer","hiringOrganization":{"@type":"Organization","name":"Acme"},"description":"<p>Run Kubernetes.</p><ul><li>Terraform</li></ul>"}`,
			title:   "Platform Engineer",
			company: "Acme",
		},
		{
			name:    "graph with escaped markup and string organization",
			ld:      `{"@graph":[{"@type":"WebPage","name":"Jobs"},{"@type":["JobPosting"],"title":"Platform Engineer","hiringOrganization":"Acme","description":"&lt;p&gt;Run Kubernetes.&lt;/p&gt;&lt;ul&gt;&lt;li&gt;Terraform&lt;/li&gt;&lt;/ul&gt;"}]}`,
			title:   "Platform Engineer",
			company: "Acme",
		},
		{
			name:  "array of nodes",
			ld:    `[{"@type":"Organization","name":"Acme"},{"@type":"JobPosting","title":"Platform Engineer","description":"<p>Run Kubernetes.</p><p>Terraform</p>"}]`,
			title: "Platform Engineer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := `<html><head><script type="application/ld+json">` + tt.ld + `</script></head>
				<body><main>Page body that should not be used</main></body></html>`

			p, err := ExtractPosting(page, GenericBoard())
			require.NoError(t, err)
			assert.Equal(t, "Run Kubernetes.\nTerraform", p.Description)
			assert.Equal(t, tt.title, p.Title)
			assert.Equal(t, tt.company, p.Company)
		})
	}
}

func TestExtractPosting_StructuredDataFallsBackToPage(t *testing.T) {
	page := `<html><head>
		<script type="application/ld+json">{"@type":"JobPosting","title":"Empty","description":""}</script>
		<script type="application/ld+json">not json</script>
		<meta property="og:site_name" content="Acme Careers">
	</head><body><main><h1>SRE</h1><p>Keep production healthy.</p></main></body></html>`

	p, err := ExtractPosting(page, GenericBoard())
	require.NoError(t, err)
	assert.Equal(t, "SRE\nKeep production healthy.", p.Description)
	assert.Equal(t, "SRE", p.Title)
	assert.Equal(t, "Acme Careers", p.Company)
}
