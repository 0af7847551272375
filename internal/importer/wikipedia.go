// Package importer pulls conflict records out of Wikipedia list pages.
package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"openeyes/internal/models"
	"openeyes/internal/observability"
	"openeyes/internal/repository"
	"openeyes/internal/service"

	"golang.org/x/net/html"
)

// Log types written around an import run.
const (
	logTypeAttempt = "data_import_attempt"
	logTypeSuccess = "data_import_success"
	logTypeFailed  = "data_import_failed"
)

const maxResponseBytes = 10 << 20 // 10 MiB

// Wikipedia is a one-shot importer for conflict tables on en.wikipedia.org
// list pages (e.g. /wiki/List_of_ongoing_armed_conflicts).
type Wikipedia struct {
	client       *http.Client
	conflictRepo repository.ConflictRepository
	audit        *service.AuditLogger
}

// Result summarizes an import run.
type Result struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Names    []string `json:"names"`
}

func NewWikipedia(client *http.Client, conflictRepo repository.ConflictRepository, audit *service.AuditLogger) *Wikipedia {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Wikipedia{
		client:       client,
		conflictRepo: conflictRepo,
		audit:        audit,
	}
}

// ValidateURL checks that rawURL points at an en.wikipedia.org article page.
// Anything else is rejected before a single byte is fetched.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return models.NewValidationError("Invalid URL")
	}
	if u.Scheme != "https" {
		return models.NewValidationError("URL must use https")
	}
	if u.Hostname() != "en.wikipedia.org" {
		return models.NewValidationError("URL must point to en.wikipedia.org")
	}
	if !strings.HasPrefix(u.Path, "/wiki/") || u.Path == "/wiki/" {
		return models.NewValidationError("URL must be a Wikipedia article (/wiki/...)")
	}
	return nil
}

// ImportConflicts fetches the page, parses every wikitable on it and inserts
// conflicts that are not already present (matched by name). The run is
// audited start to finish.
func (w *Wikipedia) ImportConflicts(ctx context.Context, actorID uint, rawURL string) (*Result, error) {
	w.audit.Info(ctx, logTypeAttempt,
		fmt.Sprintf("importing conflicts from %s", rawURL), &actorID)

	if err := ValidateURL(rawURL); err != nil {
		w.audit.Error(ctx, logTypeFailed,
			fmt.Sprintf("import rejected: %v", err), &actorID)
		return nil, err
	}

	rows, err := w.fetchRows(ctx, rawURL)
	if err != nil {
		observability.RecordImport("wikipedia", "failed", 1)
		w.audit.Error(ctx, logTypeFailed,
			fmt.Sprintf("import from %s failed: %v", rawURL, err), &actorID)
		return nil, err
	}

	result := &Result{}
	for _, row := range rows {
		existing, err := w.conflictRepo.GetByName(ctx, row.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		conflict := &models.Conflict{
			Name:            row.Name,
			Region:          row.Region,
			Status:          models.ConflictActive,
			Severity:        models.SeverityMedium,
			StartDate:       row.StartDate,
			Casualties:      row.Casualties,
			InvolvedParties: row.Parties,
			CreatedByID:     &actorID,
		}
		if err := w.conflictRepo.Create(ctx, conflict); err != nil {
			return nil, err
		}
		result.Imported++
		result.Names = append(result.Names, row.Name)
	}

	observability.RecordImport("wikipedia", "imported", result.Imported)
	observability.RecordImport("wikipedia", "skipped", result.Skipped)
	w.audit.Info(ctx, logTypeSuccess,
		fmt.Sprintf("imported %d conflicts from %s (%d already present)",
			result.Imported, rawURL, result.Skipped), &actorID)
	return result, nil
}

type conflictRow struct {
	Name       string
	Region     string
	StartDate  time.Time
	Casualties int
	Parties    string
}

func (w *Wikipedia) fetchRows(ctx context.Context, rawURL string) ([]conflictRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	req.Header.Set("User-Agent", "openeyes-importer/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewValidationError(
			fmt.Sprintf("Wikipedia responded with status %d", resp.StatusCode))
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	rows := parseConflictTables(doc)
	if len(rows) == 0 {
		return nil, models.NewValidationError("No conflict tables found on page")
	}
	return rows, nil
}

// parseConflictTables walks the document and extracts rows from every table
// carrying the "wikitable" class whose header names a conflict column.
func parseConflictTables(doc *html.Node) []conflictRow {
	var rows []conflictRow
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" && hasClass(n, "wikitable") {
			rows = append(rows, parseTable(n)...)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return rows
}

// columnRoles maps header substrings to the row field they feed.
var columnRoles = []struct {
	role     string
	keywords []string
}{
	{"name", []string{"conflict", "war", "name"}},
	{"region", []string{"location", "region", "continent", "country"}},
	{"start", []string{"start", "began", "since", "date"}},
	{"casualties", []string{"fatalities", "casualties", "deaths", "killed"}},
	{"parties", []string{"parties", "belligerents", "combatants"}},
}

func parseTable(table *html.Node) []conflictRow {
	trs := collectElements(table, "tr")
	if len(trs) < 2 {
		return nil
	}

	// Header row decides which column holds what.
	roleByCol := map[int]string{}
	for i, th := range collectElements(trs[0], "th") {
		header := strings.ToLower(nodeText(th))
		for _, cr := range columnRoles {
			for _, kw := range cr.keywords {
				if strings.Contains(header, kw) {
					if _, taken := roleByCol[i]; !taken {
						roleByCol[i] = cr.role
					}
				}
			}
		}
	}

	nameCol := -1
	for col, role := range roleByCol {
		if role == "name" {
			nameCol = col
		}
	}
	if nameCol == -1 {
		return nil
	}

	var rows []conflictRow
	for _, tr := range trs[1:] {
		cells := collectElements(tr, "td")
		if len(cells) <= nameCol {
			continue
		}

		row := conflictRow{Region: "Unknown", StartDate: time.Now().UTC()}
		for col, cell := range cells {
			text := strings.TrimSpace(nodeText(cell))
			switch roleByCol[col] {
			case "name":
				row.Name = text
			case "region":
				if text != "" {
					row.Region = text
				}
			case "start":
				if year := extractYear(text); year > 0 {
					row.StartDate = time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
				}
			case "casualties":
				row.Casualties = extractNumber(text)
			case "parties":
				row.Parties = text
			}
		}
		if row.Name != "" {
			rows = append(rows, row)
		}
	}
	return rows
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func collectElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

// nodeText flattens the visible text of a node, skipping citation markers.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "sup" {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

var yearRe = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)

func extractYear(s string) int {
	m := yearRe.FindString(s)
	if m == "" {
		return 0
	}
	year, _ := strconv.Atoi(m)
	return year
}

var numberRe = regexp.MustCompile(`[\d,]+`)

func extractNumber(s string) int {
	m := numberRe.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0
	}
	return n
}
