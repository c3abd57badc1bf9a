package app

import (
	"bufio"
	"io"
	"strings"
	"time"

	"webinar-portal/internal/domain"
)

// DefaultPageSize is the admin table page size when none is requested.
const DefaultPageSize = 10

// ExportColumns is the fixed CSV header order.
var ExportColumns = []string{
	"ID", "Full Name", "Gender", "Email", "Phone", "School", "City",
	"Grades", "Subjects", "Quiz Passed", "Cert Downloaded", "Reg Date",
}

const exportDateLayout = "2006-01-02 15:04:05"

// Page is one slice of the filtered participant view.
type Page struct {
	Items      []domain.Participant `json:"items"`
	Number     int                  `json:"number"`
	Size       int                  `json:"size"`
	TotalItems int                  `json:"totalItems"`
	TotalPages int                  `json:"totalPages"`
}

// AdminListing is a read-only view over every stored participant.
type AdminListing struct {
	all      []domain.Participant
	term     string
	filtered []domain.Participant
	page     int
	pageSize int
}

// NewAdminListing wraps records as returned by the store (newest first).
func NewAdminListing(records []domain.Participant) *AdminListing {
	l := &AdminListing{
		all:      append([]domain.Participant(nil), records...),
		page:     1,
		pageSize: DefaultPageSize,
	}
	l.filtered = l.all
	return l
}

// Len is the size of the unfiltered set.
func (l *AdminListing) Len() int {
	return len(l.all)
}

func (l *AdminListing) Term() string {
	return l.term
}

// Search filters by case-insensitive substring over name, email, school, phone and city.
// Changing the term resets the page to 1.
func (l *AdminListing) Search(term string) []domain.Participant {
	term = strings.TrimSpace(term)
	if term != l.term {
		l.page = 1
	}
	l.term = term
	if term == "" {
		l.filtered = l.all
		return l.filtered
	}
	needle := strings.ToLower(term)
	out := make([]domain.Participant, 0, len(l.all))
	for _, p := range l.all {
		if matches(p, needle) {
			out = append(out, p)
		}
	}
	l.filtered = out
	return out
}

func matches(p domain.Participant, needle string) bool {
	for _, v := range []string{p.FullName, p.Email, p.SchoolName, p.Phone, p.City} {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// Filtered is the current search result.
func (l *AdminListing) Filtered() []domain.Participant {
	return l.filtered
}

// Page returns page number of the filtered view. Sizes below 1 use DefaultPageSize
// and the number is clamped to the available pages.
func (l *AdminListing) Page(size, number int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	total := len(l.filtered)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}
	l.page, l.pageSize = number, size

	start := (number - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	items := []domain.Participant{}
	if start < total {
		items = append(items, l.filtered[start:end]...)
	}
	return Page{Items: items, Number: number, Size: size, TotalItems: total, TotalPages: pages}
}

// Current returns the page last requested, recomputed against the current filter.
func (l *AdminListing) Current() Page {
	return l.Page(l.pageSize, l.page)
}

// ExportFileName names the CSV download for day.
func ExportFileName(day time.Time) string {
	return "participants_data_" + day.Format("2006-01-02") + ".csv"
}

// ExportCSV writes the entire unfiltered set, ignoring the search term and page.
func (l *AdminListing) ExportCSV(w io.Writer) error {
	return WriteParticipantsCSV(w, l.all)
}

// WriteParticipantsCSV writes records with a header row. String fields are always
// double-quoted; flags are rendered as Yes/No.
func WriteParticipantsCSV(w io.Writer, records []domain.Participant) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(ExportColumns, ",") + "\n"); err != nil {
		return err
	}
	for _, p := range records {
		row := []string{
			p.ID,
			quote(p.FullName),
			quote(p.Gender),
			quote(p.Email),
			quote(p.Phone),
			quote(p.SchoolName),
			quote(p.City),
			quote(p.GradesHandled),
			quote(p.SubjectsHandled),
			yesNo(p.QuizPassed),
			yesNo(p.CertificateDownloaded),
			quote(p.RegisteredAt.Format(exportDateLayout)),
		}
		if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
