package app_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"webinar-portal/internal/app"
	"webinar-portal/internal/domain"
)

func TestExportIgnoresFilterAndPage(t *testing.T) {
	listing := app.NewAdminListing(twoParticipants())
	listing.Search("ravi")
	listing.Page(1, 1)

	var buf bytes.Buffer
	if err := listing.ExportCSV(&buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "ID,Full Name,Gender,Email,Phone,School,City,Grades,Subjects,Quiz Passed,Cert Downloaded,Reg Date" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	want := `2,"Ravi ""RK"" Kumar","Male","ravi@example.com","9123456780","Model School","Jaipur","9-10","Mathematics",Yes,No,"2025-03-02 08:30:00"`
	if lines[1] != want {
		t.Fatalf("unexpected row\n got: %s\nwant: %s", lines[1], want)
	}
}

func TestSearchAndPaging(t *testing.T) {
	records := twoParticipants()
	for i := 0; i < 11; i++ {
		p := records[1]
		p.ID = string(rune('a' + i))
		records = append(records, p)
	}
	listing := app.NewAdminListing(records)

	page := listing.Page(5, 3)
	if page.Number != 3 || page.TotalPages != 3 || len(page.Items) != 3 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page = listing.Page(5, 99); page.Number != 3 {
		t.Fatalf("expected page clamped to 3, got %d", page.Number)
	}

	matched := listing.Search("JAIPUR")
	if len(matched) != 1 || listing.Current().Number != 1 {
		t.Fatalf("expected 1 match on page 1, got %d on %d", len(matched), listing.Current().Number)
	}
	if listing.Search("9123456780"); len(listing.Filtered()) != 1 {
		t.Fatalf("expected phone search to match")
	}
	if listing.Search("nobody"); listing.Current().TotalItems != 0 || listing.Current().TotalPages != 1 {
		t.Fatalf("expected empty single page, got %+v", listing.Current())
	}
	if listing.Search(""); len(listing.Filtered()) != 13 {
		t.Fatalf("expected all records for empty term")
	}
	if listing.Len() != 13 {
		t.Fatalf("expected 13 records, got %d", listing.Len())
	}
}

func TestExportFileName(t *testing.T) {
	got := app.ExportFileName(time.Date(2025, 7, 4, 23, 0, 0, 0, time.UTC))
	if got != "participants_data_2025-07-04.csv" {
		t.Fatalf("unexpected file name %s", got)
	}
}

func twoParticipants() []domain.Participant {
	return []domain.Participant{
		{
			ID: "2",
			Profile: domain.Profile{
				FullName: `Ravi "RK" Kumar`, Gender: "Male", Email: "ravi@example.com", Phone: "9123456780",
				SchoolName: "Model School", City: "Jaipur", GradesHandled: "9-10", SubjectsHandled: "Mathematics",
			},
			QuizPassed:   true,
			RegisteredAt: time.Date(2025, 3, 2, 8, 30, 0, 0, time.UTC),
		},
		{
			ID:           "1",
			Profile:      validProfile(),
			RegisteredAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}
