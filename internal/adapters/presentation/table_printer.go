package presentation

import (
	"fmt"
	"io"
	"landmark-service/internal/core/domain"
	"strings"
	"text/tabwriter"
)

// TablePrinter renders landmarks as aligned text columns.
type TablePrinter struct {
	out io.Writer
}

func NewTablePrinter(out io.Writer) *TablePrinter {
	return &TablePrinter{out: out}
}

func (p *TablePrinter) newWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
}

// PrintLandmarks writes one row per landmark followed by the paging footer.
func (p *TablePrinter) PrintLandmarks(items []domain.Landmark, state domain.PageState) error {
	w := p.newWriter()
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tSIZE\tLIKES\tPLACE")
	for _, l := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			l.ID, l.Name, orDash(l.Type), orDash(string(l.Size)), l.LikesCount(), orDash(l.Place))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	footer := fmt.Sprintf("%d landmark(s)", len(items))
	if state.HasMore {
		if c := state.Cursor(); c != nil {
			footer += ", more available after " + c.Encode()
		} else {
			footer += ", more available"
		}
	}
	_, err := fmt.Fprintln(p.out, footer)
	return err
}

// PrintHome writes the small and large sections of the home view.
func (p *TablePrinter) PrintHome(home *domain.HomeLandmarks) error {
	sections := []struct {
		title string
		items []domain.Landmark
	}{
		{"Small landmarks", home.Small},
		{"Large landmarks", home.Large},
	}
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(p.out)
		}
		fmt.Fprintln(p.out, s.title)
		if len(s.items) == 0 {
			fmt.Fprintln(p.out, "  (none)")
			continue
		}
		w := p.newWriter()
		for _, l := range s.items {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%d likes\n", l.ID, l.Name, orDash(l.Type), l.LikesCount())
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// PrintLandmark writes every field of a single landmark.
func (p *TablePrinter) PrintLandmark(l *domain.Landmark) error {
	w := p.newWriter()
	fmt.Fprintf(w, "ID:\t%s\n", l.ID)
	fmt.Fprintf(w, "Name:\t%s\n", l.Name)
	fmt.Fprintf(w, "Type:\t%s\n", orDash(l.Type))
	fmt.Fprintf(w, "Size:\t%s\n", orDash(string(l.Size)))
	fmt.Fprintf(w, "Place:\t%s\n", orDash(l.Place))
	fmt.Fprintf(w, "Address:\t%s\n", orDash(l.Address))
	fmt.Fprintf(w, "Location:\t%.6f, %.6f\n", l.Geolocation.Lat, l.Geolocation.Lng)
	fmt.Fprintf(w, "Likes:\t%d\n", l.LikesCount())
	fmt.Fprintf(w, "Images:\t%s\n", orDash(strings.Join(l.ImgURLs, ", ")))
	fmt.Fprintf(w, "Created:\t%s\n", l.CreatedAt.Format("2006-01-02 15:04"))
	if l.Description != "" {
		fmt.Fprintf(w, "Description:\t%s\n", l.Description)
	}
	return w.Flush()
}

// PrintTypes lists the type labels seen so far, used to build the type filter.
func (p *TablePrinter) PrintTypes(types []string) error {
	if len(types) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(p.out, "Types: %s\n", strings.Join(types, ", "))
	return err
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
