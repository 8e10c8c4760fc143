package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/phrazzld/oceaninsight/internal/domain"
	"github.com/phrazzld/oceaninsight/internal/memory"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q: want table, json or yaml", format)
	}
}

// entryView is the printed form of an entry.
type entryView struct {
	ID           string   `json:"id"                    yaml:"id"`
	Title        string   `json:"title"                 yaml:"title"`
	Content      string   `json:"content"               yaml:"content"`
	Tags         []string `json:"tags"                  yaml:"tags"`
	Category     string   `json:"category"              yaml:"category"`
	Status       string   `json:"status"                yaml:"status"`
	DateCreated  string   `json:"dateCreated"           yaml:"dateCreated"`
	LastModified string   `json:"lastModified"          yaml:"lastModified"`
	Connections  []string `json:"connections,omitempty" yaml:"connections,omitempty"`
}

type statsView struct {
	Total      int            `json:"total"      yaml:"total"`
	ByCategory map[string]int `json:"byCategory" yaml:"byCategory"`
	ByStatus   map[string]int `json:"byStatus"   yaml:"byStatus"`
}

func toView(e *domain.MemoryEntry) entryView {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return entryView{
		ID:           e.ID.String(),
		Title:        e.Title,
		Content:      e.Content,
		Tags:         tags,
		Category:     string(e.Category),
		Status:       string(e.Status),
		DateCreated:  memory.FormatTime(e.DateCreated),
		LastModified: memory.FormatTime(e.LastModified),
		Connections:  e.Connections,
	}
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func printEntries(w io.Writer, format string, entries []*domain.MemoryEntry) error {
	if format != outputTable {
		views := make([]entryView, 0, len(entries))
		for _, e := range entries {
			views = append(views, toView(e))
		}
		return encode(w, format, views)
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No entries.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tSTATUS\tTAGS\tMODIFIED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, truncate(e.Title, 40), e.Category, e.Status,
			strings.Join(e.Tags, ","), e.LastModified.UTC().Format(time.DateTime))
	}
	return tw.Flush()
}

func printEntry(w io.Writer, format string, e *domain.MemoryEntry) error {
	if format != outputTable {
		return encode(w, format, toView(e))
	}

	v := toView(e)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", v.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", v.Title)
	fmt.Fprintf(tw, "Category:\t%s\n", v.Category)
	fmt.Fprintf(tw, "Status:\t%s\n", v.Status)
	fmt.Fprintf(tw, "Tags:\t%s\n", strings.Join(v.Tags, ", "))
	fmt.Fprintf(tw, "Created:\t%s\n", v.DateCreated)
	fmt.Fprintf(tw, "Modified:\t%s\n", v.LastModified)
	if len(v.Connections) > 0 {
		fmt.Fprintf(tw, "Connections:\t%s\n", strings.Join(v.Connections, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", v.Content)
	return err
}

func printStats(w io.Writer, format string, st memory.Stats) error {
	v := statsView{
		Total:      st.Total,
		ByCategory: make(map[string]int, len(st.ByCategory)),
		ByStatus:   make(map[string]int, len(st.ByStatus)),
	}
	for c, n := range st.ByCategory {
		v.ByCategory[string(c)] = n
	}
	for s, n := range st.ByStatus {
		v.ByStatus[string(s)] = n
	}
	if format != outputTable {
		return encode(w, format, v)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total:\t%d\n", v.Total)
	for _, c := range domain.Categories {
		fmt.Fprintf(tw, "  %s\t%d\n", c, v.ByCategory[string(c)])
	}
	for _, s := range domain.Statuses {
		fmt.Fprintf(tw, "  %s\t%d\n", s, v.ByStatus[string(s)])
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
