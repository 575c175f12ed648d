// Path: internal/export/export.go
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"arena-scout/internal/domain"
)

// markdownLimit caps the Markdown table to the top results; the format is
// meant for pasting into posts, not as a full export.
const markdownLimit = 50

var csvHeader = []string{
	"rank", "id", "name", "slug", "description",
	"repo_link", "presentation_link", "demo_link",
	"likes", "comments", "tracks", "team_members", "arena_url",
}

// WriteCSV writes the ordered result set as CSV with a fixed header row.
// Ranks follow the slice order; quoting and quote-doubling are handled by
// the csv writer.
func WriteCSV(w io.Writer, projects []domain.Project, arenaBase string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, p := range projects {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(p.ID),
			p.Name,
			p.Slug,
			p.Description,
			p.RepoLink,
			p.PresentationLink,
			p.DemoLink,
			strconv.Itoa(p.Likes),
			strconv.Itoa(p.Comments),
			strings.Join(p.Tracks, ", "),
			joinMembers(p.TeamMembers),
			p.ArenaURL(arenaBase),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonEnvelope struct {
	ExportedAt    string        `json:"exported_at"`
	TotalProjects int           `json:"total_projects"`
	Projects      []jsonProject `json:"projects"`
}

type jsonProject struct {
	Rank int `json:"rank"`
	domain.Project
	TeamSize int    `json:"teamSize"`
	ArenaURL string `json:"arena_url"`
}

// WriteJSON writes the result set inside an envelope carrying the export
// timestamp and total count.
func WriteJSON(w io.Writer, projects []domain.Project, arenaBase string, now time.Time) error {
	env := jsonEnvelope{
		ExportedAt:    now.UTC().Format(time.RFC3339),
		TotalProjects: len(projects),
		Projects:      make([]jsonProject, len(projects)),
	}
	for i, p := range projects {
		env.Projects[i] = jsonProject{
			Rank:     i + 1,
			Project:  p,
			TeamSize: p.TeamSize(),
			ArenaURL: p.ArenaURL(arenaBase),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// WriteMarkdown writes a table of the top results.
func WriteMarkdown(w io.Writer, projects []domain.Project) error {
	if len(projects) > markdownLimit {
		projects = projects[:markdownLimit]
	}
	if _, err := fmt.Fprintln(w, "| Rank | Name | Likes | Comments | Tracks | Country |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "| --- | --- | --- | --- | --- | --- |"); err != nil {
		return err
	}
	for i, p := range projects {
		_, err := fmt.Fprintf(w, "| %d | %s | %d | %d | %s | %s |\n",
			i+1, escapePipes(p.Name), p.Likes, p.Comments,
			escapePipes(strings.Join(p.Tracks, ", ")), escapePipes(p.Country))
		if err != nil {
			return err
		}
	}
	return nil
}

func joinMembers(members []domain.TeamMember) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.DisplayName
		if m.Username != "" {
			names[i] = fmt.Sprintf("%s (@%s)", m.DisplayName, m.Username)
		}
	}
	return strings.Join(names, "; ")
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
