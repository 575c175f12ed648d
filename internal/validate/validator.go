// Path: internal/validate/validator.go
package validate

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"arena-scout/internal/domain"
)

// Length caps applied to upstream strings.
const (
	maxNameLen        = 200
	maxDescriptionLen = 2000
	maxCountryLen     = 100
	maxTrackLen       = 50
	maxMemberFieldLen = 100
	maxTracks         = 10
	maxTeamMembers    = 20
)

// Validate turns one raw upstream record into a trusted Project. It rejects
// only when the record has no positive numeric id or no usable name; every
// other malformed field is replaced with a safe default. The second return
// is false for rejected records.
func Validate(raw map[string]any) (domain.Project, bool) {
	if raw == nil {
		return domain.Project{}, false
	}

	id := toCount(raw["id"])
	name := sanitize(toString(raw["name"]), maxNameLen)
	if id <= 0 || name == "" {
		return domain.Project{}, false
	}

	slug := sanitize(toString(raw["slug"]), maxNameLen)
	if slug == "" {
		slug = slugify(name)
	}

	p := domain.Project{
		ID:               id,
		Slug:             slug,
		Name:             name,
		Description:      sanitize(toString(raw["description"]), maxDescriptionLen),
		Country:          sanitize(toString(raw["country"]), maxCountryLen),
		Tracks:           toTracks(raw["tracks"]),
		TeamMembers:      toTeamMembers(raw["teamMembers"]),
		Likes:            toCount(raw["likes"]),
		Comments:         toCount(raw["comments"]),
		RepoLink:         toLink(raw["repoLink"]),
		PresentationLink: toLink(raw["presentationLink"]),
		DemoLink:         toLink(raw["demoLink"]),
		SubmittedAt:      toTime(raw["submittedAt"]),
	}
	return p, true
}

// ValidateAll validates a batch, dropping invalid records. It returns the
// surviving projects and the number dropped. It never fails as a whole:
// a batch of garbage yields an empty slice.
func ValidateAll(raw []map[string]any) ([]domain.Project, int) {
	projects := make([]domain.Project, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		p, ok := Validate(r)
		if !ok {
			dropped++
			continue
		}
		projects = append(projects, p)
	}
	return projects, dropped
}

// sanitize strips control characters and angle brackets, removes script
// scheme prefixes, and caps the length. Applied to every textual field.
func sanitize(s string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7f || r == '<' || r == '>' {
			continue
		}
		b.WriteRune(r)
	}
	s = strings.TrimSpace(b.String())

	// Repeat until no prefix matches: stacked prefixes like
	// "javascript:javascript:" must not survive a single pass.
	for stripped := true; stripped; {
		stripped = false
		lower := strings.ToLower(s)
		for _, prefix := range []string{"javascript:", "data:"} {
			if strings.HasPrefix(lower, prefix) {
				s = strings.TrimSpace(s[len(prefix):])
				stripped = true
				break
			}
		}
	}

	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// toCount coerces a dynamic value into a non-negative int. JSON numbers
// decode as float64; some upstream fields arrive as numeric strings.
func toCount(v any) int {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0
		}
		return int(n)
	case int:
		if n < 0 {
			return 0
		}
		return n
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil || parsed < 0 {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

// toLink keeps only URLs that parse with an http(s) scheme and a host.
func toLink(v any) string {
	s := strings.TrimSpace(toString(v))
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return s
}

func toTime(v any) time.Time {
	if s, ok := v.(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	// Unparsable dates become "now" rather than failing the record.
	return time.Now().UTC()
}

func toTracks(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	tracks := make([]string, 0, len(items))
	for _, item := range items {
		t := sanitize(toString(item), maxTrackLen)
		if t == "" {
			continue
		}
		tracks = append(tracks, t)
		if len(tracks) == maxTracks {
			break
		}
	}
	return tracks
}

func toTeamMembers(v any) []domain.TeamMember {
	items, ok := v.([]any)
	if !ok {
		return []domain.TeamMember{}
	}
	members := make([]domain.TeamMember, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		member := domain.TeamMember{
			ID:          toCount(m["id"]),
			DisplayName: sanitize(toString(m["displayName"]), maxMemberFieldLen),
			Username:    sanitize(toString(m["username"]), maxMemberFieldLen),
		}
		if member.DisplayName == "" && member.Username == "" {
			continue
		}
		members = append(members, member)
		if len(members) == maxTeamMembers {
			break
		}
	}
	return members
}
