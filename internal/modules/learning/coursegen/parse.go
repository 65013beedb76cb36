package coursegen

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/domain/learning"
)

const (
	skeletonTitle       = "Learning Path"
	skeletonDescription = "Custom learning path"
	maxSnippet          = 200
)

// Skeleton is the curriculum used when model output cannot be decoded.
func Skeleton() types.Curriculum {
	return types.Curriculum{
		Title:       skeletonTitle,
		Description: skeletonDescription,
		Modules:     []learning.Module{},
		Projects:    []learning.Project{},
		Milestones:  []learning.Milestone{},
		ResourceNeeds: &learning.ResourceNeeds{
			VideoTopics:   []string{},
			ArticleTopics: []string{},
			PracticeAreas: []string{},
		},
		Resources: []types.Resource{},
	}
}

// ParseCurriculum never fails: undecodable input yields Skeleton().
func ParseCurriculum(raw string) types.Curriculum {
	c, err := DecodeCurriculum(raw)
	if err != nil {
		return Skeleton()
	}
	return c
}

// DecodeCurriculum strips an optional code fence, decodes the JSON object and
// coerces it into a Curriculum. Fields of the wrong shape are dropped and
// invalid or duplicate ids are renumbered. Only a non-object payload is an
// error.
func DecodeCurriculum(raw string) (types.Curriculum, error) {
	cleaned := StripFence(raw)
	var top any
	if err := json.Unmarshal([]byte(cleaned), &top); err != nil {
		return types.Curriculum{}, &ParseError{Snippet: snippet(cleaned), Err: err}
	}
	obj, ok := top.(map[string]any)
	if !ok {
		return types.Curriculum{}, &ParseError{Snippet: snippet(cleaned), Err: errors.New("top-level value is not an object")}
	}

	c := types.Curriculum{
		Title:          asString(obj["title"]),
		Description:    asString(obj["description"]),
		Duration:       asString(obj["duration"]),
		EstimatedHours: asInt(obj["estimatedHours"]),
		Modules:        coerceModules(obj["modules"]),
		Projects:       coerceProjects(obj["projects"]),
		Milestones:     coerceMilestones(obj["milestones"]),
		ResourceNeeds:  coerceNeeds(obj["resourceNeeds"]),
		Resources:      []types.Resource{},
	}
	if strings.TrimSpace(c.Title) == "" {
		c.Title = skeletonTitle
	}
	return c, nil
}

// StripFence removes a surrounding ``` fence, with or without a language tag.
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = s[3:]
	i := 0
	for i < len(s) && isTagByte(s[i]) {
		i++
	}
	s = strings.TrimSpace(s[i:])
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isTagByte(c byte) bool {
	return c == '_' || c == '-' || c == '+' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func snippet(s string) string {
	if len(s) <= maxSnippet {
		return s
	}
	return s[:maxSnippet] + "..."
}

func coerceModules(v any) []learning.Module {
	items := asObjects(v)
	out := make([]learning.Module, 0, len(items))
	for _, m := range items {
		out = append(out, learning.Module{
			ID:         asInt(m["id"]),
			Title:      asString(m["title"]),
			Objectives: asStrings(m["objectives"]),
			Duration:   asString(m["duration"]),
			Topics:     asStrings(m["topics"]),
		})
	}
	renumber(len(out), func(i int) *int { return &out[i].ID })
	return out
}

func coerceProjects(v any) []learning.Project {
	items := asObjects(v)
	out := make([]learning.Project, 0, len(items))
	for _, p := range items {
		out = append(out, learning.Project{
			ID:             asInt(p["id"]),
			Title:          asString(p["title"]),
			Description:    asString(p["description"]),
			Skills:         asStrings(p["skills"]),
			Difficulty:     asDifficulty(p["difficulty"]),
			EstimatedHours: asInt(p["estimatedHours"]),
		})
	}
	renumber(len(out), func(i int) *int { return &out[i].ID })
	return out
}

func coerceMilestones(v any) []learning.Milestone {
	items := asObjects(v)
	out := make([]learning.Milestone, 0, len(items))
	for _, m := range items {
		out = append(out, learning.Milestone{
			ID:          asInt(m["id"]),
			Title:       asString(m["title"]),
			Description: asString(m["description"]),
			ModuleIDs:   asPositiveInts(m["moduleIds"]),
		})
	}
	renumber(len(out), func(i int) *int { return &out[i].ID })
	return out
}

func coerceNeeds(v any) *learning.ResourceNeeds {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return &learning.ResourceNeeds{
		VideoTopics:   asStrings(m["videoTopics"]),
		ArticleTopics: asStrings(m["articleTopics"]),
		PracticeAreas: asStrings(m["practiceAreas"]),
	}
}

// renumber assigns 1..n when any id is non-positive or repeated.
func renumber(n int, id func(i int) *int) {
	seen := make(map[int]bool, n)
	ok := true
	for i := 0; i < n; i++ {
		v := *id(i)
		if v <= 0 || seen[v] {
			ok = false
			break
		}
		seen[v] = true
	}
	if ok {
		return
	}
	for i := 0; i < n; i++ {
		*id(i) = i + 1
	}
}

func asObjects(v any) []map[string]any {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asStrings(v any) []string {
	out := []string{}
	arr, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range arr {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func asInt(v any) int {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t > math.MaxInt32 || t < math.MinInt32 {
			return 0
		}
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return asInt(f)
		}
	}
	return 0
}

func asPositiveInts(v any) []int {
	out := []int{}
	arr, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range arr {
		if n := asInt(item); n > 0 {
			out = append(out, n)
		}
	}
	return out
}

func asDifficulty(v any) learning.Difficulty {
	s := strings.TrimSpace(asString(v))
	for _, d := range []learning.Difficulty{
		learning.DifficultyBeginner,
		learning.DifficultyIntermediate,
		learning.DifficultyAdvanced,
	} {
		if strings.EqualFold(s, string(d)) {
			return d
		}
	}
	return ""
}
