package coursegen

import (
	"context"

	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/domain/learning"
)

// TemplateDuration and TemplateHours derive the course length from pace.
func TemplateDuration(pace types.Pace) string {
	switch pace {
	case learning.PaceIntensive:
		return "2-4 weeks"
	case learning.PaceCasual:
		return "8-12 weeks"
	default:
		return "4-8 weeks"
	}
}

func TemplateHours(pace types.Pace) int {
	switch pace {
	case learning.PaceIntensive:
		return 40
	case learning.PaceCasual:
		return 20
	default:
		return 30
	}
}

// Template builds the fixed three-module curriculum and enriches it the same
// way the AI path does. No LLM is involved.
func (g *Generator) Template(ctx context.Context, req Request) types.Curriculum {
	return g.Enrich(ctx, templateCurriculum(req), req.Topic, req.Level)
}

func templateCurriculum(req Request) types.Curriculum {
	topic := req.Topic
	goals := append([]string{}, req.Goals...)
	firstTwo := goals
	if len(firstTwo) > 2 {
		firstTwo = firstTwo[:2]
	}

	return types.Curriculum{
		Title:          topic + " - Project-Based Learning Path",
		Description:    "A comprehensive " + string(req.Level) + " course on " + topic + " focusing on hands-on project development.",
		Duration:       TemplateDuration(req.Pace),
		EstimatedHours: TemplateHours(req.Pace),
		Modules: []learning.Module{
			{
				ID:         1,
				Title:      "Introduction to " + topic,
				Objectives: append([]string{"Understand core concepts of " + topic}, firstTwo...),
				Duration:   "4-6 hours",
				Topics:     []string{"Fundamentals", "Basic concepts", "Environment setup"},
			},
			{
				ID:         2,
				Title:      "Practical Application",
				Objectives: []string{"Build real-world projects", "Apply learned concepts"},
				Duration:   "8-12 hours",
				Topics:     []string{"Hands-on practice", "Project development"},
			},
			{
				ID:         3,
				Title:      "Advanced Topics",
				Objectives: []string{"Master advanced concepts", "Optimize solutions"},
				Duration:   "6-8 hours",
				Topics:     []string{"Advanced techniques", "Best practices"},
			},
		},
		Projects: []learning.Project{
			{
				ID:             1,
				Title:          topic + " Starter Project",
				Description:    "Build a foundational project using " + topic,
				Skills:         append([]string{}, firstTwo...),
				Difficulty:     learning.DifficultyBeginner,
				EstimatedHours: 4,
			},
			{
				ID:             2,
				Title:          "Intermediate " + topic + " Application",
				Description:    "Create a practical application incorporating multiple concepts",
				Skills:         goals,
				Difficulty:     learning.DifficultyIntermediate,
				EstimatedHours: 8,
			},
		},
		Milestones: []learning.Milestone{
			{
				ID:          1,
				Title:       "Foundation Complete",
				Description: "Completed basic concepts and first project",
				ModuleIDs:   []int{1},
			},
			{
				ID:          2,
				Title:       "Practical Skills Acquired",
				Description: "Built multiple projects and gained hands-on experience",
				ModuleIDs:   []int{2, 3},
			},
		},
		ResourceNeeds: &learning.ResourceNeeds{
			VideoTopics:   []string{topic, topic + " tutorial", topic + " projects"},
			ArticleTopics: []string{topic, topic + " guide", topic + " best practices"},
			PracticeAreas: goals,
		},
		Resources: []types.Resource{},
	}
}
