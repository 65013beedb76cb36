package coursegen

import (
	"fmt"
	"strings"

	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/domain/learning"
)

// Request is what a learner asked for.
type Request struct {
	Topic string      `json:"topic"`
	Level types.Level `json:"level"`
	Pace  types.Pace  `json:"pace"`
	Goals []string    `json:"goals"`
}

var paceHints = map[types.Pace]string{
	learning.PaceSelfPaced: "4-8 weeks with flexible scheduling",
	learning.PaceIntensive: "2-4 weeks with daily practice",
	learning.PaceCasual:    "8-12 weeks with light weekly commitment",
}

// PaceHint describes the expected time frame for pace, "4-8 weeks" when unknown.
func PaceHint(pace types.Pace) string {
	if h, ok := paceHints[pace]; ok {
		return h
	}
	return "4-8 weeks"
}

const promptTemplate = `You are an expert educational curriculum designer specializing in project-based learning. Create a comprehensive learning path for the following:

Topic: %s
Educational Level: %s
Learning Pace: %s (%s)
Learning Goals: %s

Create a project-based learning curriculum with the following structure:

1. COURSE OVERVIEW
   - Brief description (2-3 sentences)
   - Key outcomes students will achieve
   - Total estimated time commitment

2. MODULES (Create 4-6 modules)
   For each module, provide:
   - Module title
   - Learning objectives (3-4 specific objectives)
   - Duration estimate
   - Key concepts covered

3. PROJECTS (Create 3-5 hands-on projects)
   For each project, provide:
   - Project title
   - Description (what students will build)
   - Skills practiced
   - Difficulty level (Beginner/Intermediate/Advanced)
   - Estimated time to complete

4. MILESTONES
   - Define 4-6 key checkpoints
   - Each milestone should mark significant progress

5. LEARNING RESOURCES NEEDED
   - List types of resources (videos, articles, documentation)
   - Specify what topics need video tutorials
   - Specify what topics need written guides

Format your response as valid JSON with this structure:
{
  "title": "Course Title",
  "description": "Course description",
  "duration": "X weeks",
  "estimatedHours": number,
  "modules": [
    {
      "id": number,
      "title": "Module title",
      "objectives": ["objective1", "objective2"],
      "duration": "X hours",
      "topics": ["topic1", "topic2"]
    }
  ],
  "projects": [
    {
      "id": number,
      "title": "Project title",
      "description": "What students will build",
      "skills": ["skill1", "skill2"],
      "difficulty": "Beginner|Intermediate|Advanced",
      "estimatedHours": number
    }
  ],
  "milestones": [
    {
      "id": number,
      "title": "Milestone title",
      "description": "What students should achieve",
      "moduleIds": [1, 2]
    }
  ],
  "resourceNeeds": {
    "videoTopics": ["topic1", "topic2"],
    "articleTopics": ["topic1", "topic2"],
    "practiceAreas": ["area1", "area2"]
  }
}

IMPORTANT: Return ONLY the JSON object, no additional text or markdown formatting.`

// BuildPrompt renders the curriculum request. Output depends only on req.
func BuildPrompt(req Request) string {
	return fmt.Sprintf(promptTemplate,
		req.Topic,
		req.Level,
		req.Pace,
		PaceHint(req.Pace),
		strings.Join(req.Goals, ", "),
	)
}
