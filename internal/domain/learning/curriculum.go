package learning

// Level is the education level a learning path targets.
type Level string

const (
	LevelElementary   Level = "Elementary/Primary Level"
	LevelMiddleSchool Level = "Middle School Level"
	LevelHighSchool   Level = "High School Level"
	LevelUndergrad    Level = "Undergraduate/Tertiary Level"
	LevelPostgrad     Level = "Postgraduate Level"
	LevelProfessional Level = "Professional/Continuing Education"
)

var Levels = []Level{
	LevelElementary,
	LevelMiddleSchool,
	LevelHighSchool,
	LevelUndergrad,
	LevelPostgrad,
	LevelProfessional,
}

func (l Level) Valid() bool {
	for _, v := range Levels {
		if v == l {
			return true
		}
	}
	return false
}

type Pace string

const (
	PaceSelfPaced Pace = "self-paced"
	PaceIntensive Pace = "intensive"
	PaceCasual    Pace = "casual"
)

func (p Pace) Valid() bool {
	return p == PaceSelfPaced || p == PaceIntensive || p == PaceCasual
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

type ResourceType string

const (
	ResourceVideo    ResourceType = "video"
	ResourcePlaylist ResourceType = "playlist"
	ResourceArticle  ResourceType = "article"
)

// Curriculum is the generated course. JSON names follow the shape the model
// is asked to emit, so a parsed response and a stored course look the same.
type Curriculum struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Duration       string         `json:"duration,omitempty"`
	EstimatedHours int            `json:"estimatedHours,omitempty"`
	Modules        []Module       `json:"modules"`
	Projects       []Project      `json:"projects"`
	Milestones     []Milestone    `json:"milestones"`
	ResourceNeeds  *ResourceNeeds `json:"resourceNeeds,omitempty"`
	Resources      []Resource     `json:"resources"`
	ResourceCount  ResourceCount  `json:"resourceCount"`
}

type Module struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Objectives []string `json:"objectives"`
	Duration   string   `json:"duration,omitempty"`
	Topics     []string `json:"topics"`
}

type Project struct {
	ID             int        `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Skills         []string   `json:"skills"`
	Difficulty     Difficulty `json:"difficulty,omitempty"`
	EstimatedHours int        `json:"estimatedHours,omitempty"`
}

// Milestone.ModuleIDs may name modules that do not exist; nothing enforces it.
type Milestone struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ModuleIDs   []int  `json:"moduleIds"`
}

type ResourceNeeds struct {
	VideoTopics   []string `json:"videoTopics"`
	ArticleTopics []string `json:"articleTopics"`
	PracticeAreas []string `json:"practiceAreas"`
}

// Resource is a video, playlist or article. Fields that do not apply to a
// type stay empty.
type Resource struct {
	Type        ResourceType `json:"type"`
	Title       string       `json:"title"`
	URL         string       `json:"url"`
	Description string       `json:"description"`

	Thumbnail    string `json:"thumbnail,omitempty"`
	ChannelTitle string `json:"channelTitle,omitempty"`
	VideoID      string `json:"videoId,omitempty"`
	PlaylistID   string `json:"playlistId,omitempty"`

	Source   string `json:"source,omitempty"`
	Priority int    `json:"priority,omitempty"`

	PublishedAt string `json:"publishedAt,omitempty"`
}

type ResourceCount struct {
	Videos   int `json:"videos"`
	Articles int `json:"articles"`
	Total    int `json:"total"`
}

// CountResources tallies videos (playlists included) and articles.
func CountResources(videos, articles []Resource) ResourceCount {
	return ResourceCount{
		Videos:   len(videos),
		Articles: len(articles),
		Total:    len(videos) + len(articles),
	}
}
