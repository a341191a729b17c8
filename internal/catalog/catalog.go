// Package catalog holds the placeholder match results shown once a resume
// upload completes. Nothing here is derived from the uploaded file.
package catalog

type Job struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Type            string   `json:"type"`
	MatchPercentage int      `json:"match_percentage"`
	MatchTier       Tier     `json:"match_tier"`
	PostedDate      string   `json:"posted_date"`
	Logo            string   `json:"logo"`
	Skills          []string `json:"skills"`
}

type Course struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Provider       string   `json:"provider"`
	Duration       string   `json:"duration"`
	Students       string   `json:"students"`
	Level          string   `json:"level"`
	Thumbnail      string   `json:"thumbnail"`
	Skills         []string `json:"skills"`
	Rating         float64  `json:"rating"`
	RelevanceScore int      `json:"relevance_score"`
	RelevanceTier  Tier     `json:"relevance_tier"`
}

type SkillGauge struct {
	Skill      string `json:"skill"`
	Percentage int    `json:"percentage"`
	Color      string `json:"color"`
}

type Results struct {
	Jobs    []Job        `json:"jobs"`
	Courses []Course     `json:"courses"`
	Skills  []SkillGauge `json:"skills"`
}

type Tier string

const (
	TierHigh Tier = "high"
	TierGood Tier = "good"
	TierFair Tier = "fair"
	TierLow  Tier = "low"
)

func MatchTier(percentage int) Tier {
	switch {
	case percentage >= 90:
		return TierHigh
	case percentage >= 75:
		return TierGood
	case percentage >= 60:
		return TierFair
	default:
		return TierLow
	}
}

// RelevanceTier has no low band; anything under 70 is fair.
func RelevanceTier(score int) Tier {
	switch {
	case score >= 90:
		return TierHigh
	case score >= 70:
		return TierGood
	default:
		return TierFair
	}
}

var mockJobs = []Job{
	{
		ID:              "1",
		Title:           "Senior Frontend Developer",
		Company:         "TechCorp Inc.",
		Location:        "San Francisco, CA",
		Type:            "Full-time",
		MatchPercentage: 92,
		PostedDate:      "2 days ago",
		Logo:            "https://via.placeholder.com/150",
		Skills:          []string{"React", "TypeScript", "Tailwind CSS", "GraphQL"},
	},
	{
		ID:              "2",
		Title:           "UX/UI Designer",
		Company:         "DesignMaster",
		Location:        "Remote",
		Type:            "Contract",
		MatchPercentage: 85,
		PostedDate:      "1 week ago",
		Logo:            "https://via.placeholder.com/150",
		Skills:          []string{"Figma", "UI Design", "Wireframing", "Prototyping"},
	},
	{
		ID:              "3",
		Title:           "Data Scientist",
		Company:         "DataViz Analytics",
		Location:        "New York, NY",
		Type:            "Full-time",
		MatchPercentage: 78,
		PostedDate:      "3 days ago",
		Logo:            "https://via.placeholder.com/150",
		Skills:          []string{"Python", "Machine Learning", "SQL", "Data Analysis"},
	},
}

var mockCourses = []Course{
	{
		ID:             "1",
		Title:          "Advanced React Patterns",
		Provider:       "Frontend Masters",
		Duration:       "12 hours",
		Students:       "15.4K",
		Level:          "Advanced",
		Thumbnail:      "https://via.placeholder.com/800x400",
		Skills:         []string{"React", "TypeScript", "State Management", "Performance"},
		Rating:         4.8,
		RelevanceScore: 94,
	},
	{
		ID:             "2",
		Title:          "UI/UX Design Fundamentals",
		Provider:       "DesignLab",
		Duration:       "8 weeks",
		Students:       "32.7K",
		Level:          "Beginner",
		Thumbnail:      "https://via.placeholder.com/800x400",
		Skills:         []string{"UI Design", "User Research", "Prototyping", "Figma"},
		Rating:         4.6,
		RelevanceScore: 88,
	},
	{
		ID:             "3",
		Title:          "Data Science Specialization",
		Provider:       "Coursera",
		Duration:       "6 months",
		Students:       "245K",
		Level:          "Intermediate",
		Thumbnail:      "https://via.placeholder.com/800x400",
		Skills:         []string{"Python", "Statistics", "Machine Learning", "Data Visualization"},
		Rating:         4.7,
		RelevanceScore: 80,
	},
}

var mockSkills = []SkillGauge{
	{Skill: "React", Percentage: 92, Color: "primary"},
	{Skill: "TypeScript", Percentage: 85, Color: "primary"},
	{Skill: "UI/UX Design", Percentage: 78, Color: "blue"},
	{Skill: "Node.js", Percentage: 65, Color: "green"},
	{Skill: "GraphQL", Percentage: 60, Color: "amber"},
	{Skill: "Python", Percentage: 45, Color: "red"},
}

// MockResults returns a fresh copy on every call.
func MockResults() Results {
	out := Results{
		Jobs:    make([]Job, len(mockJobs)),
		Courses: make([]Course, len(mockCourses)),
		Skills:  make([]SkillGauge, len(mockSkills)),
	}
	for i, j := range mockJobs {
		j.Skills = append([]string(nil), j.Skills...)
		j.MatchTier = MatchTier(j.MatchPercentage)
		out.Jobs[i] = j
	}
	for i, c := range mockCourses {
		c.Skills = append([]string(nil), c.Skills...)
		c.RelevanceTier = RelevanceTier(c.RelevanceScore)
		out.Courses[i] = c
	}
	copy(out.Skills, mockSkills)
	return out
}
