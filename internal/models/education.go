package models

// Lesson is an entry of the security education catalog
type Lesson struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	Duration    string `json:"duration,omitempty"`
	Completed   bool   `json:"completed"`
}

// LessonsResponse is the body of GET /api/education/lessons
type LessonsResponse struct {
	Lessons []Lesson `json:"lessons"`
}

// SampleCode maps a language to a vulnerable sample used to pre-populate the editor
type SampleCode map[Language]string

// For returns the sample for lang, falling back to the python sample
func (s SampleCode) For(lang Language) (string, bool) {
	if code, ok := s[lang]; ok {
		return code, true
	}
	code, ok := s[LanguagePython]
	return code, ok
}

// LearnerProgress is the per-session progress shown on the education view
type LearnerProgress struct {
	LessonsCompleted int      `json:"lessons_completed" mapstructure:"lessons_completed"`
	TotalLessons     int      `json:"total_lessons" mapstructure:"total_lessons"`
	SecurityScore    int      `json:"security_score" mapstructure:"security_score"`
	Rank             string   `json:"rank" mapstructure:"rank"`
	Achievements     []string `json:"achievements" mapstructure:"achievements"`
}

// CompletionPercent returns completed/total as a rounded percentage
func (p LearnerProgress) CompletionPercent() int {
	if p.TotalLessons <= 0 {
		return 0
	}
	return p.LessonsCompleted * 100 / p.TotalLessons
}
