package brief

// DailyBrief is one day's content bundle. Date is the natural key.
type DailyBrief struct {
	Title              string             `json:"title"`
	Date               string             `json:"date"`
	Meta               Meta               `json:"meta"`
	ImpactSummary      ImpactSummary      `json:"impact_summary"`
	PrimaryFocus       PrimaryFocus       `json:"primary_focus"`
	Sections           []Section          `json:"sections"`
	RapidUpdates       []RapidUpdate      `json:"rapid_updates"`
	ExamIntelligence   ExamIntelligence   `json:"exam_intelligence"`
	KnowledgeSynthesis KnowledgeSynthesis `json:"knowledge_synthesis"`
	WeeklyAnalysis     *WeeklyAnalysis    `json:"weekly_analysis,omitempty"`
}

// Meta holds generation metadata.
type Meta struct {
	WordCount   int    `json:"word_count"`
	ReadingTime string `json:"reading_time"`
	GeneratedAt string `json:"generated_at"`
}

// ImpactSummary holds the dashboard counters.
type ImpactSummary struct {
	PolicyDevelopments   int `json:"policy_developments"`
	InternationalUpdates int `json:"international_updates"`
	EconomicIndicators   int `json:"economic_indicators"`
	ScientificAdvances   int `json:"scientific_advances"`
}

// Total returns the sum of all counters.
func (s ImpactSummary) Total() int {
	return s.PolicyDevelopments + s.InternationalUpdates + s.EconomicIndicators + s.ScientificAdvances
}

// Article is a single development inside a section. At most one of the
// main-content fields and one of the exam-linkage fields is usually set,
// depending on the nature of the development.
type Article struct {
	Title                  string   `json:"title"`
	Summary                string   `json:"summary"`
	DevelopmentOverview    string   `json:"development_overview,omitempty"`
	GlobalUpdate           string   `json:"global_update,omitempty"`
	EconomicUpdate         string   `json:"economic_update,omitempty"`
	ResearchUpdate         string   `json:"research_update,omitempty"`
	SocialUpdate           string   `json:"social_update,omitempty"`
	PolicySignificance     string   `json:"policy_significance,omitempty"`
	ExamConnection         string   `json:"exam_connection,omitempty"`
	ExamRelevance          string   `json:"exam_relevance,omitempty"`
	ExamIntegration        string   `json:"exam_integration,omitempty"`
	AnalyticalPerspectives string   `json:"analytical_perspectives,omitempty"`
	KeyTerms               []string `json:"key_terms"`
	HistoricalContext      string   `json:"historical_context,omitempty"`
	FutureImplications     string   `json:"future_implications,omitempty"`
	Citations              []string `json:"citations"`
}

// MainContent returns whichever main-content field is populated.
func (a Article) MainContent() string {
	for _, s := range []string{a.DevelopmentOverview, a.GlobalUpdate, a.EconomicUpdate, a.ResearchUpdate, a.SocialUpdate} {
		if s != "" {
			return s
		}
	}
	return ""
}

// ExamLink returns whichever exam-linkage field is populated.
func (a Article) ExamLink() string {
	for _, s := range []string{a.ExamConnection, a.ExamRelevance, a.ExamIntegration} {
		if s != "" {
			return s
		}
	}
	return ""
}

// PrimaryFocus is the lead article of a brief.
type PrimaryFocus struct {
	Article
	Category               string `json:"category"`
	Content                string `json:"content"`
	MultiDimensionalImpact string `json:"multi_dimensional_impact,omitempty"`
}

// Empty reports whether the lead article carries no text to show.
func (p PrimaryFocus) Empty() bool {
	return p.Title == "" && p.Summary == "" && p.Content == "" && p.MainContent() == ""
}

// Section groups articles under a category id.
type Section struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	Articles []Article `json:"articles"`
}

// RapidUpdate is a one-line development.
type RapidUpdate struct {
	Category  string   `json:"category"`
	Content   string   `json:"content"`
	Citations []string `json:"citations"`
}

type ExamIntelligence struct {
	NewConcepts              string `json:"new_concepts"`
	StaticDynamicConnections string `json:"static_dynamic_connections"`
	QuestionProbability      string `json:"question_probability"`
	FactualDatabase          string `json:"factual_database"`
	ComparativeAnalysis      string `json:"comparative_analysis"`
}

func (e ExamIntelligence) Empty() bool { return e == ExamIntelligence{} }

type KnowledgeSynthesis struct {
	CrossSubjectConnections string `json:"cross_subject_connections"`
	HistoricalParallels     string `json:"historical_parallels"`
	PredictiveAnalysis      string `json:"predictive_analysis"`
	DebatePoints            string `json:"debate_points"`
}

func (k KnowledgeSynthesis) Empty() bool { return k == KnowledgeSynthesis{} }

// WeeklyAnalysis is only present on some briefs.
type WeeklyAnalysis struct {
	EmergingTrends     string `json:"emerging_trends"`
	PolicyTrajectory   string `json:"policy_trajectory"`
	EconomicIndicators string `json:"economic_indicators"`
}
