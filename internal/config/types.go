package config

// Config представляет конфигурацию интервью
type Config struct {
	InterviewConfig InterviewConfig  `yaml:"interview_config"`
	Confidence      ConfidenceConfig `yaml:"confidence"`
}

// InterviewConfig содержит общие настройки интервью
type InterviewConfig struct {
	TotalQuestions      int `yaml:"total_questions"`
	BehavioralQuestions int `yaml:"behavioral_questions"`
	CodingQuestions     int `yaml:"coding_questions"`
	DSAProblems         int `yaml:"dsa_problems"`
}

// ConfidenceConfig содержит настройки мониторинга уверенности
type ConfidenceConfig struct {
	SampleIntervalMs int `yaml:"sample_interval_ms"`
	WindowSize       int `yaml:"window_size"`
}

// ProblemSet представляет набор задач для DSA-раунда
type ProblemSet struct {
	Problems []Problem `yaml:"problems"`
}

// Problem представляет одну задачу с примерами и тест-кейсами
type Problem struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Examples    []Example  `yaml:"examples"`
	TestCases   []TestCase `yaml:"test_cases"`
}

// Example показывается кандидату вместе с условием задачи
type Example struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// TestCase используется для проверки решения через внешний judge
type TestCase struct {
	Input    string `yaml:"input"`
	Expected string `yaml:"expected"`
}

// Методы для удобного доступа к конфигурации
func (c *Config) GetTotalQuestions() int {
	return c.InterviewConfig.TotalQuestions
}

func (c *Config) GetBehavioralQuestions() int {
	return c.InterviewConfig.BehavioralQuestions
}

func (c *Config) GetCodingQuestions() int {
	return c.InterviewConfig.CodingQuestions
}

func (c *Config) GetDSAProblems() int {
	return c.InterviewConfig.DSAProblems
}

// TestCasesPerProblem возвращает число тест-кейсов на задачу
// (валидация гарантирует, что оно одинаково для всех задач)
func (p *ProblemSet) TestCasesPerProblem() int {
	if len(p.Problems) == 0 {
		return 0
	}
	return len(p.Problems[0].TestCases)
}
