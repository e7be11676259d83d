package dsa

import (
	"fmt"
	"math"
	"sync"

	"interview-coach/internal/config"
	"interview-coach/internal/judge"

	"github.com/rs/zerolog"
)

// Уровни итоговой оценки DSA-раунда
const (
	LevelExcellent        = "Excellent"
	LevelDecent           = "Decent"
	LevelNeedsImprovement = "Needs Improvement"
)

// ProblemResult представляет итог по одной задаче.
// Пропущенная задача остается в списке с Attempted=false
type ProblemResult struct {
	ProblemTitle string `json:"problemTitle"`
	Attempted    bool   `json:"attempted"`
	Passed       int    `json:"passed"`
}

// Summary представляет сводку DSA-раунда для финального ревью
type Summary struct {
	Total        int             `json:"total"`
	Attempted    int             `json:"attempted"`
	Solved       int             `json:"solved"`
	TotalPassed  int             `json:"totalPassed"`
	MaxTestCases int             `json:"maxTestCases"`
	DSAScore     int             `json:"dsaScore"`
	Level        string          `json:"dsaLevel"`
	Message      string          `json:"dsaMsg"`
	Results      []ProblemResult `json:"dsaResults"`
}

// Runner исполняет решение кандидата на наборе тест-кейсов.
// Реализуется judge-клиентом; в тестах подменяется заглушкой
type Runner interface {
	RunTestCases(sourceCode, language string, testCases []config.TestCase) ([]judge.CaseResult, error)
}

// Round представляет один DSA-раунд: фиксированный список задач,
// проходимых строго по порядку. Результаты только добавляются,
// переигрывать уже закрытую задачу нельзя
type Round struct {
	mu       sync.Mutex
	problems []config.Problem
	runner   Runner
	results  []ProblemResult
	index    int
	log      zerolog.Logger
}

// NewRound создает раунд по набору задач
func NewRound(set *config.ProblemSet, runner Runner, logger zerolog.Logger) *Round {
	return &Round{
		problems: set.Problems,
		runner:   runner,
		results:  make([]ProblemResult, 0, len(set.Problems)),
		log:      logger,
	}
}

// Current возвращает текущую задачу и ее номер (с нуля).
// false — раунд завершен
func (r *Round) Current() (config.Problem, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index >= len(r.problems) {
		return config.Problem{}, 0, false
	}
	return r.problems[r.index], r.index, true
}

// Completed сообщает, что все задачи пройдены
func (r *Round) Completed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index >= len(r.problems)
}

// SubmitCurrent прогоняет решение текущей задачи через judge,
// записывает результат и переходит к следующей задаче.
// Ошибка judge не закрывает задачу: кандидат может повторить
// отправку или пропустить задачу
func (r *Round) SubmitCurrent(sourceCode, language string) ([]judge.CaseResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index >= len(r.problems) {
		return nil, fmt.Errorf("все задачи раунда уже пройдены")
	}

	problem := r.problems[r.index]
	cases, err := r.runner.RunTestCases(sourceCode, language, problem.TestCases)
	if err != nil {
		r.log.Error().Err(err).Str("problem", problem.Title).Msg("ошибка проверки решения")
		return nil, fmt.Errorf("ошибка проверки решения: %w", err)
	}

	passed := 0
	for _, c := range cases {
		if c.Pass {
			passed++
		}
	}

	r.results = append(r.results, ProblemResult{
		ProblemTitle: problem.Title,
		Attempted:    true,
		Passed:       passed,
	})
	r.index++

	r.log.Info().
		Str("problem", problem.Title).
		Int("passed", passed).
		Int("total", len(cases)).
		Msg("решение проверено")

	return cases, nil
}

// SkipCurrent пропускает текущую задачу без попытки
func (r *Round) SkipCurrent() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index >= len(r.problems) {
		return
	}

	problem := r.problems[r.index]
	r.results = append(r.results, ProblemResult{
		ProblemTitle: problem.Title,
		Attempted:    false,
	})
	r.index++

	r.log.Info().Str("problem", problem.Title).Msg("задача пропущена")
}

// Results возвращает копию накопленных результатов
func (r *Round) Results() []ProblemResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ProblemResult, len(r.results))
	copy(out, r.results)
	return out
}

// Summarize строит сводку раунда. casesPerProblem — число тест-кейсов
// на задачу из конфигурации набора; решенной считается задача хотя бы
// с одним пройденным кейсом
func (r *Round) Summarize(casesPerProblem int) Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Summary{
		Total:        len(r.problems),
		MaxTestCases: len(r.problems) * casesPerProblem,
		Results:      make([]ProblemResult, len(r.results)),
	}
	copy(s.Results, r.results)

	for _, res := range r.results {
		if res.Attempted {
			s.Attempted++
		}
		if res.Attempted && res.Passed > 0 {
			s.Solved++
		}
		s.TotalPassed += res.Passed
	}

	if s.MaxTestCases > 0 {
		s.DSAScore = int(math.Round(float64(s.TotalPassed) / float64(s.MaxTestCases) * 100))
	}

	switch {
	case s.DSAScore >= 80:
		s.Level = LevelExcellent
		s.Message = "Great job on coding! You solved most problems."
	case s.DSAScore >= 50:
		s.Level = LevelDecent
		s.Message = "You solved some problems, but can improve coding skills."
	default:
		s.Level = LevelNeedsImprovement
		s.Message = "Needs significant improvement in coding."
	}

	return s
}
