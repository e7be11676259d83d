package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validConfig = `
interview_config:
  total_questions: 10
  behavioral_questions: 5
  coding_questions: 5
  dsa_problems: 5
confidence:
  sample_interval_ms: 333
  window_size: 30
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeFile(t, validConfig))
	require.NoError(t, err)

	require.Equal(t, 10, cfg.GetTotalQuestions())
	require.Equal(t, 5, cfg.GetBehavioralQuestions())
	require.Equal(t, 5, cfg.GetCodingQuestions())
	require.Equal(t, 5, cfg.GetDSAProblems())
	require.Equal(t, 333, cfg.Confidence.SampleIntervalMs)
	require.Equal(t, 30, cfg.Confidence.WindowSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadQuestionSplitMismatch(t *testing.T) {
	bad := `
interview_config:
  total_questions: 10
  behavioral_questions: 5
  coding_questions: 4
  dsa_problems: 5
confidence:
  sample_interval_ms: 333
  window_size: 30
`
	_, err := Load(writeFile(t, bad))
	require.Error(t, err)
	require.Contains(t, err.Error(), "total_questions")
}

func TestLoadInvalidConfidence(t *testing.T) {
	bad := `
interview_config:
  total_questions: 10
  behavioral_questions: 5
  coding_questions: 5
  dsa_problems: 5
confidence:
  sample_interval_ms: 0
  window_size: 30
`
	_, err := Load(writeFile(t, bad))
	require.Error(t, err)
}

const validProblems = `
problems:
  - title: "Two Sum"
    description: "Find two numbers that add up to target."
    examples:
      - input: "2 7 11 15, target 9"
        output: "0 1"
    test_cases:
      - input: "2 7 11 15\n9"
        expected: "0 1"
      - input: "3 2 4\n6"
        expected: "1 2"
  - title: "Valid Parentheses"
    description: "Check bracket balance."
    test_cases:
      - input: "()"
        expected: "true"
      - input: "(]"
        expected: "false"
`

func TestLoadProblemSet(t *testing.T) {
	set, err := LoadProblemSet(writeFile(t, validProblems), 2)
	require.NoError(t, err)

	require.Len(t, set.Problems, 2)
	require.Equal(t, "Two Sum", set.Problems[0].Title)
	require.Equal(t, 2, set.TestCasesPerProblem())
	require.Equal(t, "2 7 11 15\n9", set.Problems[0].TestCases[0].Input)
}

func TestLoadProblemSetCountMismatch(t *testing.T) {
	_, err := LoadProblemSet(writeFile(t, validProblems), 5)
	require.Error(t, err)
	require.Contains(t, err.Error(), "dsa_problems")
}

func TestLoadProblemSetUnevenTestCases(t *testing.T) {
	uneven := `
problems:
  - title: "A"
    description: "d"
    test_cases:
      - input: "1"
        expected: "1"
  - title: "B"
    description: "d"
    test_cases:
      - input: "1"
        expected: "1"
      - input: "2"
        expected: "2"
`
	_, err := LoadProblemSet(writeFile(t, uneven), 2)
	require.Error(t, err)
}

func TestLoadAppConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("JUDGE0_HOST", "")

	cfg := LoadAppConfig()
	require.Equal(t, "key", cfg.Gemini.APIKey)
	require.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	require.Equal(t, "judge0-ce.p.rapidapi.com", cfg.Judge.Host)
	require.Equal(t, "results", cfg.Storage.ResultsDir)
}

func TestLoadAppConfigOverrides(t *testing.T) {
	t.Setenv("GEMINI_TIMEOUT", "30s")
	t.Setenv("REDIS_DB", "3")

	cfg := LoadAppConfig()
	require.Equal(t, "30s", cfg.Gemini.Timeout.String())
	require.Equal(t, 3, cfg.Redis.DB)
}
