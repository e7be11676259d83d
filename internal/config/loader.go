package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию интервью из YAML файла
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	// Валидация конфигурации
	err = validateConfig(&config)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return &config, nil
}

// LoadProblemSet загружает набор DSA-задач из YAML файла
func LoadProblemSet(filename string, expected int) (*ProblemSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	var set ProblemSet
	err = yaml.Unmarshal(data, &set)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	err = validateProblemSet(&set, expected)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации набора задач: %w", err)
	}

	return &set, nil
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.InterviewConfig.TotalQuestions <= 0 {
		return fmt.Errorf("total_questions должно быть больше 0")
	}

	if config.InterviewConfig.BehavioralQuestions < 0 || config.InterviewConfig.CodingQuestions < 0 {
		return fmt.Errorf("число вопросов не может быть отрицательным")
	}

	if config.InterviewConfig.BehavioralQuestions+config.InterviewConfig.CodingQuestions != config.InterviewConfig.TotalQuestions {
		return fmt.Errorf("сумма behavioral_questions (%d) и coding_questions (%d) не соответствует total_questions (%d)",
			config.InterviewConfig.BehavioralQuestions,
			config.InterviewConfig.CodingQuestions,
			config.InterviewConfig.TotalQuestions)
	}

	if config.InterviewConfig.DSAProblems <= 0 {
		return fmt.Errorf("dsa_problems должно быть больше 0")
	}

	if config.Confidence.SampleIntervalMs <= 0 {
		return fmt.Errorf("sample_interval_ms должно быть больше 0")
	}

	if config.Confidence.WindowSize <= 0 {
		return fmt.Errorf("window_size должно быть больше 0")
	}

	return nil
}

// validateProblemSet проверяет корректность набора задач
func validateProblemSet(set *ProblemSet, expected int) error {
	if len(set.Problems) != expected {
		return fmt.Errorf("количество задач (%d) не соответствует dsa_problems (%d)",
			len(set.Problems), expected)
	}

	perProblem := len(set.Problems[0].TestCases)
	for i, p := range set.Problems {
		if p.Title == "" {
			return fmt.Errorf("задача %d должна иметь title", i+1)
		}

		if p.Description == "" {
			return fmt.Errorf("задача %d должна иметь description", i+1)
		}

		if len(p.TestCases) == 0 {
			return fmt.Errorf("задача %d должна иметь хотя бы один тест-кейс", i+1)
		}

		// Подсчет итогового балла предполагает одинаковое число
		// тест-кейсов у всех задач
		if len(p.TestCases) != perProblem {
			return fmt.Errorf("задача %d имеет %d тест-кейсов, ожидалось %d",
				i+1, len(p.TestCases), perProblem)
		}
	}

	return nil
}
