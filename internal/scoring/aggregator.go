package scoring

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Score представляет опциональный балл 0-100 из ответа генератора.
// Поле может прийти числом, null или строкой "N/A"
type Score struct {
	value   float64
	present bool
}

func NewScore(v float64) Score {
	return Score{value: v, present: true}
}

func (s Score) Present() bool {
	return s.present
}

func (s Score) Value() float64 {
	return s.value
}

func (s *Score) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || strings.HasPrefix(trimmed, "\"") {
		*s = Score{}
		return nil
	}

	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		*s = Score{}
		return nil
	}

	*s = Score{value: v, present: true}
	return nil
}

// Feedback представляет итоговый фидбек генератора по схеме §контракта:
// три обязательных балла, опциональный технический и развернутый текст
type Feedback struct {
	OverallConfidence   Score  `json:"overallConfidence"`
	AnswerRelevancy     Score  `json:"answerRelevancy"`
	CommunicationSkills Score  `json:"communicationSkills"`
	TechnicalSkills     Score  `json:"technicalSkills"`
	DetailedFeedback    string `json:"detailedFeedback"`
}

// FeedbackResult — размеченный результат разбора ответа генератора.
// Либо Parsed заполнен, либо ответ некорректен и остается только Raw:
// вызывающий обязан обработать оба случая явно
type FeedbackResult struct {
	Parsed *Feedback
	Raw    string
}

// Malformed сообщает, что JSON не разобрался и доступен только
// сырой текст; числовые поля в этом случае недоступны
func (r FeedbackResult) Malformed() bool {
	return r.Parsed == nil
}

// ParseFeedback разбирает ответ генератора. Ошибки разбора не
// пробрасываются: некорректный ответ превращается в Malformed-результат
func ParseFeedback(text string) FeedbackResult {
	var fb Feedback
	if err := json.Unmarshal([]byte(text), &fb); err != nil {
		return FeedbackResult{Raw: text}
	}
	return FeedbackResult{Parsed: &fb, Raw: text}
}

var scorePattern = regexp.MustCompile(`(?i)Score:\s*(\d{1,2})\s*/\s*10`)

// AnswerEvaluation представляет оценку одного ответа в practice-режиме
type AnswerEvaluation struct {
	Score    int
	HasScore bool
	Feedback string
}

// ParseAnswerEvaluation извлекает балл по контракту "Score: X/10".
// Нераспознанный балл — не ошибка, текст фидбека показывается как есть
func ParseAnswerEvaluation(text string) AnswerEvaluation {
	eval := AnswerEvaluation{Feedback: strings.TrimSpace(text)}

	m := scorePattern.FindStringSubmatch(text)
	if m == nil {
		return eval
	}

	score, err := strconv.Atoi(m[1])
	if err != nil || score > 10 {
		return eval
	}

	eval.Score = score
	eval.HasScore = true
	return eval
}

// Verdict представляет итоговую категорию пригодности к найму
type Verdict string

const (
	VerdictHighlyHireable    Verdict = "Highly Hireable"
	VerdictMinorImprovements Verdict = "Hireable with Minor Improvements"
	VerdictPotential         Verdict = "Potential, Needs Improvement"
	VerdictNotYet            Verdict = "Not Hireable Yet"

	// Вариант формулировок для оценки только coding-раунда
	VerdictCodingHighly    Verdict = "Highly Hireable (Coding)"
	VerdictCodingMinor     Verdict = "Hireable for Coding with Minor Improvements"
	VerdictCodingPotential Verdict = "Potential, Needs Coding Improvement"
	VerdictCodingNotYet    Verdict = "Not Hireable for Coding Yet"
)

// HireabilityVerdict отображает балл в категорию.
// Пороги 80/65/50 — фиксированное бизнес-правило
func HireabilityVerdict(score float64) Verdict {
	switch {
	case score >= 80:
		return VerdictHighlyHireable
	case score >= 65:
		return VerdictMinorImprovements
	case score >= 50:
		return VerdictPotential
	default:
		return VerdictNotYet
	}
}

// DSAVerdict — те же пороги для балла coding-раунда
func DSAVerdict(score float64) Verdict {
	switch {
	case score >= 80:
		return VerdictCodingHighly
	case score >= 65:
		return VerdictCodingMinor
	case score >= 50:
		return VerdictCodingPotential
	default:
		return VerdictCodingNotYet
	}
}

// HireabilityScore сводит баллы фидбека в один балл 0-100.
// База — среднее уверенности, релевантности и коммуникации; технический
// балл и балл DSA-раунда подмешиваются последовательным усреднением.
// false — балл невычислим (обязательные поля отсутствуют)
func HireabilityScore(fb *Feedback, isTechnical bool, dsaScore *int) (float64, bool) {
	if fb == nil {
		return 0, false
	}
	if !fb.OverallConfidence.Present() || !fb.AnswerRelevancy.Present() || !fb.CommunicationSkills.Present() {
		return 0, false
	}

	score := (fb.OverallConfidence.Value() + fb.AnswerRelevancy.Value() + fb.CommunicationSkills.Value()) / 3

	if isTechnical && fb.TechnicalSkills.Present() {
		score = (score + fb.TechnicalSkills.Value()) / 2
	}

	if dsaScore != nil {
		score = (score + float64(*dsaScore)) / 2
	}

	return score, true
}
