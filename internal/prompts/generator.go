package prompts

import (
	"fmt"
	"strings"
)

// AnswerRecord используется при сборке промпта итогового фидбека
type AnswerRecord struct {
	Question   string
	Response   string
	Confidence int
}

// BuildQuestionsPrompt создает промпт для генерации вопросов интервью.
// Для технической роли на 10 вопросов генератор обязан вернуть
// 5 поведенческих и 5 задач на программирование.
func BuildQuestionsPrompt(jobTitle string, isTechnical bool, count int) string {
	if isTechnical && count == 10 {
		return fmt.Sprintf(`Generate exactly 10 professional interview questions for a %s position.

1-5: Behavioral (non-coding) questions. These should focus on soft skills, teamwork, problem-solving, communication, and situational judgment. Do NOT include any coding or programming in these.
6-10: Coding/programming questions. These should require the candidate to write code, solve algorithms, or implement functions. Each should be suitable for a technical interview.

Format: Return exactly 10 questions, numbered 1-10, one per line. The first 5 must be behavioral, the last 5 must be coding/programming questions. Make the questions realistic and commonly asked in interviews.`, jobTitle)
	}

	technicalNote := "Focus on behavioral and situational questions."
	if isTechnical {
		technicalNote = "Include both behavioral and technical questions. For technical questions, focus on problem-solving and coding concepts."
	}

	plural := ""
	if count > 1 {
		plural = "s"
	}

	return fmt.Sprintf(`Generate %d professional interview question%s for a %s position.
%s

Format: Return only the question%s, one per line if multiple.
Make the questions realistic and commonly asked in interviews.`,
		count, plural, jobTitle, technicalNote, plural)
}

// BuildMockQuestionsPrompt создает промпт для mock-интервью
// на основе резюме и описания вакансии
func BuildMockQuestionsPrompt(resumeText, jobDescription string, isTechnical bool) string {
	technicalNote := "Focus on behavioral and situational questions based on the resume and job requirements."
	if isTechnical {
		technicalNote = "Include 3-4 technical/coding questions and 6-7 behavioral questions."
	}

	return fmt.Sprintf(`Based on this resume and job description, generate exactly 10 interview questions:

RESUME:
%s

JOB DESCRIPTION:
%s

%s

Format: Return exactly 10 questions, numbered 1-10, one per line.
Make questions specific to the candidate's experience and the job requirements.`,
		resumeText, jobDescription, technicalNote)
}

// BuildEvaluationPrompt создает промпт для оценки одного ответа.
// Контракт ответа: строка "Score: X/10" плюс свободный текст фидбека.
func BuildEvaluationPrompt(question, answer, jobContext string) string {
	return fmt.Sprintf(`Evaluate this interview answer:

Question: %s
Answer: %s
Job Context: %s

Provide a score from 1-10 and brief feedback on:
1. Relevancy to the question
2. Completeness of the answer
3. Professional communication
4. Specific improvements

Format:
Score: X/10
Feedback: [Your detailed feedback]`, question, answer, jobContext)
}

// BuildComprehensiveFeedbackPrompt создает промпт итогового фидбека.
// Ответ ожидается строго в виде JSON объекта (см. scoring.Feedback)
func BuildComprehensiveFeedbackPrompt(answers []AnswerRecord, jobContext string, isTechnical bool) string {
	var sb strings.Builder

	technical := "No"
	if isTechnical {
		technical = "Yes"
	}

	sb.WriteString("Provide comprehensive interview feedback based on:\n\n")
	sb.WriteString(fmt.Sprintf("Job Context: %s\n", jobContext))
	sb.WriteString(fmt.Sprintf("Technical Role: %s\n\n", technical))
	sb.WriteString("Answers and Performance:\n")

	for i, a := range answers {
		sb.WriteString(fmt.Sprintf("\nQ%d: %s\n", i+1, a.Question))
		sb.WriteString(fmt.Sprintf("Answer: %s\n", a.Response))
		sb.WriteString(fmt.Sprintf("Confidence Score: %d%%\n", a.Confidence))
	}

	sb.WriteString(`
Please return your response in the following JSON format:
{
  "overallConfidence": <number 0-100>,
  "answerRelevancy": <number 0-100>,
  "communicationSkills": <number 0-100>,
  "technicalSkills": <number 0-100 or null>,
  "detailedFeedback": "<detailed feedback as markdown>"
}

- If the role is not technical, set technicalSkills to null or "N/A".
- The detailedFeedback field should contain your full written feedback and recommendations.
- Do not include any text outside the JSON object.`)

	return sb.String()
}
