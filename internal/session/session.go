package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"interview-coach/internal/confidence"
	"interview-coach/internal/dsa"
	"interview-coach/internal/metrics"
	"interview-coach/internal/prompts"
	"interview-coach/internal/questions"
	"interview-coach/internal/scoring"
	"interview-coach/internal/storage"
	"interview-coach/internal/transcribe"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State представляет состояние сессии интервью
type State string

const (
	StateSetup          State = "setup"
	StateAwaitingAnswer State = "awaiting_answer"
	StateRecording      State = "recording"
	StateEvaluating     State = "evaluating"
	StateQnADone        State = "qna_done"
	StateDSARound       State = "dsa_round"
	StateFinalReview    State = "final_review"
	StateCompleted      State = "completed"
)

// Mode представляет режим сессии
type Mode string

const (
	ModePractice Mode = "practice"
	ModeMock     Mode = "mock"
)

// Answer представляет записанный ответ на один вопрос.
// После добавления не меняется; Response может быть пустым —
// промолчавший кандидат это валидный исход, а не ошибка
type Answer struct {
	Question        string
	Response        string
	ConfidenceScore int
}

// Evaluator запрашивает оценки у внешнего генератора фидбека
type Evaluator interface {
	EvaluateAnswer(question, answer, jobContext string) (string, error)
	GenerateComprehensiveFeedback(answers []prompts.AnswerRecord, jobContext string, isTechnical bool) (string, error)
}

// Options собирает зависимости сессии
type Options struct {
	Mode           Mode
	IsTechnical    bool
	JobContext     string
	Bank           *questions.Bank
	Channel        *transcribe.Channel
	Sampler        *confidence.Sampler
	SampleInterval time.Duration
	Devices        MediaDevices
	Evaluator      Evaluator
	Handoff        storage.Handoff
	Metrics        *metrics.Metrics
	Logger         zerolog.Logger
}

// Session представляет одну попытку интервью: машина состояний,
// владеющая вопросами, записанными ответами и устройствами захвата.
// Единственный писатель answers и confidenceScores
type Session struct {
	ID string

	mu           sync.Mutex
	state        State
	mode         Mode
	isTechnical  bool
	jobContext   string
	bank         *questions.Bank
	currentIndex int
	answers      []Answer
	confScores   []int

	channel        *transcribe.Channel
	sampler        *confidence.Sampler
	monitor        *confidence.Monitor
	sampleInterval time.Duration
	devices        MediaDevices
	evaluator      Evaluator
	handoff        storage.Handoff
	metrics        *metrics.Metrics
	log            zerolog.Logger

	acquired   bool
	released   bool
	answerDone chan struct{}

	qnaFeedback string
	feedbackErr string
	lastEval    scoring.AnswerEvaluation
	lastEvalErr string
	dsaSummary  *dsa.Summary
	dsaSkipped  bool
}

// New создает сессию в состоянии Setup
func New(opts Options) (*Session, error) {
	if opts.Bank == nil {
		return nil, fmt.Errorf("банк вопросов не задан")
	}
	if opts.Channel == nil {
		return nil, fmt.Errorf("канал транскрипции не задан")
	}
	if opts.Sampler == nil {
		return nil, fmt.Errorf("sampler уверенности не задан")
	}
	if opts.Devices == nil {
		return nil, fmt.Errorf("устройства захвата не заданы")
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewMetrics()
	}

	return &Session{
		ID:             uuid.New().String(),
		state:          StateSetup,
		mode:           opts.Mode,
		isTechnical:    opts.IsTechnical,
		jobContext:     opts.JobContext,
		bank:           opts.Bank,
		channel:        opts.Channel,
		sampler:        opts.Sampler,
		sampleInterval: opts.SampleInterval,
		devices:        opts.Devices,
		evaluator:      opts.Evaluator,
		handoff:        opts.Handoff,
		metrics:        opts.Metrics,
		log:            opts.Logger,
	}, nil
}

// State возвращает текущее состояние сессии
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentQuestion возвращает текущий вопрос и его индекс
func (s *Session) CurrentQuestion() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bank.At(s.currentIndex), s.currentIndex
}

// Answers возвращает копию записанных ответов
func (s *Session) Answers() []Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// ConfidenceScores возвращает копию оценок уверенности по ответам
func (s *Session) ConfidenceScores() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.confScores))
	copy(out, s.confScores)
	return out
}

// Start переводит сессию из Setup в AwaitingAnswer: захватывает
// камеру и микрофон, инициализирует sampler и запускает мониторинг
// уверенности. Ошибка захвата устройств блокирует старт: запись
// ответов без микрофона невозможна
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSetup {
		return fmt.Errorf("сессия уже запущена (состояние %s)", s.state)
	}

	frames, err := s.devices.Acquire()
	if err != nil {
		return fmt.Errorf("не удалось получить доступ к камере и микрофону: %w", err)
	}

	// Недоступные модели — штатный деградированный режим
	s.sampler.Initialize()
	s.sampler.StartAnalysis()

	s.monitor = confidence.NewMonitor(s.sampler, frames, s.sampleInterval, func(int) {
		s.metrics.IncrementFramesAnalyzed()
	}, s.log)
	s.monitor.Start(ctx)

	s.channel.SetRecordingCompleteCallback(s.makeCompletionHandler())

	s.acquired = true
	s.state = StateAwaitingAnswer
	s.metrics.IncrementSessionsStarted()
	s.log.Info().Str("session_id", s.ID).Str("mode", string(s.mode)).Bool("technical", s.isTechnical).Msg("сессия запущена")
	return nil
}

// StartRecording начинает запись ответа на текущий вопрос.
// false — запись недоступна или состояние не позволяет.
// Состояние recording выставляется до запуска движка: завершение
// может прийти мгновенно и должно застать сессию готовой
func (s *Session) StartRecording() bool {
	s.mu.Lock()
	if s.state != StateAwaitingAnswer {
		s.mu.Unlock()
		return false
	}
	s.state = StateRecording
	done := make(chan struct{})
	s.answerDone = done
	s.mu.Unlock()

	if !s.channel.Start() {
		s.mu.Lock()
		s.state = StateAwaitingAnswer
		s.answerDone = nil
		s.mu.Unlock()
		close(done)
		return false
	}
	return true
}

// AwaitAnswer блокирует до полной обработки текущей записи:
// ответ добавлен, оценка practice-режима (если есть) получена
func (s *Session) AwaitAnswer() {
	s.mu.Lock()
	done := s.answerDone
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

// StopRecording завершает запись. Итог придет через обработчик
// завершения, вызов без активной записи — no-op
func (s *Session) StopRecording() {
	s.channel.Stop()
}

// makeCompletionHandler фиксирует индекс вопроса на момент старта
// записи: завершение, пришедшее после перехода к другому вопросу,
// отбрасывается, а не портит чужой ответ
func (s *Session) makeCompletionHandler() transcribe.CompleteFunc {
	return func(transcript string) {
		s.mu.Lock()
		done := s.answerDone
		s.answerDone = nil
		if s.state != StateRecording {
			s.mu.Unlock()
			// Запись разрешена и при отбрасывании: ожидающие не должны зависнуть
			if done != nil {
				close(done)
			}
			s.log.Warn().Msg("завершение записи пришло вне состояния recording, игнорируем")
			return
		}
		if done != nil {
			defer close(done)
		}

		index := s.currentIndex
		question := s.bank.At(index)

		// Порядок фиксированный: завершение транскрипции, затем
		// чтение среднего по окну, затем добавление ответа
		avg := s.sampler.AverageConfidence()

		s.answers = append(s.answers, Answer{
			Question:        question,
			Response:        transcript,
			ConfidenceScore: avg,
		})
		s.confScores = append(s.confScores, avg)
		s.state = StateEvaluating
		s.lastEval = scoring.AnswerEvaluation{}
		s.lastEvalErr = ""
		mode := s.mode
		jobContext := s.jobContext
		s.mu.Unlock()

		s.metrics.IncrementAnswersRecorded()
		s.log.Info().Int("question", index+1).Int("confidence", avg).Int("transcript_len", len(transcript)).Msg("ответ записан")

		if mode == ModePractice && s.evaluator != nil {
			s.evaluateAnswer(index, question, transcript, jobContext)
		}
	}
}

// evaluateAnswer запрашивает оценку одного ответа в practice-режиме.
// Ошибка генератора показывается рядом с ответом и не мешает
// переходу к следующему вопросу
func (s *Session) evaluateAnswer(index int, question, answer, jobContext string) {
	text, err := s.evaluator.EvaluateAnswer(question, answer, jobContext)
	s.metrics.IncrementEvaluatorCall(err == nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Оценка могла устареть, пока шел запрос
	if s.currentIndex != index {
		s.log.Warn().Int("question", index+1).Msg("оценка пришла после перехода к следующему вопросу, отбрасываем")
		return
	}

	if err != nil {
		s.log.Error().Err(err).Int("question", index+1).Msg("ошибка оценки ответа")
		s.lastEvalErr = "Не удалось получить оценку ответа. Продолжайте интервью."
		return
	}

	s.lastEval = scoring.ParseAnswerEvaluation(text)
}

// LastEvaluation возвращает оценку последнего ответа practice-режима
// и текст ошибки, если оценка не удалась
func (s *Session) LastEvaluation() (scoring.AnswerEvaluation, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastEval, s.lastEvalErr
}

// NextQuestion переходит к следующему вопросу либо закрывает QnA-часть
// после последнего. Окно уверенности сбрасывается ровно один раз
// на каждом переходе
func (s *Session) NextQuestion(ctx context.Context) error {
	s.mu.Lock()

	if s.state != StateEvaluating {
		s.mu.Unlock()
		return fmt.Errorf("переход к следующему вопросу невозможен из состояния %s", s.state)
	}

	if s.currentIndex < s.bank.Len()-1 {
		s.currentIndex++
		s.sampler.Reset()
		s.state = StateAwaitingAnswer
		s.mu.Unlock()
		return nil
	}

	s.mu.Unlock()
	return s.finishQnA(ctx)
}

// finishQnA закрывает разговорную часть: для технической роли —
// мост к DSA-раунду с сохранением фидбека QnA-части, иначе сразу
// завершение сессии
func (s *Session) finishQnA(ctx context.Context) error {
	s.mu.Lock()
	isTechnical := s.isTechnical
	s.mu.Unlock()

	feedback, err := s.requestFeedback()

	s.mu.Lock()
	if err != nil {
		s.feedbackErr = "Не удалось получить итоговый фидбек. Попробуйте пройти интервью заново."
		s.log.Error().Err(err).Msg("ошибка итогового фидбека")
	} else {
		s.qnaFeedback = feedback
	}

	if !isTechnical {
		s.state = StateCompleted
		s.mu.Unlock()
		s.teardown()
		return nil
	}

	s.state = StateQnADone
	s.mu.Unlock()

	if s.handoff != nil {
		if err := s.handoff.Set(ctx, storage.KeyTechnicalRole, "true"); err != nil {
			s.log.Error().Err(err).Msg("ошибка сохранения флага технической роли")
		}
		if feedback != "" {
			if err := s.handoff.Set(ctx, storage.KeyQnAFeedback, feedback); err != nil {
				s.log.Error().Err(err).Msg("ошибка сохранения фидбека QnA")
			}
		}
	}
	return nil
}

// requestFeedback запрашивает итоговый фидбек по всем ответам
func (s *Session) requestFeedback() (string, error) {
	s.mu.Lock()
	records := make([]prompts.AnswerRecord, len(s.answers))
	for i, a := range s.answers {
		records[i] = prompts.AnswerRecord{
			Question:   a.Question,
			Response:   a.Response,
			Confidence: a.ConfidenceScore,
		}
	}
	jobContext := s.jobContext
	isTechnical := s.isTechnical
	s.mu.Unlock()

	if s.evaluator == nil {
		return "", fmt.Errorf("генератор фидбека не настроен")
	}

	feedback, err := s.evaluator.GenerateComprehensiveFeedback(records, jobContext, isTechnical)
	s.metrics.IncrementEvaluatorCall(err == nil)
	return feedback, err
}

// StartDSARound переходит к coding-раунду
func (s *Session) StartDSARound() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateQnADone {
		return fmt.Errorf("coding-раунд недоступен из состояния %s", s.state)
	}
	if !s.isTechnical {
		return fmt.Errorf("coding-раунд доступен только для технической роли")
	}

	s.state = StateDSARound
	return nil
}

// SkipDSARound пропускает coding-раунд целиком и завершает сессию.
// Пропуск — полноправный исход, сводка DSA остается пустой
func (s *Session) SkipDSARound() error {
	s.mu.Lock()
	if s.state != StateQnADone {
		s.mu.Unlock()
		return fmt.Errorf("пропуск coding-раунда невозможен из состояния %s", s.state)
	}
	s.dsaSkipped = true
	s.state = StateCompleted
	s.mu.Unlock()

	s.teardown()
	return nil
}

// CompleteDSARound принимает сводку завершенного coding-раунда
// и переходит к финальному ревью
func (s *Session) CompleteDSARound(ctx context.Context, summary dsa.Summary) error {
	s.mu.Lock()
	if s.state != StateDSARound {
		s.mu.Unlock()
		return fmt.Errorf("завершение coding-раунда невозможно из состояния %s", s.state)
	}
	s.dsaSummary = &summary
	s.state = StateFinalReview
	s.mu.Unlock()

	if s.handoff != nil {
		data, err := json.Marshal(summary)
		if err == nil {
			if err := s.handoff.Set(ctx, storage.KeyDSASummary, string(data)); err != nil {
				s.log.Error().Err(err).Msg("ошибка сохранения сводки DSA")
			}
		}
	}
	return nil
}

// FinalizeReview завершает сессию после финального ревью
func (s *Session) FinalizeReview() error {
	s.mu.Lock()
	if s.state != StateFinalReview {
		s.mu.Unlock()
		return fmt.Errorf("завершение невозможно из состояния %s", s.state)
	}
	s.state = StateCompleted
	s.mu.Unlock()

	s.teardown()
	return nil
}

// Abandon прерывает сессию из любого состояния, освобождая устройства
func (s *Session) Abandon() {
	s.mu.Lock()
	if s.state == StateCompleted {
		s.mu.Unlock()
		return
	}
	s.state = StateCompleted
	s.mu.Unlock()

	if s.channel != nil {
		s.channel.Stop()
	}
	s.teardown()
	s.log.Info().Str("session_id", s.ID).Msg("сессия прервана")
}

// teardown останавливает мониторинг и освобождает устройства.
// Вызывается на каждом пути выхода, освобождение однократное
func (s *Session) teardown() {
	s.mu.Lock()
	monitor := s.monitor
	release := s.acquired && !s.released
	s.released = true
	s.mu.Unlock()

	if monitor != nil {
		monitor.Stop()
	}
	s.sampler.StopAnalysis()

	if release {
		s.devices.Release()
		s.metrics.IncrementSessionsCompleted()
	}
}

// Results представляет итог сессии для отображения и сохранения
type Results struct {
	Feedback         scoring.FeedbackResult
	FeedbackError    string
	HireabilityScore *float64
	Verdict          scoring.Verdict
	DSA              *dsa.Summary
	DSASkipped       bool
	Answers          []Answer
}

// Results собирает итог сессии: разобранный фидбек, балл пригодности
// к найму и сводку DSA-раунда. При некорректном JSON фидбека числовые
// поля недоступны и балл не вычисляется
func (s *Session) Results() Results {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := Results{
		FeedbackError: s.feedbackErr,
		DSA:           s.dsaSummary,
		DSASkipped:    s.dsaSkipped,
		Answers:       make([]Answer, len(s.answers)),
	}
	copy(res.Answers, s.answers)

	if s.qnaFeedback == "" {
		return res
	}

	res.Feedback = scoring.ParseFeedback(s.qnaFeedback)
	if res.Feedback.Malformed() {
		return res
	}

	var dsaScore *int
	if s.isTechnical && s.dsaSummary != nil {
		dsaScore = &s.dsaSummary.DSAScore
	}

	if score, ok := scoring.HireabilityScore(res.Feedback.Parsed, s.isTechnical, dsaScore); ok {
		res.HireabilityScore = &score
		res.Verdict = scoring.HireabilityVerdict(score)
	}
	return res
}
