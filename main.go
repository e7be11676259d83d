package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"interview-coach/internal/confidence"
	"interview-coach/internal/config"
	"interview-coach/internal/dsa"
	"interview-coach/internal/gemini"
	"interview-coach/internal/history"
	"interview-coach/internal/judge"
	"interview-coach/internal/metrics"
	"interview-coach/internal/questions"
	"interview-coach/internal/scoring"
	"interview-coach/internal/session"
	"interview-coach/internal/storage"
	"interview-coach/internal/transcribe"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	fmt.Println("🚀 Запуск Interview Coach...")

	// Загружаем переменные окружения
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️ .env файл не найден, используем переменные окружения")
	}

	appCfg := config.LoadAppConfig()
	if appCfg.Gemini.APIKey == "" {
		log.Fatal("GEMINI_API_KEY не установлен в .env файле")
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	// Загружаем конфигурацию интервью
	cfg, err := config.Load("config/interview.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации интервью: %v", err)
	}

	problems, err := config.LoadProblemSet("config/problems.yaml", cfg.GetDSAProblems())
	if err != nil {
		log.Fatalf("Ошибка загрузки набора задач: %v", err)
	}

	// Инициализируем сервисы
	fmt.Println("🔧 Инициализация сервисов...")

	geminiClient := gemini.New(appCfg.Gemini, logger)
	fmt.Println("✅ Генератор вопросов и фидбека инициализирован")

	m := metrics.NewMetrics()

	judgeClient := judge.New(appCfg.Judge, m, logger)
	if appCfg.Judge.APIKey != "" {
		fmt.Println("✅ Judge инициализирован")
	} else {
		fmt.Println("⚠️ JUDGE0_API_KEY не установлен, coding-раунд будет пропущен")
	}

	var handoff storage.Handoff
	if appCfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     appCfg.Redis.Addr,
			Password: appCfg.Redis.Password,
			DB:       appCfg.Redis.DB,
		})
		handoff = storage.NewRedisHandoff(client, "interview")
		fmt.Println("✅ Handoff через Redis")
	} else {
		handoff = storage.NewFileHandoff(appCfg.Storage.HandoffPath)
		fmt.Println("✅ Handoff через файл")
	}

	results := storage.NewResultStore(appCfg.Storage.ResultsDir)

	attempts, err := history.Connect(appCfg.Storage.HistoryPath)
	if err != nil {
		log.Printf("⚠️ История попыток недоступна: %v", err)
		attempts = nil
	} else {
		defer attempts.Close()
		fmt.Println("✅ История попыток инициализирована")
	}

	fmt.Println("\n📋 Конфигурация:")
	fmt.Printf("• Вопросов в интервью: %d\n", cfg.GetTotalQuestions())
	fmt.Printf("• Задач в coding-раунде: %d\n", cfg.GetDSAProblems())

	stdin := bufio.NewReader(os.Stdin)

	mode := session.ModePractice
	if strings.EqualFold(ask(stdin, "\nРежим интервью (practice/mock): "), "mock") {
		mode = session.ModeMock
	}

	jobTitle := ask(stdin, "Название позиции: ")
	technical := strings.EqualFold(ask(stdin, "Техническая роль? (y/n): "), "y")

	// В mock-режиме вопросы строятся по резюме и вакансии,
	// а промежуточные оценки ответов не запрашиваются
	var questionsText string
	if mode == session.ModeMock {
		fmt.Println("\nВставьте текст резюме, завершите строкой END:")
		resume := readMultiline(stdin)
		fmt.Println("Вставьте описание вакансии, завершите строкой END:")
		jobDescription := readMultiline(stdin)

		fmt.Println("\n⏳ Генерация вопросов...")
		questionsText, err = geminiClient.GenerateMockQuestions(resume, jobDescription, technical)
	} else {
		fmt.Println("\n⏳ Генерация вопросов...")
		questionsText, err = geminiClient.GenerateQuestions(jobTitle, technical, cfg.GetTotalQuestions())
	}
	if err != nil {
		log.Fatalf("Ошибка генерации вопросов: %v", err)
	}

	items := questions.ParseList(questionsText, cfg.GetTotalQuestions())
	behavioral := len(items)
	if technical {
		behavioral = cfg.GetBehavioralQuestions()
	}
	bank, err := questions.NewBank(items, behavioral)
	if err != nil {
		log.Fatalf("Ошибка создания банка вопросов: %v", err)
	}

	// Консольный режим: речь заменяется вводом с клавиатуры,
	// уверенность считается в fallback-режиме без камеры
	channel := transcribe.NewChannel(transcribe.NewReader(stdin), logger)
	sampler := confidence.NewSampler(nil, cfg.Confidence.WindowSize, nil, logger)

	sess, err := session.New(session.Options{
		Mode:           mode,
		IsTechnical:    technical,
		JobContext:     jobTitle,
		Bank:           bank,
		Channel:        channel,
		Sampler:        sampler,
		SampleInterval: time.Duration(cfg.Confidence.SampleIntervalMs) * time.Millisecond,
		Devices:        session.NewFakeDevices(),
		Evaluator:      geminiClient,
		Handoff:        handoff,
		Metrics:        m,
		Logger:         logger,
	})
	if err != nil {
		log.Fatalf("Ошибка создания сессии: %v", err)
	}

	ctx := context.Background()
	if err := sess.Start(ctx); err != nil {
		log.Fatalf("Ошибка запуска сессии: %v", err)
	}

	fmt.Println("\n🎤 Интервью началось! Отвечайте построчно, пустая строка завершает ответ.")

	for i := 0; i < bank.Len(); i++ {
		if technical && i == len(bank.Behavioral()) {
			fmt.Printf("\n🔧 Поведенческая часть закончена, впереди %d технических вопросов\n", len(bank.Coding()))
		}

		question, _ := sess.CurrentQuestion()
		fmt.Printf("\n❓ Вопрос %d/%d: %s\n> ", i+1, bank.Len(), question)

		if !sess.StartRecording() {
			log.Fatal("Ошибка запуска записи ответа")
		}
		sess.AwaitAnswer()

		if eval, evalErr := sess.LastEvaluation(); evalErr != "" {
			fmt.Printf("⚠️ %s\n", evalErr)
		} else if eval.HasScore {
			fmt.Printf("💬 Оценка: %d/10\n%s\n", eval.Score, eval.Feedback)
		}

		if err := sess.NextQuestion(ctx); err != nil {
			log.Fatalf("Ошибка перехода к следующему вопросу: %v", err)
		}
	}

	if technical {
		runDSARound(ctx, stdin, sess, problems, judgeClient, appCfg.Judge.APIKey != "", logger)
	}

	printResults(sess)

	saveResults(sess, mode, technical, results, attempts, logger)

	snapshot := m.GetSnapshot()
	fmt.Printf("\n📊 Ответов записано: %d, вызовов генератора: %d\n",
		snapshot.AnswersRecorded, snapshot.EvaluatorCalls)
}

// runDSARound проводит coding-раунд в консоли: код вводится построчно
// и завершается строкой END, пустой ввод пропускает задачу
func runDSARound(ctx context.Context, stdin *bufio.Reader, sess *session.Session, problems *config.ProblemSet, judgeClient *judge.Client, judgeAvailable bool, logger zerolog.Logger) {
	if !judgeAvailable {
		fmt.Println("\n⏭️ Coding-раунд пропущен: judge не настроен")
		if err := sess.SkipDSARound(); err != nil {
			log.Fatalf("Ошибка пропуска coding-раунда: %v", err)
		}
		return
	}

	answer := ask(stdin, "\n💻 Перейти к coding-раунду? (y/n): ")
	if !strings.EqualFold(answer, "y") {
		if err := sess.SkipDSARound(); err != nil {
			log.Fatalf("Ошибка пропуска coding-раунда: %v", err)
		}
		return
	}

	if err := sess.StartDSARound(); err != nil {
		log.Fatalf("Ошибка запуска coding-раунда: %v", err)
	}

	round := dsa.NewRound(problems, judgeClient, logger)
	for {
		problem, index, ok := round.Current()
		if !ok {
			break
		}

		fmt.Printf("\n📝 Задача %d/%d: %s\n%s\n", index+1, len(problems.Problems), problem.Title, problem.Description)
		for _, ex := range problem.Examples {
			fmt.Printf("Пример: вход %q → выход %q\n", ex.Input, ex.Output)
		}

		language := ask(stdin, "Язык (python/javascript/java/cpp, пусто = пропустить): ")
		if language == "" {
			round.SkipCurrent()
			continue
		}

		fmt.Println("Введите решение, завершите строкой END:")
		code := readMultiline(stdin)

		cases, err := round.SubmitCurrent(code, language)
		if err != nil {
			fmt.Printf("⚠️ Ошибка проверки: %v. Повторите отправку или пропустите задачу.\n", err)
			continue
		}

		passed := 0
		for _, c := range cases {
			if c.Pass {
				passed++
			}
		}
		fmt.Printf("✅ Пройдено тестов: %d/%d\n", passed, len(cases))
	}

	summary := round.Summarize(problems.TestCasesPerProblem())
	fmt.Printf("\n🏁 Coding-раунд завершен: решено %d/%d, тестов пройдено %d/%d, балл %d (%s)\n",
		summary.Solved, summary.Total, summary.TotalPassed, summary.MaxTestCases, summary.DSAScore, summary.Level)
	fmt.Println(summary.Message)
	fmt.Printf("Вердикт по coding-части: %s\n", scoring.DSAVerdict(float64(summary.DSAScore)))

	if err := sess.CompleteDSARound(ctx, summary); err != nil {
		log.Fatalf("Ошибка завершения coding-раунда: %v", err)
	}
	if err := sess.FinalizeReview(); err != nil {
		log.Fatalf("Ошибка завершения сессии: %v", err)
	}
}

func printResults(sess *session.Session) {
	res := sess.Results()

	fmt.Println("\n══════════ Итоги интервью ══════════")

	if res.FeedbackError != "" {
		fmt.Printf("⚠️ %s\n", res.FeedbackError)
		return
	}

	if res.Feedback.Malformed() {
		// Фидбек пришел не в JSON: показываем как есть,
		// числовые поля и вердикт недоступны
		fmt.Println("Фидбек (сырой текст):")
		fmt.Println(res.Feedback.Raw)
		return
	}

	fb := res.Feedback.Parsed
	fmt.Printf("Уверенность: %s\n", formatScore(fb.OverallConfidence))
	fmt.Printf("Релевантность ответов: %s\n", formatScore(fb.AnswerRelevancy))
	fmt.Printf("Коммуникация: %s\n", formatScore(fb.CommunicationSkills))
	fmt.Printf("Технические навыки: %s\n", formatScore(fb.TechnicalSkills))
	fmt.Println("\nРазвернутый фидбек:")
	fmt.Println(fb.DetailedFeedback)

	if res.HireabilityScore != nil {
		fmt.Printf("\n🎯 Балл: %.1f — %s\n", *res.HireabilityScore, res.Verdict)
	}
}

func saveResults(sess *session.Session, mode session.Mode, technical bool, results *storage.ResultStore, attempts *history.Repository, logger zerolog.Logger) {
	res := sess.Results()

	record := &storage.SessionResult{
		SessionID: sess.ID,
		Timestamp: time.Now().Format(time.RFC3339),
		Mode:      string(mode),
		Technical: technical,
		DSA:       res.DSA,
	}
	for _, a := range sess.Answers() {
		record.Answers = append(record.Answers, storage.AnswerResult{
			Question:   a.Question,
			Answer:     a.Response,
			Confidence: a.ConfidenceScore,
		})
	}
	if !res.Feedback.Malformed() {
		record.FeedbackJSON = res.Feedback.Raw
	}
	if res.HireabilityScore != nil {
		record.HireabilityScore = res.HireabilityScore
		record.HireabilityVerdict = string(res.Verdict)
	}

	if err := results.Save(record); err != nil {
		logger.Error().Err(err).Msg("ошибка сохранения результата")
	} else {
		fmt.Printf("\n💾 Результат сохранен: session_%s.json\n", sess.ID)
	}

	if attempts == nil {
		return
	}
	attempt := &history.Attempt{
		SessionID:          sess.ID,
		Mode:               record.Mode,
		Technical:          record.Technical,
		HireabilityScore:   record.HireabilityScore,
		HireabilityVerdict: record.HireabilityVerdict,
	}
	if res.DSA != nil {
		attempt.DSAScore = &res.DSA.DSAScore
		attempt.DSALevel = res.DSA.Level
		attempt.ProblemsSolved = res.DSA.Solved
	}
	if err := attempts.Save(attempt); err != nil {
		logger.Error().Err(err).Msg("ошибка сохранения истории")
	}
}

func formatScore(s scoring.Score) string {
	if !s.Present() {
		return "недоступно"
	}
	return fmt.Sprintf("%.0f/100", s.Value())
}

func ask(stdin *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

func readMultiline(stdin *bufio.Reader) string {
	var sb strings.Builder
	for {
		line, err := stdin.ReadString('\n')
		if strings.TrimSpace(line) == "END" || err != nil {
			break
		}
		sb.WriteString(line)
	}
	return sb.String()
}
