package confidence

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSampleInterval — около 3 кадров в секунду
const DefaultSampleInterval = 333 * time.Millisecond

// FrameSource отдает очередной кадр видео (камера сессии)
type FrameSource interface {
	Frame() (Frame, error)
}

// Monitor гоняет периодический цикл опроса sampler'а.
// Кадры обрабатываются строго по одному: пока текущий анализ не
// завершился, следующий тик не стартует новый. Остановка — через
// контекст, чтобы после ухода с экрана интервью не оставалось
// осиротевших циклов
type Monitor struct {
	sampler  *Sampler
	frames   FrameSource
	interval time.Duration
	onScore  func(score int)
	log      zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor создает монитор. onScore может быть nil
func NewMonitor(sampler *Sampler, frames FrameSource, interval time.Duration, onScore func(int), logger zerolog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Monitor{
		sampler:  sampler,
		frames:   frames,
		interval: interval,
		onScore:  onScore,
		log:      logger,
	}
}

// Start запускает цикл опроса. Повторный Start без Stop — no-op
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go m.loop(ctx, m.done)
}

// Stop останавливает цикл и дожидается его завершения.
// Повторный Stop — no-op
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	done := m.done
	m.cancel = nil
	m.done = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (m *Monitor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame, err := m.frames.Frame()
			if err != nil {
				m.log.Debug().Err(err).Msg("кадр недоступен")
				continue
			}

			score := m.sampler.AnalyzeFrame(frame)
			if m.onScore != nil {
				m.onScore(score)
			}
		}
	}
}
