package session

import (
	"fmt"
	"sync"

	"interview-coach/internal/confidence"
)

// MediaDevices представляет эксклюзивный доступ к камере и микрофону.
// Захват — на все время сессии, освобождение обязательно на каждом
// пути выхода
type MediaDevices interface {
	Acquire() (confidence.FrameSource, error)
	Release()
}

// FakeDevices имитирует камеру и микрофон для тестов и демо-режима
type FakeDevices struct {
	AcquireErr error

	mu       sync.Mutex
	acquired int
	released int
}

func NewFakeDevices() *FakeDevices {
	return &FakeDevices{}
}

func (d *FakeDevices) Acquire() (confidence.FrameSource, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.AcquireErr != nil {
		return nil, fmt.Errorf("ошибка захвата устройств: %w", d.AcquireErr)
	}
	d.acquired++
	return staticFrames{}, nil
}

func (d *FakeDevices) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.released++
}

// Acquired возвращает число захватов устройств
func (d *FakeDevices) Acquired() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.acquired
}

// Released возвращает число освобождений устройств
func (d *FakeDevices) Released() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}

// staticFrames отдает пустые кадры: в fallback-режиме sampler
// содержимое кадра не использует
type staticFrames struct{}

func (staticFrames) Frame() (confidence.Frame, error) {
	return nil, nil
}
