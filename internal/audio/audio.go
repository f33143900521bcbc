// Package audio описывает захват ответа кандидата. Сам микрофон — внешний
// виджет; здесь только контракт "один раз вернуть байты или ничего".
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Recording — результат одного захвата; пустой Data означает отмену или пропуск.
// ContentType и Filename описывают контейнер так, как его отдал источник.
type Recording struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Skipped сообщает, что байтов нет
func (r Recording) Skipped() bool { return len(r.Data) == 0 }

// Capturer захватывает один ответ. Реализация сама решает, в каком потоке
// идет запись; вызывающий ждет ровно одного результата.
type Capturer interface {
	Capture(ctx context.Context) (Recording, error)
}

// CaptureFunc адаптирует функцию к Capturer
type CaptureFunc func(ctx context.Context) (Recording, error)

func (f CaptureFunc) Capture(ctx context.Context) (Recording, error) { return f(ctx) }

// FileCapturer читает уже записанный ответ с диска.
// Пустой путь означает пропуск вопроса. Файлы .pcm/.raw считаются сырым
// 16-битным PCM с заданными SampleRate и Channels.
type FileCapturer struct {
	Path       string
	SampleRate uint32
	Channels   uint16
}

func (f FileCapturer) Capture(ctx context.Context) (Recording, error) {
	if err := ctx.Err(); err != nil {
		return Recording{}, err
	}
	if f.Path == "" {
		return Recording{}, nil
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return Recording{}, fmt.Errorf("ошибка чтения записи %s: %w", f.Path, err)
	}
	if len(data) == 0 {
		return Recording{}, nil
	}

	contentType := TypeByExtension(f.Path)
	if contentType == ContentTypePCM {
		rate, ch := f.SampleRate, f.Channels
		if rate == 0 {
			rate = DefaultSampleRate
		}
		if ch == 0 {
			ch = 1
		}
		contentType = fmt.Sprintf("audio/L16;rate=%d;channels=%d", rate, ch)
	}
	return Recording{Data: data, Filename: filepath.Base(f.Path), ContentType: contentType}, nil
}

var ErrNoMoreRecordings = errors.New("fake capturer: no more recordings")

// Fake отдает заранее заданные записи по очереди (для тестов)
type Fake struct {
	mu         sync.Mutex
	recordings []Recording
	errs       []error
	calls      int
}

func NewFake(recordings ...Recording) *Fake {
	return &Fake{recordings: recordings}
}

// FailNext заставляет следующий вызов вернуть err
func (f *Fake) FailNext(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err)
}

func (f *Fake) Capture(ctx context.Context) (Recording, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if err := ctx.Err(); err != nil {
		return Recording{}, err
	}
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return Recording{}, err
	}
	if len(f.recordings) == 0 {
		return Recording{}, ErrNoMoreRecordings
	}
	r := f.recordings[0]
	f.recordings = f.recordings[1:]
	return r, nil
}

// Calls возвращает число вызовов Capture
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
