package audio

import (
	"bytes"
	"encoding/binary"
)

const (
	WAVHeaderSize     = 44
	DefaultSampleRate = 16000
	bitsPerSample     = 16
)

// IsWAV проверяет наличие RIFF/WAVE заголовка
func IsWAV(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE"))
}

// EnsureWAV оборачивает сырой 16-битный PCM в WAV контейнер.
// Данные, уже содержащие заголовок, возвращаются как есть.
func EnsureWAV(data []byte, sampleRate uint32, channels uint16) []byte {
	if len(data) == 0 || IsWAV(data) {
		return data
	}
	return EncodeWAV(data, sampleRate, channels)
}

// EncodeWAV пишет заголовок PCM WAV и данные
func EncodeWAV(pcm []byte, sampleRate uint32, channels uint16) []byte {
	if channels == 0 {
		channels = 1
	}
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * uint32(blockAlign)

	buf := make([]byte, WAVHeaderSize+len(pcm))
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+len(pcm)))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], channels)
	binary.LittleEndian.PutUint32(buf[24:28], sampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], byteRate)
	binary.LittleEndian.PutUint16(buf[32:34], blockAlign)
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(len(pcm)))
	copy(buf[WAVHeaderSize:], pcm)
	return buf
}

// Duration возвращает длительность WAV в секундах (0, если заголовок не распознан)
func Duration(wav []byte) float64 {
	if !IsWAV(wav) || len(wav) < WAVHeaderSize {
		return 0
	}
	byteRate := binary.LittleEndian.Uint32(wav[28:32])
	if byteRate == 0 {
		return 0
	}
	return float64(len(wav)-WAVHeaderSize) / float64(byteRate)
}
