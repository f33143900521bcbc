package audio

import (
	"bytes"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	ContentTypeWAV    = "audio/wav"
	ContentTypePCM    = "audio/pcm"
	ContentTypeBinary = "application/octet-stream"

	defaultFilename = "response"
)

var extensionTypes = map[string]string{
	".wav":  ContentTypeWAV,
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".opus": "audio/ogg",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
	".flac": "audio/flac",
	".pcm":  ContentTypePCM,
	".raw":  ContentTypePCM,
}

var typeExtensions = map[string]string{
	ContentTypeWAV: ".wav",
	"audio/webm":   ".webm",
	"audio/ogg":    ".ogg",
	"audio/mpeg":   ".mp3",
	"audio/mp4":    ".m4a",
	"audio/flac":   ".flac",
}

// DetectContentType определяет контейнер по сигнатуре; неизвестное — application/octet-stream
func DetectContentType(data []byte) string {
	switch {
	case IsWAV(data):
		return ContentTypeWAV
	case bytes.HasPrefix(data, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return "audio/webm"
	case bytes.HasPrefix(data, []byte("OggS")):
		return "audio/ogg"
	case bytes.HasPrefix(data, []byte("fLaC")):
		return "audio/flac"
	case len(data) >= 8 && bytes.Equal(data[4:8], []byte("ftyp")):
		return "audio/mp4"
	case bytes.HasPrefix(data, []byte("ID3")), len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return "audio/mpeg"
	default:
		return ContentTypeBinary
	}
}

// TypeByExtension возвращает тип по расширению файла или "" для неизвестного
func TypeByExtension(path string) string {
	return extensionTypes[strings.ToLower(filepath.Ext(path))]
}

// IsRawPCM сообщает, что тип явно объявляет сырой 16-битный PCM (audio/pcm, audio/L16)
func IsRawPCM(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == ContentTypePCM || mediaType == "audio/l16"
}

// Prepare готовит запись к отправке. Байты уходят как есть; в WAV
// оборачивается только явно объявленный сырой PCM. Пустые тип и имя файла
// заполняются по сигнатуре.
func Prepare(rec Recording) Recording {
	if len(rec.Data) == 0 {
		return rec
	}

	if IsRawPCM(rec.ContentType) {
		rate, channels := pcmParams(rec.ContentType)
		rec.Data = EnsureWAV(rec.Data, rate, channels)
		rec.ContentType = ContentTypeWAV
		rec.Filename = withExtension(rec.Filename, ".wav")
		return rec
	}

	mediaType, _, err := mime.ParseMediaType(rec.ContentType)
	if err != nil || mediaType == ContentTypeBinary {
		rec.ContentType = DetectContentType(rec.Data)
		mediaType = rec.ContentType
	}
	if rec.Filename == "" {
		rec.Filename = defaultFilename + typeExtensions[mediaType]
	}
	return rec
}

// pcmParams читает rate и channels из параметров audio/L16
func pcmParams(contentType string) (uint32, uint16) {
	rate, channels := uint32(DefaultSampleRate), uint16(1)
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return rate, channels
	}
	if v, err := strconv.ParseUint(params["rate"], 10, 32); err == nil && v > 0 {
		rate = uint32(v)
	}
	if v, err := strconv.ParseUint(params["channels"], 10, 16); err == nil && v > 0 {
		channels = uint16(v)
	}
	return rate, channels
}

func withExtension(name, ext string) string {
	if name == "" {
		return defaultFilename + ext
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}
