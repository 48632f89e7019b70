package utils

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	mp3 "github.com/hajimehoshi/go-mp3"
	opus "github.com/qrtc/opus-go"
)

// opus accepts only these input rates
var supportedOpusRates = map[int]bool{8000: true, 12000: true, 16000: true, 24000: true, 48000: true}

// MP3ToMonoPCM decodes MP3 bytes into 16-bit little-endian mono PCM and
// returns the sample rate. go-mp3 always outputs interleaved stereo, so the
// channels are averaged down.
func MP3ToMonoPCM(mp3Data []byte) ([]byte, int, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(mp3Data))
	if err != nil {
		return nil, 0, fmt.Errorf("create mp3 decoder: %v", err)
	}

	sampleRate := decoder.SampleRate()

	stereo, err := io.ReadAll(decoder)
	if err != nil {
		return nil, 0, fmt.Errorf("read pcm data: %v", err)
	}

	// 4 bytes per stereo sample pair (left int16 + right int16)
	numSamples := len(stereo) / 4
	mono := make([]byte, numSamples*2)
	for i := 0; i < numSamples; i++ {
		left := int16(uint16(stereo[i*4]) | uint16(stereo[i*4+1])<<8)
		right := int16(uint16(stereo[i*4+2]) | uint16(stereo[i*4+3])<<8)
		sample := int16((int32(left) + int32(right)) / 2)
		mono[i*2] = byte(sample)
		mono[i*2+1] = byte(sample >> 8)
	}

	return mono, sampleRate, nil
}

// PCMDuration returns the playback duration of 16-bit mono PCM.
func PCMDuration(pcm []byte, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	samples := len(pcm) / 2
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}

// PCMToOpusFrames encodes 16-bit mono PCM into 60ms Opus packets for the
// realtime audio channel. Undersized trailing frames are padded with silence.
func PCMToOpusFrames(pcm []byte, sampleRate int) ([][]byte, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("empty pcm data")
	}
	if !supportedOpusRates[sampleRate] {
		return nil, fmt.Errorf("sample rate %dHz not supported by opus", sampleRate)
	}

	encoder, err := opus.CreateOpusEncoder(&opus.OpusEncoderConfig{
		SampleRate:    sampleRate,
		MaxChannels:   1,
		Application:   opus.AppVoIP,
		FrameDuration: opus.Framesize60Ms,
	})
	if err != nil {
		return nil, fmt.Errorf("create opus encoder: %v", err)
	}
	defer encoder.Close()

	if len(pcm)%2 != 0 {
		pcm = pcm[:len(pcm)-1]
	}

	samplesPerFrame := sampleRate * 60 / 1000
	bytesPerFrame := samplesPerFrame * 2

	var frames [][]byte
	for start := 0; start < len(pcm); start += bytesPerFrame {
		end := start + bytesPerFrame
		if end > len(pcm) {
			end = len(pcm)
		}

		framePcm := pcm[start:end]
		if len(framePcm) < bytesPerFrame {
			padded := make([]byte, bytesPerFrame)
			copy(padded, framePcm)
			framePcm = padded
		}

		outBuf := make([]byte, bytesPerFrame)
		n, err := encoder.Encode(framePcm, outBuf)
		if err != nil || n == 0 {
			continue
		}

		frame := make([]byte, n)
		copy(frame, outBuf[:n])
		frames = append(frames, frame)
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("no opus frames produced")
	}

	return frames, nil
}

// MP3ToOpusFrames decodes MP3 bytes and re-encodes them as Opus packets,
// returning the frames and the clip duration.
func MP3ToOpusFrames(mp3Data []byte) ([][]byte, time.Duration, error) {
	pcm, sampleRate, err := MP3ToMonoPCM(mp3Data)
	if err != nil {
		return nil, 0, err
	}

	frames, err := PCMToOpusFrames(pcm, sampleRate)
	if err != nil {
		return nil, 0, err
	}

	return frames, PCMDuration(pcm, sampleRate), nil
}

// PCMToWAV wraps 16-bit PCM in a RIFF/WAVE container. Transcription
// backends take whole files, not raw sample streams.
func PCMToWAV(pcm []byte, sampleRate int, channels int) []byte {
	buf := &bytes.Buffer{}
	byteRate := sampleRate * channels * 2

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

// IsWAV reports whether data already carries a RIFF header.
func IsWAV(data []byte) bool {
	return len(data) > 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

// SilenceRatio returns the fraction of near-zero 16-bit samples in PCM
// audio. Used to short-circuit transcription of all-silence captures.
func SilenceRatio(pcm []byte, threshold int16) float64 {
	numSamples := len(pcm) / 2
	if numSamples == 0 {
		return 1.0
	}

	silent := 0
	for i := 0; i < numSamples; i++ {
		sample := int16(uint16(pcm[i*2]) | uint16(pcm[i*2+1])<<8)
		if sample < 0 {
			sample = -sample
		}
		if sample <= threshold {
			silent++
		}
	}

	return float64(silent) / float64(numSamples)
}
