package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

// pcmWav encodes 16 bit stereo samples as a wav file.
func pcmWav(rate int, samples []float64) []byte {
	var b bytes.Buffer
	dataSize := uint32(len(samples) * 4)
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36)+dataSize)
	b.WriteString("WAVEfmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(2))
	binary.Write(&b, binary.LittleEndian, uint32(rate))
	binary.Write(&b, binary.LittleEndian, uint32(rate*4))
	binary.Write(&b, binary.LittleEndian, uint16(4))
	binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, dataSize)
	for _, s := range samples {
		v := int16(math.Max(-1, math.Min(1, s)) * 32767)
		binary.Write(&b, binary.LittleEndian, v)
		binary.Write(&b, binary.LittleEndian, v)
	}
	return b.Bytes()
}

func wavReader(rate int, samples []float64) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(pcmWav(rate, samples)))
}
