package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/searchretriever/internal/db"
)

// GetVector reads a little-endian float32 vector stored by PutVector.
func (s *Store) GetVector(ctx context.Context, key string) ([]float32, error) {
	data, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Key: key, Err: err}
	}
	return decodeVector(data)
}

// PutVector stores vec as raw little-endian float32s.
func (s *Store) PutVector(ctx context.Context, key string, vec []float32, ttl time.Duration) error {
	value := rueidis.BinaryString(encodeVector(vec))

	var cmd rueidis.Completed
	if ttl > 0 {
		cmd = s.client.B().Set().Key(key).Value(value).Ex(ttl).Build()
	} else {
		cmd = s.client.B().Set().Key(key).Value(value).Build()
	}

	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Key: key, Err: err}
	}
	return nil
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a float32 vector", db.ErrCorruptValue, len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
