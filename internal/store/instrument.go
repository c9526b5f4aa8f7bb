package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// OpRecorder receives one call per store operation.
type OpRecorder interface {
	RecordStoreOp(ctx context.Context, op, collection string, d time.Duration, err error)
}

type instrumented struct {
	inner    Store
	recorder OpRecorder
}

// Instrument reports the latency and outcome of every operation on s.
func Instrument(s Store, recorder OpRecorder) Store {
	if recorder == nil {
		return s
	}
	return instrumented{inner: s, recorder: recorder}
}

// collection strips any session scope so metric cardinality stays bounded.
func collection(key string) string {
	if i := strings.LastIndex(key, ":"); i >= 0 {
		return key[i+1:]
	}
	return key
}

func (i instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	v, err := i.inner.Get(ctx, key)
	recErr := err
	if errors.Is(err, ErrNotFound) {
		recErr = nil
	}
	i.recorder.RecordStoreOp(ctx, "get", collection(key), time.Since(start), recErr)
	return v, err
}

func (i instrumented) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := i.inner.Set(ctx, key, value)
	i.recorder.RecordStoreOp(ctx, "set", collection(key), time.Since(start), err)
	return err
}

func (i instrumented) Remove(ctx context.Context, key string) error {
	start := time.Now()
	err := i.inner.Remove(ctx, key)
	i.recorder.RecordStoreOp(ctx, "remove", collection(key), time.Since(start), err)
	return err
}

func (i instrumented) Ping(ctx context.Context) error {
	if p, ok := i.inner.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
