package ioremote

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gnames/gncat/pkg/blob"
)

// Memory is an in-process backend. Several clients may share one
// instance to emulate concurrent writers.
type Memory struct {
	mu       sync.Mutex
	data     []byte
	exists   bool
	noCred   bool
	failNext error
	puts     int
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{}
}

// SetCredential switches the emulated credential on or off.
func (m *Memory) SetCredential(b bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.noCred = !b
}

// FailNext makes the next Check, Get or Put return err.
func (m *Memory) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Puts returns the number of successful writes.
func (m *Memory) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// Data returns a copy of the stored content.
func (m *Memory) Data() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.data)
}

// Seed replaces the content without version checks.
func (m *Memory) Seed(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = slices.Clone(data)
	m.exists = true
}

func (m *Memory) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *Memory) Driver() blob.Driver { return blob.DriverMemory }

func (m *Memory) HasCredential() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.noCred
}

func (m *Memory) Check(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.takeFailure()
}

func (m *Memory) Get(context.Context) (blob.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return blob.Object{}, err
	}
	if !m.exists {
		return blob.Object{}, blob.ErrNotExist
	}
	return blob.Object{
		Data:    slices.Clone(m.data),
		Version: ContentVersion(m.data),
	}, nil
}

func (m *Memory) Put(
	_ context.Context,
	data []byte,
	opts blob.PutOptions,
) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return "", err
	}
	if m.exists && ContentVersion(m.data) != opts.Version {
		return "", fmt.Errorf("memory put: %w", blob.ErrConflict)
	}
	m.data = slices.Clone(data)
	m.exists = true
	m.puts++
	return ContentVersion(data), nil
}

// ErrInjected is a convenience failure for FailNext.
var ErrInjected = errors.New("injected failure")
