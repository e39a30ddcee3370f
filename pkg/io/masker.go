package io

import (
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// MaskReplacement is the string used to replace masked values.
const MaskReplacement = "***MASKED***"

type masker struct {
	mu       sync.RWMutex
	literals map[string]struct{}
}

func newMasker() *masker {
	return &masker{literals: make(map[string]struct{})}
}

func (m *masker) registerValue(value string) {
	if value == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.literals[value] = struct{}{}
}

func (m *masker) RegisterSecret(secret string) {
	if secret == "" {
		return
	}

	m.registerValue(secret)
	m.registerValue(base64.StdEncoding.EncodeToString([]byte(secret)))
	m.registerValue(base64.RawStdEncoding.EncodeToString([]byte(secret)))
	m.registerValue(url.QueryEscape(secret))
}

func (m *masker) mask(input string) string {
	if input == "" {
		return input
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.literals) == 0 {
		return input
	}

	// Longest first so a secret that contains another secret is replaced whole.
	values := make([]string, 0, len(m.literals))
	for v := range m.literals {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return len(values[i]) > len(values[j]) })

	for _, v := range values {
		input = strings.ReplaceAll(input, v, MaskReplacement)
	}
	return input
}
