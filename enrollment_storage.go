package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"govpass-enrollment/enrollment"

	"github.com/redis/go-redis/v9"
)

// Should be safe to use concurrently.
type EnrollmentStorage interface {
	// Store the wizard state for the given session id. Storing over an
	// existing state just replaces it.
	StoreState(sessionID string, state enrollment.State) error

	// Retrieve the wizard state for the given session id, with an
	// error in any case where it cannot.
	RetrieveState(sessionID string) (enrollment.State, error)

	// Remove the state; the value not being there is also an error.
	RemoveState(sessionID string) error
}

// StateTTL bounds how long an abandoned enrollment lingers.
const StateTTL time.Duration = 24 * time.Hour

func createStateKey(namespace, sessionID string) string {
	return fmt.Sprintf("%s:enrollment:%s", namespace, sessionID)
}

type RedisEnrollmentStorage struct {
	client    *redis.Client
	namespace string
}

func NewRedisEnrollmentStorage(client *redis.Client, namespace string) *RedisEnrollmentStorage {
	return &RedisEnrollmentStorage{client: client, namespace: namespace}
}

func (s *RedisEnrollmentStorage) StoreState(sessionID string, state enrollment.State) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode enrollment state: %w", err)
	}
	ctx := context.Background()
	return s.client.Set(ctx, createStateKey(s.namespace, sessionID), encoded, StateTTL).Err()
}

func (s *RedisEnrollmentStorage) RetrieveState(sessionID string) (enrollment.State, error) {
	ctx := context.Background()
	encoded, err := s.client.Get(ctx, createStateKey(s.namespace, sessionID)).Result()
	if err != nil {
		return enrollment.State{}, err
	}

	var state enrollment.State
	if err := json.Unmarshal([]byte(encoded), &state); err != nil {
		return enrollment.State{}, fmt.Errorf("failed to decode enrollment state: %w", err)
	}
	return state, nil
}

func (s *RedisEnrollmentStorage) RemoveState(sessionID string) error {
	ctx := context.Background()
	removed, err := s.client.Del(ctx, createStateKey(s.namespace, sessionID)).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return fmt.Errorf("no enrollment state for %s", sessionID)
	}
	return nil
}

// ------------------------------------------------------------------------------

type InMemoryEnrollmentStorage struct {
	states map[string]enrollment.State
	mutex  sync.Mutex
}

func NewInMemoryEnrollmentStorage() *InMemoryEnrollmentStorage {
	return &InMemoryEnrollmentStorage{
		states: make(map[string]enrollment.State),
	}
}

func (s *InMemoryEnrollmentStorage) StoreState(sessionID string, state enrollment.State) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.states[sessionID] = state
	return nil
}

func (s *InMemoryEnrollmentStorage) RetrieveState(sessionID string) (enrollment.State, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if state, ok := s.states[sessionID]; ok {
		return state, nil
	}
	return enrollment.State{}, fmt.Errorf("failed to find enrollment state for %s", sessionID)
}

func (s *InMemoryEnrollmentStorage) RemoveState(sessionID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.states[sessionID]; ok {
		delete(s.states, sessionID)
		return nil
	}
	return fmt.Errorf("failed to remove enrollment state for %s, because it wasn't there", sessionID)
}
